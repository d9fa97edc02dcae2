package gcode

import (
	"testing"

	"github.com/piwi3910/sliceplan/internal/model"
)

func TestDistanceToZonePointOutside(t *testing.T) {
	z := model.ClipZone{X: 100, Y: 100, Width: 50, Height: 50}

	d := distanceToZone(model.Point2D{X: 80, Y: 125}, z)
	if diff := d - 20.0; diff > 0.001 || diff < -0.001 {
		t.Errorf("expected 20mm to the left, got %v", d)
	}
}

func TestDistanceToZonePointInside(t *testing.T) {
	z := model.ClipZone{X: 100, Y: 100, Width: 50, Height: 50}
	d := distanceToZone(model.Point2D{X: 125, Y: 125}, z)
	if d != 0 {
		t.Errorf("expected 0 distance for a point inside the zone, got %v", d)
	}
}

func TestCheckClipCollisionsNoZones(t *testing.T) {
	chain := model.MoveChain{
		StartPoint: model.Point2D{X: 0, Y: 0},
		Moves:      []model.Move{{End: model.Point2D{X: 100, Y: 100}, Kind: model.Travel}},
	}
	if collisions := CheckClipCollisions(chain, 0, nil, 5); len(collisions) != 0 {
		t.Errorf("expected no collisions with no zones configured, got %d", len(collisions))
	}
}

func TestCheckClipCollisionsDetectsNearbyTravel(t *testing.T) {
	chain := model.MoveChain{
		StartPoint: model.Point2D{X: 0, Y: 105},
		Moves:      []model.Move{{End: model.Point2D{X: 200, Y: 105}, Kind: model.Travel}},
	}
	zones := []model.ClipZone{{Label: "ClipA", X: 90, Y: 100, Width: 20, Height: 20}}

	collisions := CheckClipCollisions(chain, 3, zones, 10)
	if len(collisions) == 0 {
		t.Fatal("expected a collision for a travel path crossing near the clip zone")
	}
	if collisions[0].ZoneLabel != "ClipA" {
		t.Errorf("expected zone label ClipA, got %q", collisions[0].ZoneLabel)
	}
	if collisions[0].LayerIndex != 3 {
		t.Errorf("expected layer index 3, got %d", collisions[0].LayerIndex)
	}
}

func TestCheckClipCollisionsIgnoresExtrudingMoves(t *testing.T) {
	chain := model.MoveChain{
		StartPoint: model.Point2D{X: 95, Y: 105},
		Moves:      []model.Move{{End: model.Point2D{X: 96, Y: 105}, Kind: model.SolidInfill, Width: 0.4}},
	}
	zones := []model.ClipZone{{Label: "ClipA", X: 90, Y: 100, Width: 20, Height: 20}}

	if collisions := CheckClipCollisions(chain, 0, zones, 10); len(collisions) != 0 {
		t.Errorf("expected no collisions for a non-travel move, got %d", len(collisions))
	}
}

func TestCheckClipCollisionsFarTravelNoCollision(t *testing.T) {
	chain := model.MoveChain{
		StartPoint: model.Point2D{X: 0, Y: 0},
		Moves:      []model.Move{{End: model.Point2D{X: 10, Y: 10}, Kind: model.Travel}},
	}
	zones := []model.ClipZone{{Label: "ClipA", X: 900, Y: 900, Width: 20, Height: 20}}

	if collisions := CheckClipCollisions(chain, 0, zones, 10); len(collisions) != 0 {
		t.Errorf("expected no collisions for a far-away travel move, got %d", len(collisions))
	}
}

func TestDeduplicateCollisionsKeepsOnePerLayerZone(t *testing.T) {
	collisions := []model.ClipCollision{
		{LayerIndex: 0, ZoneLabel: "A"},
		{LayerIndex: 0, ZoneLabel: "A"},
		{LayerIndex: 0, ZoneLabel: "B"},
		{LayerIndex: 1, ZoneLabel: "A"},
	}
	result := deduplicateCollisions(collisions)
	if len(result) != 3 {
		t.Errorf("expected 3 deduplicated collisions, got %d", len(result))
	}
}

func TestFormatCollisionWarnings(t *testing.T) {
	collisions := []model.ClipCollision{
		{LayerIndex: 2, ZoneLabel: "ClipA", X: 10, Y: 20, Distance: 3.5},
	}
	warnings := FormatCollisionWarnings(collisions)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0] == "" {
		t.Error("expected a non-empty warning message")
	}
}
