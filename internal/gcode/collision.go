package gcode

import (
	"fmt"
	"math"

	"github.com/piwi3910/sliceplan/internal/model"
)

// CheckClipCollisions scans every Travel move in chain for passes within
// clearance of any bed clip zone (spec §4.L). Each zone is reported at most
// once per layer: the first travel move that passes within clearance of the
// zone's rectangle is kept and later ones for the same zone are dropped.
func CheckClipCollisions(chain model.MoveChain, layerIndex int, zones []model.ClipZone, clearance float64) []model.ClipCollision {
	if len(zones) == 0 {
		return nil
	}

	var collisions []model.ClipCollision
	cur := chain.StartPoint
	for _, m := range chain.Moves {
		if m.Kind != model.Travel {
			cur = m.End
			continue
		}
		for _, z := range zones {
			dist := segmentToZoneDistance(cur, m.End, z)
			if dist < clearance {
				collisions = append(collisions, model.ClipCollision{
					LayerIndex: layerIndex,
					ZoneLabel:  z.Label,
					X:          m.End.X,
					Y:          m.End.Y,
					Distance:   dist,
				})
			}
		}
		cur = m.End
	}
	return deduplicateCollisions(collisions)
}

// segmentToZoneDistance returns the minimum distance from the travel
// segment a→b to clip zone z, sampling only the segment's endpoints and
// midpoint. The result can be larger than the true segment-to-rectangle
// distance: a segment that passes near or across the zone between the
// sampled points is not detected.
func segmentToZoneDistance(a, b model.Point2D, z model.ClipZone) float64 {
	mid := model.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	da := distanceToZone(a, z)
	db := distanceToZone(b, z)
	dm := distanceToZone(mid, z)
	return math.Min(da, math.Min(db, dm))
}

// distanceToZone computes the minimum distance from point p to the
// rectangle of clip zone z. Returns 0 if p is inside the zone.
func distanceToZone(p model.Point2D, z model.ClipZone) float64 {
	nearestX := math.Max(z.X, math.Min(p.X, z.X+z.Width))
	nearestY := math.Max(z.Y, math.Min(p.Y, z.Y+z.Height))
	return math.Hypot(p.X-nearestX, p.Y-nearestY)
}

// deduplicateCollisions keeps at most one collision per (layer, zone) pair.
func deduplicateCollisions(collisions []model.ClipCollision) []model.ClipCollision {
	type key struct {
		layer int
		zone  string
	}
	seen := make(map[key]bool)
	var result []model.ClipCollision
	for _, c := range collisions {
		k := key{c.LayerIndex, c.ZoneLabel}
		if !seen[k] {
			seen[k] = true
			result = append(result, c)
		}
	}
	return result
}

// FormatCollisionWarnings produces human-readable warning messages from
// collision data.
func FormatCollisionWarnings(collisions []model.ClipCollision) []string {
	var warnings []string
	for _, c := range collisions {
		warnings = append(warnings, fmt.Sprintf(
			"layer %d: travel move near (%.1f, %.1f) passes within %.1fmm of clip %q",
			c.LayerIndex, c.X, c.Y, c.Distance, c.ZoneLabel,
		))
	}
	return warnings
}
