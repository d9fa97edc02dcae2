package gcode

import (
	"strings"
	"testing"

	"github.com/piwi3910/sliceplan/internal/model"
)

func newTestSettings() model.Settings {
	s := model.DefaultSettings()
	s.GCodeProfile = "Marlin"
	return s
}

func newTestChain() model.MoveChain {
	return model.MoveChain{
		StartPoint: model.Point2D{X: 0, Y: 0},
		Moves: []model.Move{
			{End: model.Point2D{X: 10, Y: 0}, Kind: model.OuterPerimeter, Width: 0.4},
			{End: model.Point2D{X: 10, Y: 10}, Kind: model.OuterPerimeter, Width: 0.4},
			{End: model.Point2D{X: 50, Y: 50}, Kind: model.Travel},
			{End: model.Point2D{X: 60, Y: 50}, Kind: model.SolidInfill, Width: 0.4},
		},
	}
}

func TestGenerateLayerEmitsHeaderOnlyOnFirstLayer(t *testing.T) {
	gen := New(newTestSettings())
	first := gen.GenerateLayer(newTestChain(), 0, 0.2, false)
	second := gen.GenerateLayer(newTestChain(), 1, 0.4, true)

	if !strings.Contains(first, "G28") {
		t.Error("expected home command in the first layer's output")
	}
	if strings.Contains(second, "G28") {
		t.Error("expected no home command on subsequent layers")
	}
}

func TestGenerateLayerEmitsFooterOnlyOnLastLayer(t *testing.T) {
	gen := New(newTestSettings())
	mid := gen.GenerateLayer(newTestChain(), 0, 0.2, false)
	last := gen.GenerateLayer(newTestChain(), 1, 0.4, true)

	if strings.Contains(mid, "job complete") {
		t.Error("expected no footer on a non-final layer")
	}
	if !strings.Contains(last, "job complete") {
		t.Error("expected footer on the final layer")
	}
}

func TestGenerateLayerExtrudingMovesCarryE(t *testing.T) {
	gen := New(newTestSettings())
	code := gen.GenerateLayer(newTestChain(), 0, 0.2, true)

	lines := strings.Split(code, "\n")
	foundExtrudeWithE := false
	foundTravelWithoutE := false
	for _, line := range lines {
		if strings.HasPrefix(line, "G1 X10.00000 Y0.00000") {
			if strings.Contains(line, "E") {
				foundExtrudeWithE = true
			}
		}
		if strings.HasPrefix(line, "G0 X50.00000 Y50.00000") {
			if !strings.Contains(line, "E") {
				foundTravelWithoutE = true
			}
		}
	}
	if !foundExtrudeWithE {
		t.Errorf("expected an extruding move carrying an E value:\n%s", code)
	}
	if !foundTravelWithoutE {
		t.Errorf("expected a travel move with no E value:\n%s", code)
	}
}

func TestGenerateLayerRetractsBeforeTravel(t *testing.T) {
	gen := New(newTestSettings())
	code := gen.GenerateLayer(newTestChain(), 0, 0.2, true)

	if !strings.Contains(code, "G1 E-1.00000 F1800") {
		t.Errorf("expected a retraction command before the travel move:\n%s", code)
	}
}

func TestTotalExtrudedAccumulatesAcrossLayers(t *testing.T) {
	gen := New(newTestSettings())
	gen.GenerateLayer(newTestChain(), 0, 0.2, false)
	afterOne := gen.TotalExtruded()
	gen.GenerateLayer(newTestChain(), 1, 0.4, true)
	afterTwo := gen.TotalExtruded()

	if afterTwo <= afterOne {
		t.Errorf("expected cumulative extrusion to grow, got %v then %v", afterOne, afterTwo)
	}
}

func TestGenericProfileHasNoRetractCommand(t *testing.T) {
	s := newTestSettings()
	s.GCodeProfile = "Generic"
	gen := New(s)
	code := gen.GenerateLayer(newTestChain(), 0, 0.2, true)

	if strings.Contains(code, "F1800") {
		t.Error("Generic profile has no retract command and should never emit one")
	}
}
