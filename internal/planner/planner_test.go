package planner

import (
	"math"
	"testing"

	"github.com/piwi3910/sliceplan/internal/geom"
	"github.com/piwi3910/sliceplan/internal/model"
)

func unitSquare10() geom.Ring {
	return geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
}

func squareHole3to7() geom.Ring {
	return geom.Ring{{X: 3, Y: 3}, {X: 3, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 3}}
}

// Scenario 1: unit square, one shell, no fill.
func TestScenarioUnitSquareOneShell(t *testing.T) {
	slice := NewSliceFromRing(unitSquare10())
	settings := model.Settings{LayerWidth: 1, WallCount: 1}
	ShellPass(slice, settings)

	if len(slice.Chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(slice.Chains))
	}
	chain := slice.Chains[0]
	for _, m := range chain.Moves {
		if m.Kind != model.OuterPerimeter {
			t.Errorf("expected only OuterPerimeter moves in the single shell pass, got %v", m.Kind)
		}
	}
	if len(chain.Moves) != 4 {
		t.Errorf("expected 4 perimeter moves tracing the inset square, got %d", len(chain.Moves))
	}

	if math.Abs(chain.StartPoint.X-0.5) > 0.1 || math.Abs(chain.StartPoint.Y-0.5) > 0.1 {
		t.Errorf("expected start point near (0.5,0.5), got %v", chain.StartPoint)
	}
}

// Scenario 2: square with square hole, one shell.
func TestScenarioSquareWithHoleOneShell(t *testing.T) {
	slice, err := NewSliceFromRings([]geom.Ring{unitSquare10(), squareHole3to7()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settings := model.Settings{LayerWidth: 1, WallCount: 1}
	ShellPass(slice, settings)

	if len(slice.Chains) != 2 {
		t.Fatalf("expected 2 chains (outer + hole), got %d", len(slice.Chains))
	}

	ordered := ChainOrderer(slice.Chains)
	travelCount := 0
	for _, m := range ordered.Moves {
		if m.Kind == model.Travel {
			travelCount++
		}
	}
	if travelCount != 2 {
		t.Errorf("expected 2 travel moves stitching 2 chains, got %d", travelCount)
	}
}

// Scenario 3: solid fill of 10x10 square, layer_width=1, layer_index=0.
func TestScenarioSolidFillBoustrophedon(t *testing.T) {
	poly := geom.Polygon{Exterior: unitSquare10()}
	chain, ok := ScanFill(poly, 1, Solid, 0)
	if !ok {
		t.Fatal("expected ScanFill to produce a chain")
	}

	var infillEnds []model.Point2D
	for _, m := range chain.Moves {
		if m.Kind == model.SolidInfill {
			infillEnds = append(infillEnds, m.End)
		}
	}
	if len(infillEnds) != 10 {
		t.Errorf("expected 10 scanlines (one SolidInfill move per line for a square), got %d", len(infillEnds))
	}

	if len(infillEnds) >= 2 {
		firstGoesRight := infillEnds[0].X > 5
		secondGoesRight := infillEnds[1].X > 5
		if firstGoesRight == secondGoesRight {
			t.Error("expected alternating (boustrophedon) scanline direction")
		}
	}
}

// Scenario 4: sparse 20% fill of 10x10 square, layer_width=1.
func TestScenarioSparseFillLatticeAlignment(t *testing.T) {
	poly := geom.Polygon{Exterior: unitSquare10()}
	chain, ok := ScanFill(poly, 1, Sparse, 0.2)
	if !ok {
		t.Fatal("expected ScanFill to produce a chain")
	}

	dy := 1.0 / 0.2 // 5
	seenY := map[float64]bool{}
	for _, m := range chain.Moves {
		seenY[m.End.Y] = true
	}
	for y := range seenY {
		ratio := y / dy
		if math.Abs(ratio-math.Round(ratio)) > 1e-6 {
			t.Errorf("scanline y=%v is not on the {k*layer_width/ratio} lattice", y)
		}
	}
}

// Scenario 5: two disjoint squares; ordering bridges them with one Travel.
func TestScenarioTwoDisjointSquaresOrdering(t *testing.T) {
	chains := []model.MoveChain{
		ringChain(geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, model.OuterPerimeter, 1),
		ringChain(geom.Ring{{X: 100, Y: 0}, {X: 110, Y: 0}, {X: 110, Y: 10}, {X: 100, Y: 10}}, model.OuterPerimeter, 1),
	}
	ordered := ChainOrderer(chains)

	travelCount := 0
	for _, m := range ordered.Moves {
		if m.Kind == model.Travel {
			travelCount++
		}
	}
	if travelCount != 2 {
		t.Errorf("expected 2 travel moves (one stitch to each chain's start), got %d", travelCount)
	}
}

// Scenario 6: pathological triangle with a vertex exactly on a scanline;
// ScanFill must complete without raising (panicking).
func TestScenarioTriangleVertexOnScanline(t *testing.T) {
	tri := geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 5}}
	poly := geom.Polygon{Exterior: tri}

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("ScanFill panicked on a vertex-on-scanline triangle: %v", r)
		}
	}()
	_, _ = ScanFill(poly, 1, Solid, 0)
}

func TestMonotoneShrinkInvariant(t *testing.T) {
	slice := NewSliceFromRing(unitSquare10())
	settings := model.Settings{LayerWidth: 1, WallCount: 3}
	ShellPass(slice, settings)

	for _, poly := range slice.Remaining {
		min, max := poly.BoundingRect()
		if min.X < 0 || min.Y < 0 || max.X > 10 || max.Y > 10 {
			t.Errorf("remaining region %v-%v escaped the original 10x10 bound", min, max)
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() model.MoveChain {
		slice := NewSliceFromRing(unitSquare10())
		settings := model.Settings{LayerWidth: 1, WallCount: 2, InfillPercentage: 0.3}
		ShellPass(slice, settings)
		FillPass(slice, settings, Sparse, 0)
		return ChainOrderer(slice.Chains)
	}

	a := run()
	b := run()
	if len(a.Moves) != len(b.Moves) {
		t.Fatalf("expected identical move counts across runs, got %d vs %d", len(a.Moves), len(b.Moves))
	}
	for i := range a.Moves {
		if a.Moves[i] != b.Moves[i] {
			t.Fatalf("move %d differs across runs: %v vs %v", i, a.Moves[i], b.Moves[i])
		}
	}
}

func TestInnerPerimetersFirstOrdersInnerBeforeOuter(t *testing.T) {
	slice := NewSliceFromRing(unitSquare10())
	settings := model.Settings{LayerWidth: 1, WallCount: 3, InnerPerimetersFirst: true}
	ShellPass(slice, settings)

	if len(slice.Chains) == 0 {
		t.Fatal("expected at least one chain")
	}
	// The outer perimeter (depth 0) must be the last chain appended.
	last := slice.Chains[len(slice.Chains)-1]
	if last.Moves[0].Kind != model.OuterPerimeter {
		t.Errorf("expected the outer perimeter to be appended last when inner_perimeters_first is set, got %v", last.Moves[0].Kind)
	}
}

func TestRotationRoundTripSolidFill(t *testing.T) {
	slice := NewSliceFromRing(unitSquare10())
	settings := model.Settings{LayerWidth: 1, WallCount: 0}
	FillPass(slice, settings, Solid, 1)

	if len(slice.Chains) == 0 {
		t.Fatal("expected at least one solid fill chain")
	}
	min, max := boundingRectOfRing(geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 10}})
	tolerance := settings.LayerWidth
	for _, chain := range slice.Chains {
		if chain.StartPoint.X < min.X-tolerance || chain.StartPoint.X > max.X+tolerance {
			t.Errorf("start point escaped bounding rect tolerance: %v", chain.StartPoint)
		}
	}
}
