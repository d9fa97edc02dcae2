package geom

import (
	"math"
	"testing"
)

func square(x0, y0, x1, y1 float64) Ring {
	return Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestRingSignedAreaOrientation(t *testing.T) {
	ccw := square(0, 0, 10, 10)
	if ccw.SignedArea() <= 0 {
		t.Fatalf("expected positive area for CCW square, got %v", ccw.SignedArea())
	}

	cw := Ring{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}
	if cw.SignedArea() >= 0 {
		t.Fatalf("expected negative area for CW square, got %v", cw.SignedArea())
	}
}

func TestNestRingsOrientationInvariant(t *testing.T) {
	outer := square(0, 0, 10, 10)
	// Hole given in CW order on purpose: nesting only cares about area sign
	// for exterior/interior classification, and an accidental CCW "hole"
	// would yield positive area and become its own exterior, so hand it in
	// clearly CW to exercise nesting.
	hole := Ring{{X: 3, Y: 3}, {X: 3, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 3}}

	mp, err := NestRings([]Ring{outer, hole})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(mp))
	}
	if mp[0].Exterior.SignedArea() <= 0 {
		t.Error("exterior must be CCW")
	}
	if len(mp[0].Interiors) != 1 || mp[0].Interiors[0].SignedArea() >= 0 {
		t.Error("interior must be CW")
	}
}

func TestNestRingsMalformedHole(t *testing.T) {
	// A hole-shaped ring with no enclosing exterior anywhere in the input.
	hole := Ring{{X: 3, Y: 3}, {X: 3, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 3}}
	_, err := NestRings([]Ring{hole})
	if err != ErrUnclosedHole {
		t.Fatalf("expected ErrUnclosedHole, got %v", err)
	}
}

func TestOffsetShrinkIsContained(t *testing.T) {
	region := MultiPolygon{{Exterior: square(0, 0, 10, 10)}}
	inset := Offset(region, -1)

	if len(inset) != 1 {
		t.Fatalf("expected 1 polygon after inset, got %d", len(inset))
	}
	min, max := inset[0].BoundingRect()
	const tolerance = 0.05
	if min.X < 1-tolerance || min.Y < 1-tolerance || max.X > 9+tolerance || max.Y > 9+tolerance {
		t.Errorf("inset bounding rect %v-%v not contained within original minus offset tolerance", min, max)
	}
}

func TestOffsetDegenerateInputYieldsEmpty(t *testing.T) {
	out := Offset(MultiPolygon{}, -1)
	if len(out) != 0 {
		t.Errorf("expected empty output for empty input, got %d polygons", len(out))
	}

	tiny := MultiPolygon{{Exterior: square(0, 0, 0.01, 0.01)}}
	out = Offset(tiny, -1)
	if len(out) != 0 {
		t.Errorf("expected evaporated region for an offset larger than the polygon, got %d polygons", len(out))
	}
}

func TestRotateRoundTrip(t *testing.T) {
	p := Polygon{Exterior: square(0, 0, 10, 10)}
	theta := math.Pi / 5
	rotated := p.Rotate(theta)
	back := rotated.Rotate(-theta)

	for i := range p.Exterior {
		dx := math.Abs(p.Exterior[i].X - back.Exterior[i].X)
		dy := math.Abs(p.Exterior[i].Y - back.Exterior[i].Y)
		if dx > 1e-9 || dy > 1e-9 {
			t.Errorf("rotation round-trip drifted at vertex %d: got %v want %v", i, back.Exterior[i], p.Exterior[i])
		}
	}
}

func TestBoundingRect(t *testing.T) {
	mp := MultiPolygon{
		{Exterior: square(0, 0, 10, 10)},
		{Exterior: square(20, 5, 25, 15)},
	}
	min, max := BoundingRect(mp)
	if min != (Point{X: 0, Y: 0}) || max != (Point{X: 25, Y: 15}) {
		t.Errorf("unexpected bounding rect min=%v max=%v", min, max)
	}
}

func TestContainsInteriorExcludesHole(t *testing.T) {
	p := Polygon{
		Exterior:  square(0, 0, 10, 10),
		Interiors: []Ring{{{X: 3, Y: 3}, {X: 3, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 3}}},
	}
	if !p.Contains(Point{X: 1, Y: 1}) {
		t.Error("expected point in the annulus to be contained")
	}
	if p.Contains(Point{X: 5, Y: 5}) {
		t.Error("expected point inside the hole to be excluded")
	}
}

func TestSimplifyPreservesEndpointsAndReducesCollinear(t *testing.T) {
	r := Ring{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	simplified := Simplify(r, 0.01)
	if len(simplified) >= len(r) {
		t.Errorf("expected simplify to drop the collinear midpoint, got %d points from %d", len(simplified), len(r))
	}
}
