// Package geom is the polygon algebra façade: a minimal surface over a
// polygon-clipping/offsetting library providing offset, simplify,
// containment, bounding-rect and rotation. It owns no domain knowledge of
// layers, shells or fill — internal/planner builds on top of it.
package geom

import (
	"errors"
	"math"
	"sort"

	clipper "github.com/aligator/go.clipper"
)

// Point is a pair of double-precision coordinates in millimetres.
type Point struct {
	X, Y float64
}

// Ring is an ordered, closed sequence of points. The first point is not
// repeated at the end; closure is implicit.
type Ring []Point

// SignedArea returns the shoelace-formula signed area of the ring.
// Positive denotes counter-clockwise (exterior) orientation, negative
// denotes clockwise (hole) orientation.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += (r[i].X + r[j].X) * (r[j].Y - r[i].Y)
	}
	return area / 2
}

// BoundingRect returns the axis-aligned min/max corners of the ring.
func (r Ring) BoundingRect() (min, max Point) {
	if len(r) == 0 {
		return Point{}, Point{}
	}
	min, max = r[0], r[0]
	for _, p := range r[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Rotate returns a copy of the ring rigidly rotated about the origin by
// thetaRad radians.
func (r Ring) Rotate(thetaRad float64) Ring {
	out := make(Ring, len(r))
	sin, cos := math.Sin(thetaRad), math.Cos(thetaRad)
	for i, p := range r {
		out[i] = Point{
			X: p.X*cos - p.Y*sin,
			Y: p.X*sin + p.Y*cos,
		}
	}
	return out
}

// containsVertexOf reports whether any vertex of other lies inside ring r,
// using a ray-casting point-in-polygon test. Used only to decide hole
// ownership during ring nesting; boundary classification is unspecified.
func (r Ring) containsVertexOf(other Ring) bool {
	for _, p := range other {
		if r.containsPoint(p) {
			return true
		}
	}
	return false
}

// containsPoint implements the standard even-odd ray-casting test.
func (r Ring) containsPoint(p Point) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := r[i], r[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xIntersect := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// Polygon is one exterior ring plus zero or more interior (hole) rings.
type Polygon struct {
	Exterior  Ring
	Interiors []Ring
}

// BoundingRect returns the bounding rectangle of the polygon's exterior
// (interiors are required to lie within it).
func (p Polygon) BoundingRect() (min, max Point) {
	return p.Exterior.BoundingRect()
}

// Rotate returns a copy of the polygon with every ring rotated about the
// origin by thetaRad radians.
func (p Polygon) Rotate(thetaRad float64) Polygon {
	out := Polygon{Exterior: p.Exterior.Rotate(thetaRad)}
	for _, h := range p.Interiors {
		out.Interiors = append(out.Interiors, h.Rotate(thetaRad))
	}
	return out
}

// Contains reports whether point lies inside the polygon's exterior and
// outside every interior ring. Boundary points may return either answer.
func (p Polygon) Contains(pt Point) bool {
	if !p.Exterior.containsPoint(pt) {
		return false
	}
	for _, h := range p.Interiors {
		if h.containsPoint(pt) {
			return false
		}
	}
	return true
}

// MultiPolygon is an unordered set of Polygons with pairwise disjoint
// interiors. All geometric operations returning a region return a
// MultiPolygon, possibly empty.
type MultiPolygon []Polygon

// Rotate returns a copy of every polygon rotated about the origin.
func (mp MultiPolygon) Rotate(thetaRad float64) MultiPolygon {
	out := make(MultiPolygon, len(mp))
	for i, p := range mp {
		out[i] = p.Rotate(thetaRad)
	}
	return out
}

// ErrUnclosedHole is returned by NestRings when a ring with non-positive
// signed area (a candidate hole) has no enclosing exterior among the rings
// processed so far. internal/planner surfaces this as model.ErrMalformedRings
// at the Slice-construction boundary; Offset below treats it as "produced
// nothing".
var ErrUnclosedHole = errors.New("geom: hole ring has no enclosing exterior")

// NestRings reconstructs polygon/hole nesting from an unordered list of
// rings, exactly per the "Multiple rings" construction: sort by signed area
// descending, then for each non-positive-area ring attach it as a hole of
// the most recently pushed exterior whose boundary contains one of its
// vertices.
func NestRings(rings []Ring) (MultiPolygon, error) {
	type scored struct {
		ring Ring
		area float64
	}
	ordered := make([]scored, 0, len(rings))
	for _, r := range rings {
		ordered = append(ordered, scored{ring: r, area: r.SignedArea()})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].area > ordered[j].area
	})

	var polygons []Polygon
	for _, s := range ordered {
		if s.area > 0 {
			polygons = append(polygons, Polygon{Exterior: s.ring})
			continue
		}
		placed := false
		for i := len(polygons) - 1; i >= 0; i-- {
			if polygons[i].Exterior.containsVertexOf(s.ring) {
				polygons[i].Interiors = append(polygons[i].Interiors, s.ring)
				placed = true
				break
			}
		}
		if !placed {
			return nil, ErrUnclosedHole
		}
	}
	return MultiPolygon(polygons), nil
}

// clipperScale converts millimetre coordinates to the integer lattice the
// clipping library operates on; 10000 gives a 0.0001mm resolution, well
// below FDM print tolerances.
const clipperScale = 10000.0

func toClipperPath(r Ring) clipper.Path {
	path := make(clipper.Path, len(r))
	for i, p := range r {
		path[i] = &clipper.IntPoint{
			X: clipper.CInt(math.Round(p.X * clipperScale)),
			Y: clipper.CInt(math.Round(p.Y * clipperScale)),
		}
	}
	return path
}

func fromClipperPath(path clipper.Path) Ring {
	r := make(Ring, len(path))
	for i, p := range path {
		r[i] = Point{
			X: float64(p.X) / clipperScale,
			Y: float64(p.Y) / clipperScale,
		}
	}
	return r
}

// Offset computes the Minkowski sum of region with a disc of radius |delta|
// in millimetres; negative delta shrinks the region. Corners use a square
// join with a near-infinite miter limit, and every ring is treated as a
// closed polygon. A degenerate or empty input yields an empty
// MultiPolygon; no error is raised, matching the façade's failure contract.
func Offset(region MultiPolygon, delta float64) MultiPolygon {
	if len(region) == 0 {
		return MultiPolygon{}
	}

	o := clipper.NewClipperOffset()
	o.MiterLimit = 1e6
	for _, poly := range region {
		if len(poly.Exterior) < 3 {
			continue
		}
		o.AddPath(toClipperPath(poly.Exterior), clipper.JtSquare, clipper.EtClosedPolygon)
		for _, hole := range poly.Interiors {
			if len(hole) < 3 {
				continue
			}
			o.AddPath(toClipperPath(hole), clipper.JtSquare, clipper.EtClosedPolygon)
		}
	}

	result := o.Execute(delta * clipperScale)
	if len(result) == 0 {
		return MultiPolygon{}
	}

	rings := make([]Ring, 0, len(result))
	for _, path := range result {
		if len(path) < 3 {
			continue
		}
		rings = append(rings, fromClipperPath(path))
	}
	if len(rings) == 0 {
		return MultiPolygon{}
	}

	nested, err := NestRings(rings)
	if err != nil {
		// Corner-offset artefacts can occasionally produce an orphaned
		// sliver hole; the façade's contract is to degrade to empty rather
		// than propagate an error from a pure geometry operation.
		return MultiPolygon{}
	}
	return nested
}

// Simplify applies Douglas-Peucker line simplification to ring with
// tolerance epsilon. Points are only dropped, never moved or reordered. The
// result is not checked for self-intersection, so on some inputs edges of
// the simplified ring can cross where the input's edges did not.
func Simplify(r Ring, epsilon float64) Ring {
	if len(r) < 3 {
		return r
	}
	// Work on the closed loop by reusing the first point as a sentinel
	// endpoint so the simplification considers the closing edge too.
	closed := append(append(Ring{}, r...), r[0])
	simplified := douglasPeucker(closed, epsilon)
	if len(simplified) > 1 {
		simplified = simplified[:len(simplified)-1]
	}
	return simplified
}

func douglasPeucker(pts Ring, epsilon float64) Ring {
	if len(pts) < 3 {
		return pts
	}
	first, last := pts[0], pts[len(pts)-1]
	maxDist := -1.0
	maxIdx := -1
	for i := 1; i < len(pts)-1; i++ {
		d := perpendicularDistance(pts[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= epsilon || maxIdx == -1 {
		return Ring{first, last}
	}
	left := douglasPeucker(pts[:maxIdx+1], epsilon)
	right := douglasPeucker(pts[maxIdx:], epsilon)
	out := make(Ring, 0, len(left)+len(right)-1)
	out = append(out, left[:len(left)-1]...)
	out = append(out, right...)
	return out
}

func perpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}

// BoundingRect returns the axis-aligned min/max corners of every ring in
// the multi-polygon combined.
func BoundingRect(mp MultiPolygon) (min, max Point) {
	first := true
	for _, p := range mp {
		pMin, pMax := p.BoundingRect()
		if first {
			min, max = pMin, pMax
			first = false
			continue
		}
		min.X = math.Min(min.X, pMin.X)
		min.Y = math.Min(min.Y, pMin.Y)
		max.X = math.Max(max.X, pMax.X)
		max.Y = math.Max(max.Y, pMax.Y)
	}
	return min, max
}
