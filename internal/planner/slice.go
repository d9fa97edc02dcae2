// Package planner implements the per-layer toolpath planner: the pipeline
// that turns a layer's closed polygon boundary into a travel-minimised
// tour of classified moves. It is strictly single-threaded and synchronous
// per layer; the outer driver (cmd/sliceplan) may plan multiple layers in
// parallel by instantiating one Slice per worker.
package planner

import (
	"github.com/piwi3910/sliceplan/internal/geom"
	"github.com/piwi3910/sliceplan/internal/model"
)

// Slice is the mutable per-layer workspace. Main is immutable after
// construction; Remaining shrinks monotonically as shell passes consume
// it; Chains only grows by append. A Slice is constructed once per layer,
// consumed by one ShellPass, one FillPass, then one chain-serialisation
// step, after which it is discarded.
type Slice struct {
	Main      geom.MultiPolygon
	Remaining geom.MultiPolygon
	Chains    []model.MoveChain
}

// NewSliceFromRing constructs a Slice from a single closed CCW loop, with
// no holes.
func NewSliceFromRing(ring geom.Ring) *Slice {
	poly := geom.Polygon{Exterior: ring}
	mp := geom.MultiPolygon{poly}
	return &Slice{Main: mp, Remaining: mp}
}

// NewSliceFromRings constructs a Slice from an unordered collection of
// rings with unknown parent/hole relationships, nesting them by
// containment (spec §4.B). Fails with model.ErrMalformedRings if a hole
// ring has no enclosing exterior.
func NewSliceFromRings(rings []geom.Ring) (*Slice, error) {
	mp, err := geom.NestRings(rings)
	if err != nil {
		return nil, model.ErrMalformedRings
	}
	return &Slice{Main: mp, Remaining: mp}, nil
}

func toPoint2D(p geom.Point) model.Point2D {
	return model.Point2D{X: p.X, Y: p.Y}
}

func toGeomPoint(p model.Point2D) geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

// ringChain builds a MoveChain that traces the full ring, one Move per
// consecutive edge, returning to start_point.
func ringChain(r geom.Ring, kind model.MoveKind, width float64) model.MoveChain {
	if len(r) == 0 {
		return model.MoveChain{}
	}
	start := toPoint2D(r[0])
	moves := make([]model.Move, 0, len(r))
	for i := 1; i < len(r); i++ {
		moves = append(moves, model.Move{End: toPoint2D(r[i]), Kind: kind, Width: width})
	}
	moves = append(moves, model.Move{End: start, Kind: kind, Width: width})
	return model.MoveChain{StartPoint: start, Moves: moves}
}
