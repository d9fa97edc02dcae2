package planner

import (
	"math"

	"github.com/piwi3910/sliceplan/internal/geom"
	"github.com/piwi3910/sliceplan/internal/model"
)

// rotateChain returns a copy of chain with every coordinate rotated about
// the origin by thetaRad radians.
func rotateChain(chain model.MoveChain, thetaRad float64) model.MoveChain {
	rotatePoint := func(p model.Point2D) model.Point2D {
		return toPoint2D(geom.Ring{toGeomPoint(p)}.Rotate(thetaRad)[0])
	}
	out := model.MoveChain{StartPoint: rotatePoint(chain.StartPoint)}
	out.Moves = make([]model.Move, len(chain.Moves))
	for i, m := range chain.Moves {
		out.Moves[i] = model.Move{End: rotatePoint(m.End), Kind: m.Kind, Width: m.Width}
	}
	return out
}

// FillPass runs ScanFill over every polygon in slice.Remaining and appends
// the resulting chains to slice.Chains (spec §4.E). layerIndex selects the
// 120°-per-layer raster rotation used in Solid mode to decorrelate raster
// direction between layers.
func FillPass(slice *Slice, settings model.Settings, mode FillMode, layerIndex int) {
	for _, poly := range slice.Remaining {
		switch mode {
		case Solid:
			thetaRad := (120.0 * float64(layerIndex)) * math.Pi / 180
			rotated := poly.Rotate(thetaRad)
			chain, ok := ScanFill(rotated, settings.LayerWidth, Solid, 0)
			if ok {
				slice.Chains = append(slice.Chains, rotateChain(chain, -thetaRad))
			}
		case Sparse:
			chain, ok := ScanFill(poly, settings.LayerWidth, Sparse, settings.InfillPercentage)
			if ok {
				slice.Chains = append(slice.Chains, chain)
			}
		}
	}
}

// boundingRectOfRing is exposed for tests validating the rotation
// round-trip invariant against the original (un-rotated) polygon's
// bounding rectangle.
func boundingRectOfRing(r geom.Ring) (geom.Point, geom.Point) {
	return r.BoundingRect()
}
