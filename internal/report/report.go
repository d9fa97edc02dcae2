// Package report renders finished planning runs into human-facing
// artifacts: a per-layer PDF toolpath diagram, a per-layer statistics
// spreadsheet, and a QR-coded job card for bed-side identification.
package report

import (
	"math"

	"github.com/piwi3910/sliceplan/internal/model"
)

// LayerReport pairs one planned layer's chain with its Z height, in the
// order the job produced them.
type LayerReport struct {
	LayerIndex int
	Z          float64
	Chain      model.MoveChain
}

// LayerStats summarises the move lengths in a single layer, broken down
// by move kind.
type LayerStats struct {
	TravelLength         float64
	OuterPerimeterLength float64
	InnerPerimeterLength float64
	InfillLength         float64
	MoveCount            int
}

// TotalPrintedLength returns the combined length of every non-travel move.
func (s LayerStats) TotalPrintedLength() float64 {
	return s.OuterPerimeterLength + s.InnerPerimeterLength + s.InfillLength
}

// computeLayerStats walks a chain once, summing segment lengths per kind.
func computeLayerStats(chain model.MoveChain) LayerStats {
	var stats LayerStats
	from := chain.StartPoint
	for _, m := range chain.Moves {
		length := math.Hypot(m.End.X-from.X, m.End.Y-from.Y)
		switch m.Kind {
		case model.Travel:
			stats.TravelLength += length
		case model.OuterPerimeter:
			stats.OuterPerimeterLength += length
		case model.InnerPerimeter:
			stats.InnerPerimeterLength += length
		case model.SolidInfill:
			stats.InfillLength += length
		}
		stats.MoveCount++
		from = m.End
	}
	return stats
}

// boundingRectOfChain returns the min/max corners spanned by a chain's
// start point and every move endpoint.
func boundingRectOfChain(chain model.MoveChain) (min, max model.Point2D) {
	min, max = chain.StartPoint, chain.StartPoint
	for _, m := range chain.Moves {
		if m.End.X < min.X {
			min.X = m.End.X
		}
		if m.End.Y < min.Y {
			min.Y = m.End.Y
		}
		if m.End.X > max.X {
			max.X = m.End.X
		}
		if m.End.Y > max.Y {
			max.Y = m.End.Y
		}
	}
	return min, max
}
