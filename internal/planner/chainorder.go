package planner

import (
	"math"

	"github.com/piwi3910/sliceplan/internal/model"
)

func distance(a, b model.Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ChainOrderer serialises slice.Chains into a single travel-minimised
// MoveChain (spec §4.F): greedy nearest-neighbour over chain start_points,
// stitched by a Travel move to each chain's start. Ties are broken by
// smallest index. Not promised to be optimal — O(n²), retained because n
// per layer is small.
func ChainOrderer(chains []model.MoveChain) model.MoveChain {
	if len(chains) == 0 {
		return model.MoveChain{}
	}

	remaining := make([]model.MoveChain, len(chains))
	copy(remaining, chains)

	ordered := []model.MoveChain{remaining[0]}
	remaining = remaining[1:]

	for len(remaining) > 0 {
		cur := ordered[len(ordered)-1].End()
		bestIdx := 0
		bestDist := distance(cur, remaining[0].StartPoint)
		for i := 1; i < len(remaining); i++ {
			d := distance(cur, remaining[i].StartPoint)
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		ordered = append(ordered, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	var fullMoves []model.Move
	for _, c := range ordered {
		fullMoves = append(fullMoves, model.Move{End: c.StartPoint, Kind: model.Travel})
		fullMoves = append(fullMoves, c.Moves...)
	}

	return model.MoveChain{StartPoint: ordered[0].StartPoint, Moves: fullMoves}
}
