package planner

import (
	"math"
	"sort"

	"github.com/piwi3910/sliceplan/internal/geom"
	"github.com/piwi3910/sliceplan/internal/model"
)

// FillMode selects solid or sparse raster fill for one ScanFill invocation.
type FillMode int

const (
	// Solid rasters at Δy = layer_width, depositing every crossing pair.
	Solid FillMode = iota
	// Sparse rasters at Δy = layer_width/ratio, snapped to a global
	// lattice, and skips depositing across scanlines where a new edge
	// just activated.
	Sparse
)

// scanEdge is an oriented polygon edge canonicalised so p0.Y <= p1.Y.
type scanEdge struct {
	p0, p1 geom.Point
}

// collectEdges enumerates every edge of the polygon's exterior and every
// hole, canonicalised to p0.Y <= p1.Y.
func collectEdges(poly geom.Polygon) []scanEdge {
	var edges []scanEdge
	edges = append(edges, ringEdges(poly.Exterior)...)
	for _, hole := range poly.Interiors {
		edges = append(edges, ringEdges(hole)...)
	}
	return edges
}

func ringEdges(r geom.Ring) []scanEdge {
	n := len(r)
	if n < 2 {
		return nil
	}
	edges := make([]scanEdge, 0, n)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		if a.Y <= b.Y {
			edges = append(edges, scanEdge{p0: a, p1: b})
		} else {
			edges = append(edges, scanEdge{p0: b, p1: a})
		}
	}
	return edges
}

// ScanFill runs a horizontal scanline raster over a single polygon,
// returning (chain, true), or an empty chain and false if the polygon
// produced no scanline output (the empty-polygon sentinel) — never an error, since
// scanline numerical degeneracies are tolerated by construction.
func ScanFill(poly geom.Polygon, layerWidth float64, mode FillMode, ratio float64) (model.MoveChain, bool) {
	edges := collectEdges(poly)
	if len(edges) == 0 {
		return model.MoveChain{}, false
	}

	// Sort by p0.Y descending so the stack (slice end) pops the edge with
	// the smallest p0.Y next, giving ascending-Y activation order.
	sort.Slice(edges, func(i, j int) bool { return edges[i].p0.Y > edges[j].p0.Y })

	var dy, y float64
	if mode == Solid {
		dy = layerWidth
		y = edges[len(edges)-1].p0.Y + layerWidth/2
	} else {
		dy = layerWidth / ratio
		minY := edges[len(edges)-1].p0.Y
		y = math.Ceil(minY/dy) * dy
	}

	var active []scanEdge
	orient := false
	var startPoint geom.Point
	haveStart := false
	var moves []model.Move

	for len(edges) > 0 {
		lineChange := false
		for len(edges) > 0 && edges[len(edges)-1].p0.Y < y {
			active = append(active, edges[len(edges)-1])
			edges = edges[:len(edges)-1]
			lineChange = true
		}

		if len(edges) == 0 {
			break
		}

		// Retire every edge whose p1.Y <= y.
		retained := active[:0]
		for _, e := range active {
			if e.p1.Y > y {
				retained = append(retained, e)
			}
		}
		active = retained

		xs := make([]float64, 0, len(active))
		for _, e := range active {
			x := e.p0.X + (y-e.p0.Y)*(e.p1.X-e.p0.X)/(e.p1.Y-e.p0.Y)
			xs = append(xs, x)
		}
		sort.Float64s(xs)

		if len(xs) > 0 {
			if !haveStart {
				startPoint = geom.Point{X: xs[0], Y: y}
				haveStart = true
			}
			moves = append(moves, model.Move{End: toPoint2D(geom.Point{X: xs[0], Y: y}), Kind: model.Travel})

			emitPair := func(a, b float64) {
				firstKind := model.Travel
				if mode == Sparse && !lineChange {
					firstKind = model.SolidInfill
				} else if mode == Solid {
					firstKind = model.Travel
				}
				moves = append(moves, model.Move{End: toPoint2D(geom.Point{X: a, Y: y}), Kind: firstKind})
				moves = append(moves, model.Move{End: toPoint2D(geom.Point{X: b, Y: y}), Kind: model.SolidInfill})
			}

			if orient {
				for i := 0; i+1 < len(xs); i += 2 {
					emitPair(xs[i], xs[i+1])
				}
			} else {
				for i := len(xs) - 1; i-1 >= 0; i -= 2 {
					emitPair(xs[i], xs[i-1])
				}
			}
		}

		orient = !orient
		y += dy
	}

	if !haveStart {
		return model.MoveChain{}, false
	}
	return model.MoveChain{StartPoint: toPoint2D(startPoint), Moves: moves}, true
}
