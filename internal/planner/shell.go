package planner

import (
	"github.com/piwi3910/sliceplan/internal/geom"
	"github.com/piwi3910/sliceplan/internal/model"
)

// ShellPass runs settings.WallCount concentric insets over slice.Remaining,
// emitting one MoveChain per exterior and interior ring at each depth
// (spec §4.C). Pass i=0 is the only OuterPerimeter; every subsequent pass
// is InnerPerimeter. remaining is advanced by two half-width offsets per
// pass (one to compute the inset contour, one to shrink remaining so the
// next pass sits a full layer_width further in) — see the "outer shell
// pass" open question in spec §9, preserved here as specified.
//
// When settings.InnerPerimetersFirst is set, a recursive depth-first
// variant is used instead: each branch descends to its innermost wall
// before any chain is appended, so chains unwind from innermost to
// outermost in slice.Chains. Geometrically the two variants are identical;
// only the order chains are appended in differs.
func ShellPass(slice *Slice, settings model.Settings) {
	if settings.InnerPerimetersFirst {
		slice.Remaining = shellRecursive(slice.Remaining, settings, 0, &slice.Chains)
		return
	}

	region := slice.Remaining
	for i := 0; i < settings.WallCount; i++ {
		inset := geom.Offset(region, -settings.LayerWidth/2)
		if len(inset) == 0 {
			region = inset
			break
		}

		kind := model.InnerPerimeter
		if i == 0 {
			kind = model.OuterPerimeter
		}
		emitShellChains(&slice.Chains, inset, kind, settings.LayerWidth)

		region = geom.Offset(inset, -settings.LayerWidth/2)
	}
	slice.Remaining = region
}

func emitShellChains(chains *[]model.MoveChain, inset geom.MultiPolygon, kind model.MoveKind, layerWidth float64) {
	for _, poly := range inset {
		*chains = append(*chains, ringChain(poly.Exterior, kind, layerWidth))
		for _, hole := range poly.Interiors {
			*chains = append(*chains, ringChain(hole, kind, layerWidth))
		}
	}
}

// shellRecursive descends one wall at a time, recursing before appending
// its own pass's chains so the deepest (most interior) wall is appended
// first and the outer wall (depth 0) last.
func shellRecursive(region geom.MultiPolygon, settings model.Settings, depth int, chains *[]model.MoveChain) geom.MultiPolygon {
	if depth >= settings.WallCount || len(region) == 0 {
		return region
	}

	inset := geom.Offset(region, -settings.LayerWidth/2)
	if len(inset) == 0 {
		return geom.MultiPolygon{}
	}

	nextRegion := geom.Offset(inset, -settings.LayerWidth/2)
	remainder := shellRecursive(nextRegion, settings, depth+1, chains)

	kind := model.InnerPerimeter
	if depth == 0 {
		kind = model.OuterPerimeter
	}
	emitShellChains(chains, inset, kind, settings.LayerWidth)

	return remainder
}
