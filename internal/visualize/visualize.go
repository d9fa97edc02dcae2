// Package visualize renders planned layers as an interactive HTML
// document for visual debugging, one chart per layer plus zoom/pan and a
// legend toggle supplied by the underlying charting library.
package visualize

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/piwi3910/sliceplan/internal/model"
)

// kindLabel names a MoveKind for chart legends.
func kindLabel(k model.MoveKind) string {
	switch k {
	case model.OuterPerimeter:
		return "Outer perimeter"
	case model.InnerPerimeter:
		return "Inner perimeter"
	case model.SolidInfill:
		return "Infill"
	default:
		return "Travel"
	}
}

var kindOrder = []model.MoveKind{model.OuterPerimeter, model.InnerPerimeter, model.SolidInfill, model.Travel}

var kindColor = map[model.MoveKind]string{
	model.OuterPerimeter: "#2196f3",
	model.InnerPerimeter: "#4caf50",
	model.SolidInfill:    "#ff9800",
	model.Travel:         "#b0b0b0",
}

// LayerReport mirrors internal/report.LayerReport; kept as a local type
// so this package has no dependency on the report package.
type LayerReport struct {
	LayerIndex int
	Z          float64
	Chain      model.MoveChain
}

// seriesRuns splits a chain's moves of a given kind into contiguous runs
// of connected points, so unrelated runs are not joined by a spurious
// line segment on the chart.
func seriesRuns(chain model.MoveChain, kind model.MoveKind) [][]model.Point2D {
	var runs [][]model.Point2D
	var current []model.Point2D
	from := chain.StartPoint

	flush := func() {
		if len(current) > 1 {
			runs = append(runs, current)
		}
		current = nil
	}

	for _, m := range chain.Moves {
		if m.Kind == kind {
			if len(current) == 0 {
				current = append(current, from)
			}
			current = append(current, m.End)
		} else {
			flush()
		}
		from = m.End
	}
	flush()
	return runs
}

// lineDataForKind converts a chain's moves of one kind into go-echarts
// line data, with a gap (nil value) inserted between unconnected runs.
func lineDataForKind(chain model.MoveChain, kind model.MoveKind) []opts.LineData {
	var data []opts.LineData
	runs := seriesRuns(chain, kind)
	for i, run := range runs {
		if i > 0 {
			data = append(data, opts.LineData{Value: nil})
		}
		for _, p := range run {
			data = append(data, opts.LineData{Value: []interface{}{p.X, p.Y}})
		}
	}
	return data
}

// buildLayerChart builds one Line chart showing every move kind in a layer.
func buildLayerChart(job model.Job, layer LayerReport) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s — layer %d (Z=%.2f mm)", job.Name, layer.LayerIndex, layer.Z),
			Subtitle: fmt.Sprintf("%d moves", len(layer.Chain.Moves)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (mm)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y (mm)", Type: "value"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside"},
			opts.DataZoom{Type: "slider"},
		),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true)},
			},
		}),
	)

	for _, kind := range kindOrder {
		data := lineDataForKind(layer.Chain, kind)
		if len(data) == 0 {
			continue
		}
		symbol := "none"
		lineWidth := float32(1.5)
		if kind == model.Travel {
			lineWidth = 0.75
		}
		line.AddSeries(kindLabel(kind), data,
			charts.WithLineChartOpts(opts.LineChart{
				Symbol:     symbol,
				ShowSymbol: opts.Bool(false),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: kindColor[kind],
				Width: lineWidth,
			}),
		)
	}

	return line
}

// GenerateHTML renders one interactive chart per layer into a single HTML
// page, in layer order.
func GenerateHTML(w io.Writer, job model.Job, layers []LayerReport) error {
	page := components.NewPage()
	page.SetPageTitle(job.Name + " — toolpath viewer")
	page.SetLayout(components.PageCenterLayout)

	for _, layer := range layers {
		page.AddCharts(buildLayerChart(job, layer))
	}

	return page.Render(w)
}
