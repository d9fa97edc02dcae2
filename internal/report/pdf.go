package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/sliceplan/internal/model"
)

// moveColor represents an RGB color used to distinguish move kinds in the
// toolpath diagram.
type moveColor struct {
	R, G, B int
}

var kindColors = map[model.MoveKind]moveColor{
	model.Travel:         {R: 180, G: 180, B: 180},
	model.OuterPerimeter: {R: 33, G: 150, B: 243},
	model.InnerPerimeter: {R: 76, G: 175, B: 80},
	model.SolidInfill:    {R: 255, G: 152, B: 0},
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// GeneratePDF renders a toolpath diagram for each layer, one per page,
// followed by a summary page with per-layer statistics.
func GeneratePDF(path string, job model.Job, layers []LayerReport) error {
	if len(layers) == 0 {
		return fmt.Errorf("no layers to render")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, layer := range layers {
		pdf.AddPage()
		renderLayerPage(pdf, job, layer)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, job, layers)

	return pdf.OutputFileAndClose(path)
}

// renderLayerPage draws a single layer's toolpath on the current page.
func renderLayerPage(pdf *fpdf.Fpdf, job model.Job, layer LayerReport) {
	stats := computeLayerStats(layer.Chain)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - Layer %d (Z=%.2f mm)", job.Name, layer.LayerIndex, layer.Z)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	info := fmt.Sprintf("Moves: %d | Printed length: %.1f mm | Travel: %.1f mm",
		stats.MoveCount, stats.TotalPrintedLength(), stats.TravelLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, info, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom

	min, max := boundingRectOfChain(layer.Chain)
	spanX := max.X - min.X
	spanY := max.Y - min.Y
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	scaleX := drawWidth / spanX
	scaleY := drawHeight / spanY
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	offsetX := marginLeft + (drawWidth-spanX*scale)/2
	offsetY := drawAreaTop

	project := func(p model.Point2D) (float64, float64) {
		return offsetX + (p.X - min.X) * scale, offsetY + (p.Y - min.Y) * scale
	}

	pdf.SetDrawColor(230, 230, 230)
	pdf.SetLineWidth(0.2)
	pdf.Rect(offsetX, offsetY, spanX*scale, spanY*scale, "D")

	from := layer.Chain.StartPoint
	for _, m := range layer.Chain.Moves {
		col := kindColors[m.Kind]
		pdf.SetDrawColor(col.R, col.G, col.B)
		if m.Kind == model.Travel {
			pdf.SetLineWidth(0.1)
		} else {
			pdf.SetLineWidth(0.25)
		}
		x1, y1 := project(from)
		x2, y2 := project(m.End)
		pdf.Line(x1, y1, x2, y2)
		from = m.End
	}

	drawKindLegend(pdf, offsetY+spanY*scale+5)
}

// drawKindLegend draws a compact color-key legend for move kinds.
func drawKindLegend(pdf *fpdf.Fpdf, y float64) {
	labels := []struct {
		kind model.MoveKind
		text string
	}{
		{model.OuterPerimeter, "Outer perimeter"},
		{model.InnerPerimeter, "Inner perimeter"},
		{model.SolidInfill, "Infill"},
		{model.Travel, "Travel"},
	}

	pdf.SetFont("Helvetica", "", 8)
	x := marginLeft
	for _, l := range labels {
		col := kindColors[l.kind]
		pdf.SetDrawColor(col.R, col.G, col.B)
		pdf.SetLineWidth(1.2)
		pdf.Line(x, y+1.5, x+6, y+1.5)

		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(x+8, y)
		w := pdf.GetStringWidth(l.text) + 10
		pdf.CellFormat(w, 4, l.text, "", 0, "L", false, 0, "")
		x += 8 + w
	}
}

// renderSummaryPage draws the job's per-layer statistics table.
func renderSummaryPage(pdf *fpdf.Fpdf, job model.Job, layers []LayerReport) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, job.Name+" - Print Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Job Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct{ label, value string }{
		{"Layer Count", fmt.Sprintf("%d", job.LayerCount)},
		{"Layer Height", fmt.Sprintf("%.2f mm", job.Settings.LayerHeight)},
		{"Nozzle Diameter", fmt.Sprintf("%.2f mm", job.Settings.NozzleDiameter)},
		{"Infill", fmt.Sprintf("%.0f%%", job.Settings.InfillPercentage*100)},
		{"Wall Count", fmt.Sprintf("%d", job.Settings.WallCount)},
		{"Machine Profile", job.Settings.GCodeProfile},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Per-layer Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 25, 30, 45, 45, 35}
	headers := []string{"Layer", "Z (mm)", "Moves", "Printed (mm)", "Travel (mm)", "Infill (mm)"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, layer := range layers {
		stats := computeLayerStats(layer.Chain)
		row := []string{
			fmt.Sprintf("%d", layer.LayerIndex),
			fmt.Sprintf("%.2f", layer.Z),
			fmt.Sprintf("%d", stats.MoveCount),
			fmt.Sprintf("%.1f", stats.TotalPrintedLength()),
			fmt.Sprintf("%.1f", stats.TravelLength),
			fmt.Sprintf("%.1f", stats.InfillLength),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		x = marginLeft
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += 6
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
	}
}
