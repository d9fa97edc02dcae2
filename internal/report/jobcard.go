package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/sliceplan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// JobCardInfo holds the data encoded into a job card's QR code, letting a
// bed-side scanner recover the settings a print was sliced with.
type JobCardInfo struct {
	JobID            string  `json:"job_id"`
	JobName          string  `json:"job_name"`
	LayerCount       int     `json:"layer_count"`
	LayerHeight      float64 `json:"layer_height_mm"`
	NozzleDiameter   float64 `json:"nozzle_diameter_mm"`
	InfillPercentage float64 `json:"infill_percentage"`
	GCodeProfile     string  `json:"gcode_profile"`
}

const (
	cardPageWidth  = 100.0 // mm, roughly a large index card
	cardPageHeight = 150.0
	cardMargin     = 8.0
	cardQRSize     = 50.0
)

// GenerateJobCard renders a single-page PDF card identifying a job: its
// name and key settings as text, plus a QR code encoding the same data as
// JSON for a printer-side scanner to recover automatically.
func GenerateJobCard(path string, job model.Job) error {
	info := JobCardInfo{
		JobID:            job.ID,
		JobName:          job.Name,
		LayerCount:       job.LayerCount,
		LayerHeight:      job.Settings.LayerHeight,
		NozzleDiameter:   job.Settings.NozzleDiameter,
		InfillPercentage: job.Settings.InfillPercentage,
		GCodeProfile:     job.Settings.GCodeProfile,
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal job card info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(data), qrcode.Medium, 512)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		SizeStr:        "",
		Size:           fpdf.SizeType{Wd: cardPageWidth, Ht: cardPageHeight},
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(cardMargin, cardMargin)
	pdf.CellFormat(cardPageWidth-2*cardMargin, 8, job.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	lines := []string{
		fmt.Sprintf("Job ID: %s", job.ID),
		fmt.Sprintf("Layers: %d", job.LayerCount),
		fmt.Sprintf("Layer height: %.2f mm", job.Settings.LayerHeight),
		fmt.Sprintf("Nozzle: %.2f mm", job.Settings.NozzleDiameter),
		fmt.Sprintf("Infill: %.0f%%", job.Settings.InfillPercentage*100),
		fmt.Sprintf("Profile: %s", job.Settings.GCodeProfile),
	}
	y := cardMargin + 12.0
	for _, line := range lines {
		pdf.SetXY(cardMargin, y)
		pdf.CellFormat(cardPageWidth-2*cardMargin, 5, line, "", 1, "L", false, 0, "")
		y += 5
	}

	pdf.RegisterImageOptionsReader("qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	qrX := (cardPageWidth - cardQRSize) / 2
	qrY := cardPageHeight - cardQRSize - cardMargin
	pdf.ImageOptions("qr", qrX, qrY, cardQRSize, cardQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	return pdf.OutputFileAndClose(path)
}
