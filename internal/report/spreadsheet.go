package report

import (
	"fmt"

	"github.com/piwi3910/sliceplan/internal/model"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Layers"

// GenerateSpreadsheet writes one row per layer with move counts and
// per-kind printed/travel lengths under a header row of column names, plus
// a separate "Job" sheet carrying the job's settings.
func GenerateSpreadsheet(path string, job model.Job, layers []LayerReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Layer", "Z (mm)", "Moves", "Outer (mm)", "Inner (mm)", "Infill (mm)", "Travel (mm)"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, layer := range layers {
		row := i + 2
		stats := computeLayerStats(layer.Chain)
		values := []interface{}{
			layer.LayerIndex,
			layer.Z,
			stats.MoveCount,
			stats.OuterPerimeterLength,
			stats.InnerPerimeterLength,
			stats.InfillLength,
			stats.TravelLength,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	infoSheet := "Job"
	if _, err := f.NewSheet(infoSheet); err != nil {
		return fmt.Errorf("failed to create job info sheet: %w", err)
	}
	infoRows := [][2]string{
		{"Job ID", job.ID},
		{"Job Name", job.Name},
		{"Layer Count", fmt.Sprintf("%d", job.LayerCount)},
		{"Layer Height (mm)", fmt.Sprintf("%.3f", job.Settings.LayerHeight)},
		{"Nozzle Diameter (mm)", fmt.Sprintf("%.3f", job.Settings.NozzleDiameter)},
		{"Infill Percentage", fmt.Sprintf("%.2f", job.Settings.InfillPercentage)},
		{"Wall Count", fmt.Sprintf("%d", job.Settings.WallCount)},
		{"GCode Profile", job.Settings.GCodeProfile},
	}
	for i, pair := range infoRows {
		row := i + 1
		keyCell, _ := excelize.CoordinatesToCellName(1, row)
		valCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(infoSheet, keyCell, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(infoSheet, valCell, pair[1]); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}
