package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/piwi3910/sliceplan/internal/gcode"
	"github.com/piwi3910/sliceplan/internal/geom"
	"github.com/piwi3910/sliceplan/internal/importer"
	"github.com/piwi3910/sliceplan/internal/model"
	"github.com/piwi3910/sliceplan/internal/planner"
	"github.com/piwi3910/sliceplan/internal/project"
	"github.com/piwi3910/sliceplan/internal/report"
	"github.com/piwi3910/sliceplan/internal/visualize"
	"github.com/spf13/cobra"
)

var (
	layerCountFlag int
	outDirFlag     string
	profileFlag    string
	jobNameFlag    string
	clearanceFlag  float64
	clipZoneFlags  []string
)

// planCmd represents the plan command.
var planCmd = &cobra.Command{
	Use:   "plan INPUT.dxf",
	Short: "plan a job from a 2D cross-section and emit G-code + reports",
	Long: `Load a closed 2D outline from a DXF file, treat it as every layer's
cross-section, and run the shell/fill/chain-ordering pipeline once per
layer. Writes G-code, a layer report (PDF + spreadsheet), a QR job
card, and an HTML toolpath viewer to --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	RootCmd.AddCommand(planCmd)

	planCmd.Flags().IntVar(&layerCountFlag, "layers", 5, "number of layers to plan")
	planCmd.Flags().StringVar(&outDirFlag, "out", ".", "output directory")
	planCmd.Flags().StringVar(&profileFlag, "profile", "", "machine profile name (overrides config default)")
	planCmd.Flags().StringVar(&jobNameFlag, "name", "", "job name (defaults to the input file's base name)")
	planCmd.Flags().Float64Var(&clearanceFlag, "clearance", 5.0, "bed-clip clearance in mm for the collision check")
	planCmd.Flags().StringArrayVar(&clipZoneFlags, "clip-zone", nil, "bed-clip rectangle as 'label,x,y,width,height' (repeatable)")
}

func runPlan(_ *cobra.Command, args []string) error {
	inputPath := args[0]

	settings := loadSettings()
	if profileFlag != "" {
		settings.GCodeProfile = profileFlag
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	rings, err := loadRings(inputPath)
	if err != nil {
		return err
	}

	name := jobNameFlag
	if name == "" {
		name = filepath.Base(inputPath)
	}
	job := model.NewJob(name, settings, layerCountFlag)

	layers, err := planLayers(rings, job)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDirFlag, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeGCode(job, layers); err != nil {
		return err
	}

	reportLayers := make([]report.LayerReport, len(layers))
	vizLayers := make([]visualize.LayerReport, len(layers))
	for i, l := range layers {
		reportLayers[i] = report.LayerReport{LayerIndex: l.LayerIndex, Z: l.Z, Chain: l.Chain}
		vizLayers[i] = visualize.LayerReport{LayerIndex: l.LayerIndex, Z: l.Z, Chain: l.Chain}
	}

	if err := report.GeneratePDF(filepath.Join(outDirFlag, name+"_report.pdf"), job, reportLayers); err != nil {
		return fmt.Errorf("failed to write layer report: %w", err)
	}
	if err := report.GenerateSpreadsheet(filepath.Join(outDirFlag, name+"_layers.xlsx"), job, reportLayers); err != nil {
		return fmt.Errorf("failed to write layer spreadsheet: %w", err)
	}
	if err := report.GenerateJobCard(filepath.Join(outDirFlag, name+"_jobcard.pdf"), job); err != nil {
		return fmt.Errorf("failed to write job card: %w", err)
	}

	htmlPath := filepath.Join(outDirFlag, name+"_viewer.html")
	htmlFile, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to create viewer HTML: %w", err)
	}
	defer htmlFile.Close()
	if err := visualize.GenerateHTML(htmlFile, job, vizLayers); err != nil {
		return fmt.Errorf("failed to render viewer HTML: %w", err)
	}

	zones, err := parseClipZones(clipZoneFlags)
	if err != nil {
		return err
	}
	for _, w := range collisionWarnings(layers, zones) {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	fmt.Printf("planned %d layers for %q -> %s\n", len(layers), name, outDirFlag)
	return nil
}

// loadSettings seeds Settings from the persisted application config, if
// one exists, falling back to package defaults.
func loadSettings() model.Settings {
	settings := model.DefaultSettings()
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err == nil {
		cfg.ApplyToSettings(&settings)
	}
	return settings
}

// loadRings reads a DXF file and returns its rings, largest first.
func loadRings(path string) ([]geom.Ring, error) {
	result := importer.ImportDXF(path)
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("failed to import %s: %v", path, result.Errors)
	}
	return result.Rings, nil
}

// plannedLayer is one layer's planning result, in the order layers were
// requested.
type plannedLayer struct {
	LayerIndex int
	Z          float64
	Chain      model.MoveChain
}

// planLayers runs the shell/fill/chain-ordering pipeline once per layer.
// Layers are independent (this CLI stacks one cross-section at every Z),
// so they are planned concurrently across a worker pool bounded by the
// number of CPUs, per the CLI's outer-driver concurrency allowance.
func planLayers(rings []geom.Ring, job model.Job) ([]plannedLayer, error) {
	results := make([]plannedLayer, job.LayerCount)
	errs := make([]error, job.LayerCount)

	workers := runtime.NumCPU()
	if workers > job.LayerCount {
		workers = job.LayerCount
	}
	if workers < 1 {
		workers = 1
	}

	indices := make(chan int, job.LayerCount)
	for i := 0; i < job.LayerCount; i++ {
		indices <- i
	}
	close(indices)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				chain, err := planOneLayer(rings, job.Settings, i)
				if err != nil {
					errs[i] = err
					continue
				}
				results[i] = plannedLayer{
					LayerIndex: i,
					Z:          job.Settings.FirstLayerZ + float64(i)*job.Settings.LayerHeight,
					Chain:      chain,
				}
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// planOneLayer runs ShellPass, FillPass and ChainOrderer for a single
// layer's boundary rings.
func planOneLayer(rings []geom.Ring, settings model.Settings, layerIndex int) (model.MoveChain, error) {
	slice, err := planner.NewSliceFromRings(rings)
	if err != nil {
		return model.MoveChain{}, err
	}

	planner.ShellPass(slice, settings)

	mode := planner.Sparse
	if layerIndex == 0 {
		mode = planner.Solid
	}
	planner.FillPass(slice, settings, mode, layerIndex)

	return planner.ChainOrderer(slice.Chains), nil
}

// writeGCode renders every planned layer through the G-code generator and
// writes the concatenated program to <out>/<name>.gcode.
func writeGCode(job model.Job, layers []plannedLayer) error {
	gen := gcode.New(job.Settings)
	var program string
	for i, layer := range layers {
		isLast := i == len(layers)-1
		program += gen.GenerateLayer(layer.Chain, layer.LayerIndex, layer.Z, isLast)
	}

	path := filepath.Join(outDirFlag, job.Name+".gcode")
	if err := os.WriteFile(path, []byte(program), 0644); err != nil {
		return fmt.Errorf("failed to write G-code: %w", err)
	}
	return nil
}

// parseClipZones parses "label,x,y,width,height" flag values into ClipZones.
func parseClipZones(flags []string) ([]model.ClipZone, error) {
	zones := make([]model.ClipZone, 0, len(flags))
	for _, f := range flags {
		parts := strings.Split(f, ",")
		if len(parts) != 5 {
			return nil, fmt.Errorf("invalid --clip-zone %q: expected label,x,y,width,height", f)
		}
		x, errX := strconv.ParseFloat(parts[1], 64)
		y, errY := strconv.ParseFloat(parts[2], 64)
		w, errW := strconv.ParseFloat(parts[3], 64)
		h, errH := strconv.ParseFloat(parts[4], 64)
		if errX != nil || errY != nil || errW != nil || errH != nil {
			return nil, fmt.Errorf("invalid --clip-zone %q: non-numeric rectangle", f)
		}
		zones = append(zones, model.ClipZone{Label: parts[0], X: x, Y: y, Width: w, Height: h})
	}
	return zones, nil
}

// collisionWarnings runs the bed-clip collision check against every
// configured clip zone, across every planned layer.
func collisionWarnings(layers []plannedLayer, zones []model.ClipZone) []string {
	if len(zones) == 0 {
		return nil
	}
	var warnings []string
	for _, layer := range layers {
		collisions := gcode.CheckClipCollisions(layer.Chain, layer.LayerIndex, zones, clearanceFlag)
		warnings = append(warnings, gcode.FormatCollisionWarnings(collisions)...)
	}
	return warnings
}
