// Package gcode turns a planned MoveChain into machine-ready text and back.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/sliceplan/internal/model"
)

// retractLengthMM is the filament length withdrawn before a travel move on
// profiles that support retraction, and re-primed implicitly by the next
// extruding move's relative E delta.
const retractLengthMM = 1.0

// Generator formats planned layers as GCode text for one MachineProfile.
type Generator struct {
	Settings model.Settings
	profile  model.MachineProfile

	currentE  float64 // cumulative extruded filament length, persists across layers
	started   bool
	retracted bool // a retraction is pending re-prime by the next extruding move
}

// New returns a Generator bound to settings.GCodeProfile (falling back to
// Generic if the name is unknown).
func New(settings model.Settings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.GCodeProfile),
	}
}

// filamentCrossSectionArea is the cross-sectional area, in mm², of filament
// feeding into the nozzle — used to convert an extruded path length into an
// E-axis distance.
func (g *Generator) filamentCrossSectionArea() float64 {
	r := g.Settings.FilamentDiameter / 2.0
	return math.Pi * r * r
}

// extrusionLength returns the E-axis distance corresponding to laying down
// length mm of bead at the given move's width and the job's layer height.
func (g *Generator) extrusionLength(length, width float64) float64 {
	beadArea := width * g.Settings.LayerHeight
	area := g.filamentCrossSectionArea()
	if area <= 0 {
		return 0
	}
	return length * beadArea / area
}

// GenerateLayer produces GCode text for one planned layer at height z.
// layerIndex 0 emits the job's start sequence before the first move;
// isLast, when true, appends the job's end sequence after the last move.
func (g *Generator) GenerateLayer(chain model.MoveChain, layerIndex int, z float64, isLast bool) string {
	var b strings.Builder

	if layerIndex == 0 {
		g.writeHeader(&b)
	}

	b.WriteString(g.comment(fmt.Sprintf("layer %d, z=%.3f", layerIndex, z)))
	b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove, g.format(z), g.format(g.Settings.TravelSpeedMMs*60)))

	cur := chain.StartPoint
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove, g.format(cur.X), g.format(cur.Y)))

	for _, m := range chain.Moves {
		g.writeMove(&b, cur, m)
		cur = m.End
	}

	if isLast {
		g.writeFooter(&b)
	}
	return b.String()
}

func (g *Generator) writeMove(b *strings.Builder, from model.Point2D, m model.Move) {
	length := math.Hypot(m.End.X-from.X, m.End.Y-from.Y)

	if m.Kind == model.Travel {
		if g.profile.RetractCommand != "" && length > 0 && !g.retracted {
			b.WriteString(fmt.Sprintf(g.profile.RetractCommand, -retractLengthMM) + "\n")
			g.retracted = true
		}
		b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n",
			g.profile.RapidMove, g.format(m.End.X), g.format(m.End.Y), g.format(g.Settings.TravelSpeedMMs*60)))
		return
	}

	width := m.Width
	if width <= 0 {
		width = g.Settings.LayerWidth
	}
	eDelta := g.extrusionLength(length, width)
	g.currentE += eDelta
	eOut := eDelta
	if g.retracted {
		eOut += retractLengthMM
		g.retracted = false
	}

	// The header emits the firmware's relative-extrusion command
	// (ExtruderRelative, e.g. M83), so every extruding move here carries a
	// per-move E delta rather than a cumulative absolute value.
	b.WriteString(fmt.Sprintf("%s X%s Y%s E%s F%s\n",
		g.profile.FeedMove, g.format(m.End.X), g.format(m.End.Y),
		g.format(eOut), g.format(g.Settings.PrintSpeedMMs*60)))
}

// TotalExtruded returns the cumulative E-axis distance emitted across every
// GenerateLayer call on this Generator so far.
func (g *Generator) TotalExtruded() float64 {
	return g.currentE
}

func (g *Generator) writeHeader(b *strings.Builder) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("sliceplan job — profile %s", p.Name)))
	b.WriteString(g.comment(fmt.Sprintf("nozzle %.2fmm, layer height %.2fmm, width %.2fmm",
		g.Settings.NozzleDiameter, g.Settings.LayerHeight, g.Settings.LayerWidth)))

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.HomeAll != "" {
		b.WriteString(p.HomeAll + "\n")
	}
	if p.BedTempCommand != "" {
		b.WriteString(p.BedTempCommand + "\n")
	}
	if p.HotendTempWait != "" {
		b.WriteString(p.HotendTempWait + "\n")
	}
	if p.FanOnCommand != "" {
		b.WriteString(p.FanOnCommand + "\n")
	}
	if p.AbsoluteMode != "" {
		b.WriteString(p.AbsoluteMode + "\n")
	}
	if p.ExtruderRelative != "" {
		b.WriteString(p.ExtruderRelative + "\n")
	}
	b.WriteString("G92 E0\n")
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile
	b.WriteString("\n")
	b.WriteString(g.comment("job complete"))
	if p.RetractCommand != "" {
		b.WriteString(fmt.Sprintf(p.RetractCommand, -retractLengthMM) + "\n")
	}
	for _, code := range p.EndCode {
		b.WriteString(code + "\n")
	}
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	spec := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(spec, v)
}
