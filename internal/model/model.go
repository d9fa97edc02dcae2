// Package model holds the data types shared across the planner and its
// ambient collaborators: geometry primitives, per-job settings, machine
// profiles, and the move/chain types produced by the planner.
package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon ring as a sequence of 2D points.
// The ring is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// SignedArea computes the signed shoelace area of the ring. Positive means
// counter-clockwise (exterior) orientation, negative means clockwise
// (interior/hole) orientation.
func (o Outline) SignedArea() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += (o[i].X + o[j].X) * (o[j].Y - o[i].Y)
	}
	return area / 2
}

// MoveKind classifies a single planned move.
type MoveKind int

const (
	Travel MoveKind = iota
	OuterPerimeter
	InnerPerimeter
	SolidInfill
)

func (k MoveKind) String() string {
	switch k {
	case OuterPerimeter:
		return "OuterPerimeter"
	case InnerPerimeter:
		return "InnerPerimeter"
	case SolidInfill:
		return "SolidInfill"
	default:
		return "Travel"
	}
}

// Move is a single machine-executable segment ending at End. Its start is
// the previous Move's End, or the owning chain's StartPoint for the first
// Move in a chain.
type Move struct {
	End   Point2D  `json:"end"`
	Kind  MoveKind `json:"kind"`
	Width float64  `json:"width"` // deposited bead width in mm; 0 for Travel
}

// MoveChain is a connected polyline: StartPoint followed by each Move in
// order, each continuing from the previous endpoint.
type MoveChain struct {
	StartPoint Point2D `json:"start_point"`
	Moves      []Move  `json:"moves"`
}

// End returns the final point visited by the chain, or StartPoint if the
// chain has no moves.
func (c MoveChain) End() Point2D {
	if len(c.Moves) == 0 {
		return c.StartPoint
	}
	return c.Moves[len(c.Moves)-1].End
}

// Settings carries the per-job parameters consumed by the planner
// (spec §6) plus the machine/profile fields needed downstream by the
// G-code formatter.
type Settings struct {
	LayerWidth           float64 `json:"layer_width"`
	InfillPercentage     float64 `json:"infill_percentage"`
	InnerPerimetersFirst bool    `json:"inner_perimeters_first"`
	WallCount            int     `json:"wall_count"`

	NozzleDiameter   float64 `json:"nozzle_diameter"`
	FilamentDiameter float64 `json:"filament_diameter"`
	PrintSpeedMMs    float64 `json:"print_speed_mm_s"`
	TravelSpeedMMs   float64 `json:"travel_speed_mm_s"`
	FirstLayerZ      float64 `json:"first_layer_z"`
	LayerHeight      float64 `json:"layer_height"`
	GCodeProfile     string  `json:"gcode_profile"`
}

// DefaultSettings returns a Settings populated with conservative FDM
// defaults for a 0.4mm nozzle.
func DefaultSettings() Settings {
	return Settings{
		LayerWidth:           0.4,
		InfillPercentage:     0.2,
		InnerPerimetersFirst: false,
		WallCount:            3,
		NozzleDiameter:       0.4,
		FilamentDiameter:     1.75,
		PrintSpeedMMs:        60,
		TravelSpeedMMs:       150,
		FirstLayerZ:          0.2,
		LayerHeight:          0.2,
		GCodeProfile:         "Marlin",
	}
}

// Validate implements the InvalidSettings error taxonomy entry: it rejects
// settings at the entry point rather than letting the planner discover them
// mid-pipeline.
func (s Settings) Validate() error {
	if s.InfillPercentage <= 0 || s.InfillPercentage > 1 {
		return fmt.Errorf("%w: infill_percentage must be in (0,1], got %v", ErrInvalidSettings, s.InfillPercentage)
	}
	if s.LayerWidth <= 0 {
		return fmt.Errorf("%w: layer_width must be > 0, got %v", ErrInvalidSettings, s.LayerWidth)
	}
	if s.WallCount == 0 {
		return fmt.Errorf("%w: wall_count must be != 0", ErrInvalidSettings)
	}
	return nil
}

// Planner error taxonomy (spec §7). DegenerateGeometry is not a hard
// failure: it surfaces as an empty output chain, so it is not a sentinel
// error here, only documented in the packages that produce that behaviour.
var (
	ErrMalformedRings  = errors.New("malformed rings: a hole has no enclosing exterior")
	ErrInvalidSettings = errors.New("invalid settings")
)

// ClipZone is an axis-aligned rectangle on the print bed that the nozzle
// must not travel over at print height, e.g. the footprint of a bed clip
// or clamp holding a removable plate in place.
type ClipZone struct {
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ClipCollision reports a Travel move that passed within the configured
// clearance of a ClipZone.
type ClipCollision struct {
	LayerIndex int     `json:"layer_index"`
	ZoneLabel  string  `json:"zone_label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Distance   float64 `json:"distance"`
}

// MachineProfile describes a G-code dialect: start/end codes, comment
// syntax, and number formatting.
type MachineProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "mm" or "inches"
	IsBuiltIn   bool   `json:"is_built_in"`

	StartCode       []string `json:"start_code"`
	HomeAll         string   `json:"home_all"`
	BedTempCommand  string   `json:"bed_temp_command"`  // e.g. "M140 S%d"
	HotendTempWait  string   `json:"hotend_temp_wait"`  // e.g. "M109 S%d"
	FanOnCommand    string   `json:"fan_on_command"`    // e.g. "M106 S255"
	EndCode         []string `json:"end_code"`

	AbsoluteMode     string `json:"absolute_mode"`      // G90 or equivalent
	ExtruderRelative string `json:"extruder_relative"`  // M83 or equivalent
	RapidMove        string `json:"rapid_move"`         // G0 or equivalent
	FeedMove         string `json:"feed_move"`          // G1 or equivalent
	RetractCommand   string `json:"retract_command"`    // e.g. "G1 E%.5f F1800", formatted with the signed E distance; empty if unsupported

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`

	DecimalPlaces int `json:"decimal_places"`
}

// GCodeProfiles lists the built-in machine profiles.
var GCodeProfiles = []MachineProfile{
	{
		Name:             "Marlin",
		Description:      "Marlin firmware (most desktop FDM printers)",
		Units:            "mm",
		IsBuiltIn:        true,
		StartCode:        []string{"G28", "G92 E0"},
		HomeAll:          "G28",
		BedTempCommand:   "M140 S%d",
		HotendTempWait:   "M109 S%d",
		FanOnCommand:     "M106 S255",
		EndCode:          []string{"M104 S0", "M140 S0", "M84"},
		AbsoluteMode:     "G90",
		ExtruderRelative: "M83",
		RapidMove:        "G0",
		FeedMove:         "G1",
		RetractCommand:   "G1 E%.5f F1800",
		CommentPrefix:    ";",
		CommentSuffix:    "",
		DecimalPlaces:    5,
	},
	{
		Name:             "RepRapFirmware",
		Description:      "RepRapFirmware (Duet boards)",
		Units:            "mm",
		IsBuiltIn:        true,
		StartCode:        []string{"G28", "G92 E0"},
		HomeAll:          "G28",
		BedTempCommand:   "M140 S%d",
		HotendTempWait:   "M116",
		FanOnCommand:     "M106 S255",
		EndCode:          []string{"M104 S0", "M140 S0", "M84"},
		AbsoluteMode:     "G90",
		ExtruderRelative: "M83",
		RapidMove:        "G0",
		FeedMove:         "G1",
		RetractCommand:   "G1 E%.5f F2400",
		CommentPrefix:    ";",
		CommentSuffix:    "",
		DecimalPlaces:    4,
	},
	{
		Name:             "Klipper",
		Description:      "Klipper firmware",
		Units:            "mm",
		IsBuiltIn:        true,
		StartCode:        []string{"G28", "G92 E0"},
		HomeAll:          "G28",
		BedTempCommand:   "M140 S%d",
		HotendTempWait:   "M109 S%d",
		FanOnCommand:     "M106 S255",
		EndCode:          []string{"M104 S0", "M140 S0", "M84"},
		AbsoluteMode:     "G90",
		ExtruderRelative: "M83",
		RapidMove:        "G0",
		FeedMove:         "G1",
		RetractCommand:   "G1 E%.5f F2100",
		CommentPrefix:    ";",
		CommentSuffix:    "",
		DecimalPlaces:    5,
	},
	{
		Name:             "Generic",
		Description:      "Generic FDM G-code",
		Units:            "mm",
		IsBuiltIn:        true,
		StartCode:        []string{"G28", "G92 E0"},
		HomeAll:          "G28",
		BedTempCommand:   "M140 S%d",
		HotendTempWait:   "M109 S%d",
		FanOnCommand:     "M106 S255",
		EndCode:          []string{"M104 S0", "M140 S0", "M84"},
		AbsoluteMode:     "G90",
		ExtruderRelative: "M83",
		RapidMove:        "G0",
		FeedMove:         "G1",
		RetractCommand:   "",
		CommentPrefix:    ";",
		CommentSuffix:    "",
		DecimalPlaces:    4,
	},
}

// CustomProfiles holds user-defined machine profiles registered at runtime
// (e.g. loaded from the profiles JSON file by internal/project).
var CustomProfiles []MachineProfile

// AllProfiles returns every built-in profile followed by every custom one.
func AllProfiles() []MachineProfile {
	all := make([]MachineProfile, 0, len(GCodeProfiles)+len(CustomProfiles))
	all = append(all, GCodeProfiles...)
	all = append(all, CustomProfiles...)
	return all
}

// GetProfile returns a profile by name (checking custom profiles first, so
// a custom profile can locally shadow a built-in one by name during
// lookup), or the Generic profile if not found.
func GetProfile(name string) MachineProfile {
	for _, p := range CustomProfiles {
		if p.Name == name {
			return p
		}
	}
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1] // Generic
}

// GetProfileNames returns the names of every built-in and custom profile.
func GetProfileNames() []string {
	var names []string
	for _, p := range AllProfiles() {
		names = append(names, p.Name)
	}
	return names
}

// isBuiltInName reports whether name matches a built-in profile.
func isBuiltInName(name string) bool {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// AddCustomProfile inserts or updates a custom profile by name. Adding a
// profile whose name collides with a built-in profile is rejected: built-in
// profiles are not user-editable.
func AddCustomProfile(p MachineProfile) error {
	if isBuiltInName(p.Name) {
		return fmt.Errorf("%q is a built-in profile name and cannot be overridden", p.Name)
	}
	p.IsBuiltIn = false
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == p.Name {
			CustomProfiles[i] = p
			return nil
		}
	}
	CustomProfiles = append(CustomProfiles, p)
	return nil
}

// RemoveCustomProfile deletes a custom profile by name.
func RemoveCustomProfile(name string) error {
	if isBuiltInName(name) {
		return fmt.Errorf("%q is a built-in profile and cannot be removed", name)
	}
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == name {
			CustomProfiles = append(CustomProfiles[:i], CustomProfiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("custom profile %q not found", name)
}

// NewCustomProfile creates a new custom profile seeded from the Generic
// built-in defaults, ready for the caller to edit.
func NewCustomProfile(name string) MachineProfile {
	p := GetProfile("Generic")
	p.Name = name
	p.Description = ""
	p.IsBuiltIn = false
	return p
}

// AppConfig holds application-wide preferences and default settings,
// persisted as JSON by internal/project.
type AppConfig struct {
	DefaultLayerWidth       float64 `json:"default_layer_width"`
	DefaultInfillPercentage float64 `json:"default_infill_percentage"`
	DefaultWallCount        int     `json:"default_wall_count"`
	DefaultNozzleDiameter   float64 `json:"default_nozzle_diameter"`
	DefaultLayerHeight      float64 `json:"default_layer_height"`
	DefaultGCodeProfile     string  `json:"default_gcode_profile"`

	AutoSaveInterval int      `json:"auto_save_interval"` // minutes, 0 = disabled
	RecentProjects   []string `json:"recent_projects"`
	Theme            string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultLayerWidth:       defaults.LayerWidth,
		DefaultInfillPercentage: defaults.InfillPercentage,
		DefaultWallCount:        defaults.WallCount,
		DefaultNozzleDiameter:   defaults.NozzleDiameter,
		DefaultLayerHeight:      defaults.LayerHeight,
		DefaultGCodeProfile:     defaults.GCodeProfile,
		AutoSaveInterval:        0,
		RecentProjects:          []string{},
		Theme:                   "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings
// struct, so a new job inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.LayerWidth = c.DefaultLayerWidth
	s.InfillPercentage = c.DefaultInfillPercentage
	s.WallCount = c.DefaultWallCount
	s.NozzleDiameter = c.DefaultNozzleDiameter
	s.LayerHeight = c.DefaultLayerHeight
	s.GCodeProfile = c.DefaultGCodeProfile
}

// Job identifies a planning run: one job produces one serialised MoveChain
// per layer.
type Job struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Settings   Settings `json:"settings"`
	LayerCount int      `json:"layer_count"`
}

// NewJob creates a Job with a fresh identifier.
func NewJob(name string, settings Settings, layerCount int) Job {
	return Job{
		ID:         uuid.New().String()[:8],
		Name:       name,
		Settings:   settings,
		LayerCount: layerCount,
	}
}
