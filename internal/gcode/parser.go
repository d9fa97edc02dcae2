package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

// MoveType classifies a parsed FDM movement.
type MoveType int

const (
	MoveTravel  MoveType = iota // G0/G1 with no E movement
	MoveExtrude                 // G1 with E increasing: a deposited bead
	MoveRetract                 // G1 with E decreasing and no XY movement
)

// GCodeMove represents a single parsed movement from GCode text.
type GCodeMove struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	ToX      float64
	ToY      float64
	FromE    float64
	ToE      float64
	FeedRate float64
}

var coordRe = regexp.MustCompile(`([XYZEF])([-]?\d+\.?\d*)`)

// ParseGCode parses FDM GCode text into a slice of structured moves. It
// tracks absolute X/Y/E position state (E assumed absolute; relative-E
// dialects must be normalised to absolute before calling this) and
// classifies each G0/G1 line as travel, extrude, or retract.
func ParseGCode(code string) []GCodeMove {
	var moves []GCodeMove

	curX, curY, curE, curFeed := 0.0, 0.0, 0.0, 0.0

	for _, rawLine := range strings.Split(code, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}
		if idx := strings.Index(line, "("); idx >= 0 {
			if end := strings.Index(line, ")"); end > idx {
				line = line[:idx] + line[end+1:]
			}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		isMove := strings.HasPrefix(upper, "G0 ") || strings.HasPrefix(upper, "G00 ") ||
			strings.HasPrefix(upper, "G1 ") || strings.HasPrefix(upper, "G01 ") ||
			upper == "G0" || upper == "G00" || upper == "G1" || upper == "G01"
		if !isMove {
			continue
		}

		newX, newY, newE, newFeed := curX, curY, curE, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Y":
				newY = val
			case "E":
				newE = val
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, GCodeMove{
			Type:     classifyMove(curX, curY, newX, newY, curE, newE),
			FromX:    curX,
			FromY:    curY,
			ToX:      newX,
			ToY:      newY,
			FromE:    curE,
			ToE:      newE,
			FeedRate: newFeed,
		})

		curX, curY, curE, curFeed = newX, newY, newE, newFeed
	}

	return moves
}

// classifyMove determines the MoveType from XY and E deltas.
func classifyMove(fromX, fromY, toX, toY, fromE, toE float64) MoveType {
	hasXY := fromX != toX || fromY != toY
	eDelta := toE - fromE

	switch {
	case eDelta > 1e-6:
		return MoveExtrude
	case eDelta < -1e-6 && !hasXY:
		return MoveRetract
	default:
		return MoveTravel
	}
}
