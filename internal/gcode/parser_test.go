package gcode

import "testing"

func TestParseGCodeEmpty(t *testing.T) {
	moves := ParseGCode("")
	if len(moves) != 0 {
		t.Errorf("expected 0 moves for empty input, got %d", len(moves))
	}
}

func TestParseGCodeCommentsOnly(t *testing.T) {
	code := "; a comment\n(parenthetical)\n"
	moves := ParseGCode(code)
	if len(moves) != 0 {
		t.Errorf("expected 0 moves for comments-only input, got %d", len(moves))
	}
}

func TestParseGCodeTravelMove(t *testing.T) {
	moves := ParseGCode("G0 X10.000 Y20.000\n")
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	if moves[0].Type != MoveTravel {
		t.Errorf("expected MoveTravel, got %d", moves[0].Type)
	}
	if moves[0].ToX != 10 || moves[0].ToY != 20 {
		t.Errorf("expected to (10,20), got (%v,%v)", moves[0].ToX, moves[0].ToY)
	}
}

func TestParseGCodeExtrudeMove(t *testing.T) {
	code := "G0 X0.000 Y0.000\nG1 X10.000 Y0.000 E0.5000 F1500\n"
	moves := ParseGCode(code)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	m := moves[1]
	if m.Type != MoveExtrude {
		t.Errorf("expected MoveExtrude, got %d", m.Type)
	}
	if m.ToE != 0.5 {
		t.Errorf("expected ToE 0.5, got %v", m.ToE)
	}
	if m.FeedRate != 1500 {
		t.Errorf("expected feed rate 1500, got %v", m.FeedRate)
	}
}

func TestParseGCodeRetractMove(t *testing.T) {
	code := "G1 X10.000 Y10.000 E1.0000\nG1 E0.0000 F1800\n"
	moves := ParseGCode(code)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[1].Type != MoveRetract {
		t.Errorf("expected MoveRetract, got %d", moves[1].Type)
	}
}

func TestParseGCodeEDoesNotAdvanceWithoutEWord(t *testing.T) {
	code := "G1 X10.000 Y10.000 E1.0000\nG1 X20.000 Y10.000\n"
	moves := ParseGCode(code)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	// Second move carries no E word, so E is sticky and the move is travel.
	if moves[1].Type != MoveTravel {
		t.Errorf("expected MoveTravel when E is unchanged, got %d", moves[1].Type)
	}
}

func TestParseGCodeStateTracking(t *testing.T) {
	code := "G0 X10.000 Y20.000\nG1 X100.000 Y20.000 E5.0000 F1500\nG1 X100.000 Y80.000 E10.0000\n"
	moves := ParseGCode(code)
	if len(moves) != 3 {
		t.Fatalf("expected 3 moves, got %d", len(moves))
	}
	if moves[2].FromX != 100 || moves[2].FromY != 20 || moves[2].ToY != 80 {
		t.Errorf("move 2: expected from (100,20) to (?,80), got from (%v,%v) to (%v,%v)",
			moves[2].FromX, moves[2].FromY, moves[2].ToX, moves[2].ToY)
	}
}

func TestParseGCodeFeedRateSticky(t *testing.T) {
	code := "G1 X10.000 Y10.000 E1.0000 F1500.0\nG1 X20.000 Y20.000 E2.0000\n"
	moves := ParseGCode(code)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[1].FeedRate != 1500 {
		t.Errorf("expected sticky feed rate 1500, got %v", moves[1].FeedRate)
	}
}

func TestParseGCodeNegativeCoordinates(t *testing.T) {
	moves := ParseGCode("G0 X-3.000 Y-3.000\n")
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	if moves[0].ToX != -3 || moves[0].ToY != -3 {
		t.Errorf("expected to (-3,-3), got (%v,%v)", moves[0].ToX, moves[0].ToY)
	}
}

func TestClassifyMove(t *testing.T) {
	tests := []struct {
		name                           string
		fromX, fromY, toX, toY         float64
		fromE, toE                     float64
		want                           MoveType
	}{
		{"travel", 0, 0, 10, 20, 0, 0, MoveTravel},
		{"extrude", 0, 0, 10, 0, 0, 0.5, MoveExtrude},
		{"retract in place", 10, 10, 10, 10, 1.0, 0.0, MoveRetract},
		{"retract with xy is not classified as retract", 0, 0, 10, 0, 1.0, 0.0, MoveTravel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyMove(tt.fromX, tt.fromY, tt.toX, tt.toY, tt.fromE, tt.toE)
			if got != tt.want {
				t.Errorf("classifyMove() = %v, want %v", got, tt.want)
			}
		})
	}
}
