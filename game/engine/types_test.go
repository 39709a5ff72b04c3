package engine

import (
	"encoding/json"
	"testing"
)

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		input   string
		want    Orientation
		wantErr bool
	}{
		{"up", Up, false},
		{"Down", Down, false},
		{" left ", Left, false},
		{"RIGHT", Right, false},
		{"north", Up, true},
		{"", Up, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOrientation(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOrientation(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseOrientation(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestOrientation_JSON(t *testing.T) {
	var level struct {
		Facing Orientation `json:"facing"`
	}
	if err := json.Unmarshal([]byte(`{"facing":"left"}`), &level); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if level.Facing != Left {
		t.Errorf("Expected left, got %s", level.Facing)
	}

	if err := json.Unmarshal([]byte(`{"facing":"sideways"}`), &level); err == nil {
		t.Error("Expected error for unknown facing")
	}

	if _, err := Orientation(7).MarshalText(); err == nil {
		t.Error("Expected error marshalling an invalid orientation")
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		input   string
		want    Input
		wantErr bool
	}{
		{"forward", InputForward, false},
		{"up", InputForward, false},
		{"turn_left", InputTurnLeft, false},
		{"left", InputTurnLeft, false},
		{"TURN_RIGHT", InputTurnRight, false},
		{"right", InputTurnRight, false},
		{"none", InputNone, false},
		{"jump", InputNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInput(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInput(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseInput(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestTurn_IsBijection(t *testing.T) {
	for _, dir := range []TurnDirection{TurnLeft, TurnRight} {
		seen := make(map[Orientation]bool)
		for _, o := range []Orientation{Up, Down, Left, Right} {
			seen[Turn(o, dir)] = true
		}
		if len(seen) != 4 {
			t.Errorf("Turn %s is not a bijection: %v", dir, seen)
		}
	}
}

func TestTurn_Inverse(t *testing.T) {
	for _, o := range []Orientation{Up, Down, Left, Right} {
		for _, dir := range []TurnDirection{TurnLeft, TurnRight} {
			if got := Turn(Turn(o, dir), dir.Opposite()); got != o {
				t.Errorf("Turn %s then %s from %s gave %s", dir, dir.Opposite(), o, got)
			}
		}
	}
}

func TestTurn_FullRevolution(t *testing.T) {
	for _, dir := range []TurnDirection{TurnLeft, TurnRight} {
		o := Up
		for i := 0; i < 4; i++ {
			o = Turn(o, dir)
		}
		if o != Up {
			t.Errorf("Four %s turns from up ended at %s", dir, o)
		}
	}
}

func TestTurn_Table(t *testing.T) {
	tests := []struct {
		from Orientation
		dir  TurnDirection
		want Orientation
	}{
		{Up, TurnLeft, Left},
		{Up, TurnRight, Right},
		{Down, TurnLeft, Right},
		{Down, TurnRight, Left},
		{Left, TurnLeft, Down},
		{Left, TurnRight, Up},
		{Right, TurnLeft, Up},
		{Right, TurnRight, Down},
		{Up, NoTurn, Up},
	}

	for _, tt := range tests {
		if got := Turn(tt.from, tt.dir); got != tt.want {
			t.Errorf("Turn(%s, %s) = %s, want %s", tt.from, tt.dir, got, tt.want)
		}
	}
}

func TestForwardStep(t *testing.T) {
	tests := []struct {
		o      Orientation
		dx, dy int
	}{
		{Up, 0, 1},
		{Down, 0, -1},
		{Left, -1, 0},
		{Right, 1, 0},
	}

	for _, tt := range tests {
		dx, dy := ForwardStep(tt.o)
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("ForwardStep(%s) = (%d, %d), want (%d, %d)", tt.o, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestOutcome_String(t *testing.T) {
	tests := map[Outcome]string{
		Playing:    "playing",
		PlayerDead: "dead",
		PlayerLost: "lost",
		PlayerWon:  "won",
	}
	for o, want := range tests {
		if o.String() != want {
			t.Errorf("Outcome %d String() = %s, want %s", int(o), o.String(), want)
		}

		var parsed Outcome
		if err := parsed.UnmarshalText([]byte(want)); err != nil || parsed != o {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", want, parsed, err, o)
		}
	}

	var o Outcome
	if err := o.UnmarshalText([]byte("asleep")); err == nil {
		t.Error("UnmarshalText should reject unknown outcomes")
	}
}

func TestLevelConfig_TurnInterval(t *testing.T) {
	level := &LevelConfig{}
	if level.TurnInterval() != DefaultTurnInterval {
		t.Errorf("Expected default interval, got %v", level.TurnInterval())
	}
	level.TurnIntervalMS = 250
	if level.TurnInterval().Milliseconds() != 250 {
		t.Errorf("Expected 250ms, got %v", level.TurnInterval())
	}
}
