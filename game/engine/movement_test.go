package engine

import (
	"testing"
	"time"
)

func newTestResolver(t *testing.T, spawn PlayerState) (*TurnResolver, *fakeBackend) {
	t.Helper()
	grid, err := NewGrid(referenceLayout)
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}
	backend := newFakeBackend()
	return NewTurnResolver(grid, backend, spawn, Cell{5, 6}, Cell{8, 1}, time.Second), backend
}

func TestTurnResolver_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		spawn       PlayerState
		inputs      []Input
		wantPlayer  PlayerState
		wantAction  string
		wantCue     CueKind
		wantGate    time.Duration
		wantRecords int
	}{
		{
			name:        "forward onto floor",
			spawn:       PlayerState{Cell{2, 2}, Up},
			inputs:      []Input{InputForward},
			wantPlayer:  PlayerState{Cell{2, 3}, Up},
			wantAction:  ActionForward,
			wantCue:     CueStep,
			wantGate:    stepDuration,
			wantRecords: 1,
		},
		{
			name:        "forward into interior wall",
			spawn:       PlayerState{Cell{2, 2}, Right},
			inputs:      []Input{InputForward},
			wantPlayer:  PlayerState{Cell{2, 2}, Right},
			wantAction:  ActionBump,
			wantCue:     CueWallBump,
			wantGate:    bumpDuration,
			wantRecords: 1,
		},
		{
			name:        "forward into outer wall",
			spawn:       PlayerState{Cell{1, 1}, Down},
			inputs:      []Input{InputForward},
			wantPlayer:  PlayerState{Cell{1, 1}, Down},
			wantAction:  ActionBump,
			wantCue:     CueWallBump,
			wantGate:    bumpDuration,
			wantRecords: 1,
		},
		{
			name:        "turn right",
			spawn:       PlayerState{Cell{2, 2}, Up},
			inputs:      []Input{InputTurnRight},
			wantPlayer:  PlayerState{Cell{2, 2}, Right},
			wantAction:  ActionTurnRight,
			wantGate:    time.Second,
			wantRecords: 1,
		},
		{
			name:        "later turn replaces earlier one",
			spawn:       PlayerState{Cell{2, 2}, Up},
			inputs:      []Input{InputTurnRight, InputTurnLeft},
			wantPlayer:  PlayerState{Cell{2, 2}, Left},
			wantAction:  ActionTurnLeft,
			wantGate:    time.Second,
			wantRecords: 1,
		},
		{
			name:        "turn wins over forward",
			spawn:       PlayerState{Cell{2, 2}, Up},
			inputs:      []Input{InputForward, InputTurnLeft},
			wantPlayer:  PlayerState{Cell{2, 2}, Left},
			wantAction:  ActionTurnLeft,
			wantGate:    time.Second,
			wantRecords: 1,
		},
		{
			name:        "step onto threat",
			spawn:       PlayerState{Cell{5, 5}, Up},
			inputs:      []Input{InputForward},
			wantPlayer:  PlayerState{Cell{5, 6}, Up},
			wantAction:  ActionDeath,
			wantCue:     CueDeath,
			wantGate:    deathDuration,
			wantRecords: 2,
		},
		{
			name:        "step onto exit",
			spawn:       PlayerState{Cell{8, 2}, Down},
			inputs:      []Input{InputForward},
			wantPlayer:  PlayerState{Cell{8, 1}, Down},
			wantAction:  ActionVictory,
			wantCue:     CueVictory,
			wantGate:    victoryDuration,
			wantRecords: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(t, tt.spawn)
			var outcome OutcomeTracker

			for _, in := range tt.inputs {
				r.Submit(in)
			}
			records := r.Resolve(&outcome)

			if len(records) != tt.wantRecords {
				t.Fatalf("Expected %d records, got %d: %+v", tt.wantRecords, len(records), records)
			}
			last := records[len(records)-1]
			if last.Action != tt.wantAction {
				t.Errorf("Expected action %s, got %s", tt.wantAction, last.Action)
			}
			if last.Cue != tt.wantCue {
				t.Errorf("Expected cue %q, got %q", tt.wantCue, last.Cue)
			}
			if r.Player() != tt.wantPlayer {
				t.Errorf("Expected player %+v, got %+v", tt.wantPlayer, r.Player())
			}
			if r.Gate() != tt.wantGate {
				t.Errorf("Expected gate %v, got %v", tt.wantGate, r.Gate())
			}
			if r.HasPending() {
				t.Error("Expected pending input to be cleared after resolving")
			}
		})
	}
}

func TestTurnResolver_NoPendingInput(t *testing.T) {
	r, backend := newTestResolver(t, PlayerState{Cell{2, 2}, Up})
	var outcome OutcomeTracker

	if records := r.Resolve(&outcome); records != nil {
		t.Errorf("Expected no records without input, got %+v", records)
	}
	if len(backend.played) != 0 {
		t.Errorf("Expected no cues, got %v", backend.played)
	}
}

func TestTurnResolver_StepOntoThreatWhenNotPlaying(t *testing.T) {
	r, backend := newTestResolver(t, PlayerState{Cell{5, 5}, Up})
	var outcome OutcomeTracker
	outcome.Win()

	r.Submit(InputForward)
	records := r.Resolve(&outcome)

	if len(records) != 1 {
		t.Fatalf("Expected only the step record, got %+v", records)
	}
	if backend.lastCue() != CueStep {
		t.Errorf("Expected step cue only, got %v", backend.played)
	}
	if outcome.Outcome() != PlayerWon {
		t.Errorf("Expected outcome to stay won, got %s", outcome.Outcome())
	}
}

func TestTurnResolver_DeathPlaysStepThenDeath(t *testing.T) {
	r, backend := newTestResolver(t, PlayerState{Cell{5, 5}, Up})
	var outcome OutcomeTracker

	r.Submit(InputForward)
	r.Resolve(&outcome)

	if len(backend.played) != 2 || backend.played[0] != CueStep || backend.played[1] != CueDeath {
		t.Errorf("Expected step then death, got %v", backend.played)
	}
	if outcome.Outcome() != PlayerDead {
		t.Errorf("Expected dead, got %s", outcome.Outcome())
	}
}

func TestTurnResolver_BearingsFollowPlayer(t *testing.T) {
	r, backend := newTestResolver(t, PlayerState{Cell{5, 5}, Up})

	threat, ok := r.Landmark(LandmarkThreat)
	if !ok {
		t.Fatal("Expected threat landmark")
	}
	if threat.Mixer.Angle != 0 {
		t.Errorf("Expected threat straight ahead, got angle %d", threat.Mixer.Angle)
	}
	if backend.positions[LandmarkThreat] != threat.Mixer {
		t.Error("Expected backend to hold the cached mixer params")
	}

	r.Submit(InputTurnRight)
	var outcome OutcomeTracker
	r.Resolve(&outcome)

	threat, _ = r.Landmark(LandmarkThreat)
	if threat.Mixer.Angle != 270 {
		t.Errorf("Expected threat on the left after turning right, got angle %d", threat.Mixer.Angle)
	}
	if backend.positions[LandmarkThreat].Angle != 270 {
		t.Errorf("Expected backend repositioned to 270, got %d", backend.positions[LandmarkThreat].Angle)
	}
}

func TestTurnResolver_Elapse(t *testing.T) {
	r, _ := newTestResolver(t, PlayerState{Cell{2, 2}, Up})

	r.PlayCue(CueDeath)
	r.Elapse(-time.Second)
	if r.Gate() != deathDuration {
		t.Errorf("Negative elapsed must not extend the gate, got %v", r.Gate())
	}

	r.Elapse(500 * time.Millisecond)
	if r.Gate() != deathDuration-500*time.Millisecond {
		t.Errorf("Unexpected gate %v", r.Gate())
	}

	r.Elapse(time.Hour)
	if r.Gate() != 0 || r.Gated() {
		t.Errorf("Expected open gate, got %v", r.Gate())
	}
}
