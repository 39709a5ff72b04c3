package engine

import (
	"errors"
	"testing"
	"time"
)

const (
	stepDuration    = 300 * time.Millisecond
	bumpDuration    = 500 * time.Millisecond
	deathDuration   = 2 * time.Second
	lossDuration    = 3 * time.Second
	victoryDuration = 4 * time.Second

	// long enough to clear any gate in one tick
	clearGate = time.Hour
)

// referenceLayout is the cueva 10x10 cave, top row first
var referenceLayout = []string{
	"##########",
	"#...#....#",
	"#...#....#",
	"#.#.#....#",
	"#......#.#",
	"#......#.#",
	"#..#...#.#",
	"#..#...#.#",
	"#..#...#.#",
	"##########",
}

func createTestLevel() *LevelConfig {
	return &LevelConfig{
		Name:             "Test Cave",
		Description:      "Reference cave for engine tests",
		Layout:           append([]string(nil), referenceLayout...),
		Spawn:            Cell{2, 2},
		SpawnOrientation: Up,
		Threat:           Cell{5, 6},
		Exit:             Cell{8, 1},
		TurnIntervalMS:   1000,
	}
}

type fakeBackend struct {
	durations map[CueKind]time.Duration
	played    []CueKind
	ambient   []Landmark
	positions map[Landmark]MixerParams
	setCalls  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		durations: map[CueKind]time.Duration{
			CueStep:     stepDuration,
			CueWallBump: bumpDuration,
			CueDeath:    deathDuration,
			CueLoss:     lossDuration,
			CueVictory:  victoryDuration,
		},
		positions: make(map[Landmark]MixerParams),
	}
}

func (f *fakeBackend) StartAmbient(id Landmark) {
	f.ambient = append(f.ambient, id)
}

func (f *fakeBackend) SetPosition(id Landmark, params MixerParams) {
	f.positions[id] = params
	f.setCalls++
}

func (f *fakeBackend) PlayCue(kind CueKind) time.Duration {
	f.played = append(f.played, kind)
	return f.durations[kind]
}

func (f *fakeBackend) lastCue() CueKind {
	if len(f.played) == 0 {
		return ""
	}
	return f.played[len(f.played)-1]
}

func newTestEngine(t *testing.T) (*Engine, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	eng, err := NewEngine(createTestLevel(), backend)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng, backend
}

// act submits one input and resolves it, clearing whatever gate was pending
func act(eng *Engine, in Input) Outcome {
	eng.Tick(clearGate)
	eng.SubmitInput(in)
	return eng.Tick(0)
}

func actAll(eng *Engine, inputs ...Input) Outcome {
	outcome := eng.Outcome()
	for _, in := range inputs {
		outcome = act(eng, in)
	}
	return outcome
}

var (
	pathToThreat = []Input{
		InputForward, InputForward, InputForward, // (2,5)
		InputTurnRight,
		InputForward, InputForward, InputForward, // (5,5)
		InputTurnLeft,
		InputForward, // (5,6)
	}
	pathToExit = []Input{
		InputForward, InputForward, InputForward, // (2,5)
		InputTurnRight,
		InputForward, InputForward, InputForward, InputForward, // (6,5)
		InputTurnLeft,
		InputForward, // (6,6)
		InputTurnRight,
		InputForward, InputForward, // (8,6)
		InputTurnRight,
		InputForward, InputForward, InputForward, InputForward, InputForward, // (8,1)
	}
)

func TestNewEngine(t *testing.T) {
	eng, backend := newTestEngine(t)

	player := eng.Player()
	if player.Cell != (Cell{2, 2}) {
		t.Errorf("Expected spawn (2, 2), got %s", player.Cell)
	}
	if player.Orientation != Up {
		t.Errorf("Expected spawn facing up, got %s", player.Orientation)
	}
	if eng.Outcome() != Playing {
		t.Errorf("Expected outcome playing, got %s", eng.Outcome())
	}
	if eng.IsOver() {
		t.Error("Expected session not to be over initially")
	}
	if eng.Gate() != 0 {
		t.Errorf("Expected open gate, got %v", eng.Gate())
	}

	if len(backend.ambient) != 2 {
		t.Fatalf("Expected both ambient channels to start, got %v", backend.ambient)
	}
	if _, ok := backend.positions[LandmarkThreat]; !ok {
		t.Error("Expected threat position to be pushed at start")
	}
	if _, ok := backend.positions[LandmarkExit]; !ok {
		t.Error("Expected exit position to be pushed at start")
	}
	if len(backend.played) != 0 {
		t.Errorf("Expected no cues at start, got %v", backend.played)
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	level := createTestLevel()
	level.Spawn = Cell{0, 0}

	_, err := NewEngine(level, nil)
	if err == nil {
		t.Fatal("Expected error for spawn on a wall")
	}
	if !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}

	if _, err := NewEngine(nil, nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestEngine_NilBackendIsSilent(t *testing.T) {
	eng, err := NewEngine(createTestLevel(), nil)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	eng.SubmitInput(InputForward)
	eng.Tick(0)

	if eng.Player().Cell != (Cell{2, 3}) {
		t.Errorf("Expected move to (2, 3), got %s", eng.Player().Cell)
	}
	if eng.Gate() != 0 {
		t.Errorf("Expected zero gate with silent backend, got %v", eng.Gate())
	}
}

// Scenario 1: forward with no wall ahead
func TestEngine_MoveForward(t *testing.T) {
	eng, backend := newTestEngine(t)
	before := backend.setCalls

	eng.SubmitInput(InputForward)
	outcome := eng.Tick(16 * time.Millisecond)

	if outcome != Playing {
		t.Errorf("Expected playing, got %s", outcome)
	}
	if eng.Player().Cell != (Cell{2, 3}) {
		t.Errorf("Expected player at (2, 3), got %s", eng.Player().Cell)
	}
	if backend.lastCue() != CueStep {
		t.Errorf("Expected step cue, got %q", backend.lastCue())
	}
	if eng.Gate() != stepDuration {
		t.Errorf("Expected gate %v, got %v", stepDuration, eng.Gate())
	}
	if backend.setCalls != before+2 {
		t.Errorf("Expected both landmarks repositioned, got %d calls", backend.setCalls-before)
	}

	last := eng.GetLastMove()
	if last == nil || last.Action != ActionForward || last.To != (Cell{2, 3}) {
		t.Errorf("Unexpected last move: %+v", last)
	}
}

// Scenario 2: turning left from spawn
func TestEngine_TurnLeft(t *testing.T) {
	eng, backend := newTestEngine(t)
	threatBefore := backend.positions[LandmarkThreat]

	eng.SubmitInput(InputTurnLeft)
	eng.Tick(16 * time.Millisecond)

	player := eng.Player()
	if player.Orientation != Left {
		t.Errorf("Expected to face left, got %s", player.Orientation)
	}
	if player.Cell != (Cell{2, 2}) {
		t.Errorf("Expected no cell change, got %s", player.Cell)
	}
	if eng.Gate() != time.Second {
		t.Errorf("Expected gate 1s, got %v", eng.Gate())
	}
	if len(backend.played) != 0 {
		t.Errorf("Expected no cue for a turn, got %v", backend.played)
	}
	if backend.positions[LandmarkThreat] == threatBefore {
		t.Error("Expected threat bearing to be recomputed after turning")
	}
}

// Scenario 5: forward into a wall
func TestEngine_WallBump(t *testing.T) {
	eng, backend := newTestEngine(t)

	act(eng, InputTurnRight) // facing right, (3,2) is a wall
	before := eng.Player()
	setCalls := backend.setCalls

	act(eng, InputForward)

	if eng.Player() != before {
		t.Errorf("Expected player unchanged, was %+v now %+v", before, eng.Player())
	}
	if backend.lastCue() != CueWallBump {
		t.Errorf("Expected wall bump cue, got %q", backend.lastCue())
	}
	if eng.Gate() != bumpDuration {
		t.Errorf("Expected gate %v, got %v", bumpDuration, eng.Gate())
	}
	if backend.setCalls != setCalls {
		t.Error("Expected no repositioning when the move is rejected")
	}
}

// Scenario 3: death, then loss, then session end
func TestEngine_DeathSequence(t *testing.T) {
	eng, backend := newTestEngine(t)

	outcome := actAll(eng, pathToThreat...)
	if outcome != PlayerDead {
		t.Fatalf("Expected dead after reaching the threat, got %s at %s", outcome, eng.Player().Cell)
	}
	if eng.Player().Cell != (Cell{5, 6}) {
		t.Errorf("Expected player on threat cell, got %s", eng.Player().Cell)
	}
	for _, lm := range eng.Landmarks() {
		if lm.ID == LandmarkThreat && (lm.Mixer.Angle != 0 || lm.Mixer.Distance != 0) {
			t.Errorf("Expected threat mixer {0 0} on its own cell, got %+v", lm.Mixer)
		}
	}
	if got := backend.positions[LandmarkThreat]; got != (MixerParams{}) {
		t.Errorf("Expected threat pushed at {0 0}, got %+v", got)
	}
	if backend.lastCue() != CueDeath {
		t.Errorf("Expected death cue, got %q", backend.lastCue())
	}
	if eng.Gate() != deathDuration {
		t.Errorf("Expected gate %v, got %v", deathDuration, eng.Gate())
	}

	// still gated
	if got := eng.Tick(deathDuration / 2); got != PlayerDead {
		t.Errorf("Expected still dead while gated, got %s", got)
	}

	// gate expires, no input needed
	if got := eng.Tick(deathDuration); got != PlayerLost {
		t.Fatalf("Expected lost after death cue, got %s", got)
	}
	if backend.lastCue() != CueLoss {
		t.Errorf("Expected loss cue, got %q", backend.lastCue())
	}
	if eng.Gate() != lossDuration {
		t.Errorf("Expected gate %v, got %v", lossDuration, eng.Gate())
	}
	if eng.IsOver() {
		t.Error("Session should not end before the loss cue finishes")
	}

	if got := eng.Tick(lossDuration); got != PlayerLost {
		t.Errorf("Expected final outcome lost, got %s", got)
	}
	if !eng.IsOver() {
		t.Error("Expected session end after loss cue")
	}
}

// Scenario 4: victory ends the session after a single stage
func TestEngine_VictorySequence(t *testing.T) {
	eng, backend := newTestEngine(t)

	outcome := actAll(eng, pathToExit...)
	if outcome != PlayerWon {
		t.Fatalf("Expected won at the exit, got %s at %s", outcome, eng.Player().Cell)
	}
	if backend.lastCue() != CueVictory {
		t.Errorf("Expected victory cue, got %q", backend.lastCue())
	}
	if eng.Gate() != victoryDuration {
		t.Errorf("Expected gate %v, got %v", victoryDuration, eng.Gate())
	}

	cues := len(backend.played)
	if got := eng.Tick(victoryDuration); got != PlayerWon {
		t.Errorf("Expected won, got %s", got)
	}
	if !eng.IsOver() {
		t.Error("Expected session end right after the victory cue")
	}
	if len(backend.played) != cues {
		t.Errorf("Expected no further cue after victory, got %v", backend.played[cues:])
	}
}

func TestEngine_InputDroppedWhileGated(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.SubmitInput(InputForward)
	eng.Tick(0) // (2,3), gate = step

	eng.SubmitInput(InputForward)
	eng.Tick(stepDuration / 3)

	if eng.Player().Cell != (Cell{2, 3}) {
		t.Fatalf("Expected input to be ignored while gated, at %s", eng.Player().Cell)
	}

	// the dropped input must not come back once the gate opens
	eng.Tick(stepDuration)
	eng.Tick(0)
	if eng.Player().Cell != (Cell{2, 3}) {
		t.Errorf("Expected dropped input not to be replayed, at %s", eng.Player().Cell)
	}
}

func TestEngine_TickZeroWhileGatedIsIdempotent(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.SubmitInput(InputForward)
	eng.Tick(0)

	player := eng.Player()
	outcome := eng.Outcome()
	gate := eng.Gate()

	for i := 0; i < 10; i++ {
		eng.SubmitInput(InputTurnLeft)
		eng.Tick(0)
	}

	if eng.Player() != player {
		t.Errorf("Player changed while gated: %+v -> %+v", player, eng.Player())
	}
	if eng.Outcome() != outcome {
		t.Errorf("Outcome changed while gated: %s -> %s", outcome, eng.Outcome())
	}
	if eng.Gate() != gate {
		t.Errorf("Gate changed with zero elapsed: %v -> %v", gate, eng.Gate())
	}
}

func TestEngine_TurnHasPriorityOverMove(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.SubmitInput(InputForward)
	eng.SubmitInput(InputTurnRight)
	eng.Tick(0)

	if eng.Player().Orientation != Right {
		t.Errorf("Expected turn to win, facing %s", eng.Player().Orientation)
	}
	if eng.Player().Cell != (Cell{2, 2}) {
		t.Errorf("Expected no move in the same tick, at %s", eng.Player().Cell)
	}

	// the pending move was discarded with the turn
	eng.Tick(clearGate)
	if eng.Player().Cell != (Cell{2, 2}) {
		t.Errorf("Expected pending move to be discarded, at %s", eng.Player().Cell)
	}
}

func TestEngine_MissingCueDoesNotBlock(t *testing.T) {
	eng, backend := newTestEngine(t)
	delete(backend.durations, CueStep)

	eng.SubmitInput(InputForward)
	eng.Tick(0)
	eng.SubmitInput(InputForward)
	eng.Tick(0)

	if eng.Player().Cell != (Cell{2, 4}) {
		t.Errorf("Expected two moves with a silent step cue, at %s", eng.Player().Cell)
	}
}

func TestEngine_GateCountsDownAcrossTicks(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.SubmitInput(InputTurnLeft)
	eng.Tick(0)

	for i := 0; i < 59; i++ {
		eng.Tick(16 * time.Millisecond)
	}
	if eng.Gate() != time.Second-59*16*time.Millisecond {
		t.Errorf("Unexpected gate after 59 frames: %v", eng.Gate())
	}

	eng.Tick(100 * time.Millisecond)
	if eng.Gate() != 0 {
		t.Errorf("Expected gate to floor at zero, got %v", eng.Gate())
	}
}

func TestEngine_NoInputAfterEnd(t *testing.T) {
	eng, _ := newTestEngine(t)
	actAll(eng, pathToExit...)
	eng.Tick(clearGate)
	if !eng.IsOver() {
		t.Fatal("Expected session to be over")
	}

	cell := eng.Player().Cell
	eng.SubmitInput(InputTurnLeft)
	eng.SubmitInput(InputForward)
	eng.Tick(clearGate)

	if eng.Player().Cell != cell || eng.Outcome() != PlayerWon {
		t.Error("Expected a finished session to ignore input")
	}
}

func TestEngine_History(t *testing.T) {
	eng, _ := newTestEngine(t)
	actAll(eng, pathToThreat...)
	eng.Tick(clearGate)

	history := eng.History()
	if len(history) != len(pathToThreat)+2 {
		t.Fatalf("Expected %d records, got %d", len(pathToThreat)+2, len(history))
	}

	for i, rec := range history {
		if rec.Number != i+1 {
			t.Errorf("Record %d has number %d", i, rec.Number)
		}
	}

	death := history[len(history)-2]
	if death.Action != ActionDeath || death.Outcome != PlayerDead {
		t.Errorf("Expected death record, got %+v", death)
	}
	loss := history[len(history)-1]
	if loss.Action != ActionLoss || loss.Cue != CueLoss || loss.Outcome != PlayerLost {
		t.Errorf("Expected loss record, got %+v", loss)
	}
	if eng.Message() != loss.Message {
		t.Errorf("Expected message %q, got %q", loss.Message, eng.Message())
	}
}

func TestSilentBackend(t *testing.T) {
	var backend AudioBackend = SilentBackend{}
	backend.StartAmbient(LandmarkThreat)
	backend.SetPosition(LandmarkExit, MixerParams{Angle: 90, Distance: 10})
	for _, kind := range CueKinds {
		if d := backend.PlayCue(kind); d != 0 {
			t.Errorf("Expected zero duration for %s, got %v", kind, d)
		}
	}
}
