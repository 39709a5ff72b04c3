package engine

import (
	"fmt"
	"time"
)

// AudioBackend is the positional mixer the engine drives
type AudioBackend interface {
	// StartAmbient starts a landmark's looping channel; it is only ever
	// repositioned afterwards, never stopped, until the session ends.
	StartAmbient(id Landmark)

	// SetPosition moves a landmark's ambient channel
	SetPosition(id Landmark, params MixerParams)

	// PlayCue (re)triggers a one-shot cue on its own channel and returns its
	// playback duration. A cue that failed to load reports 0.
	PlayCue(kind CueKind) time.Duration
}

// SilentBackend is an AudioBackend that plays nothing and reports zero durations
type SilentBackend struct{}

// StartAmbient does nothing
func (SilentBackend) StartAmbient(Landmark) {}

// SetPosition does nothing
func (SilentBackend) SetPosition(Landmark, MixerParams) {}

// PlayCue plays nothing and reports a zero duration
func (SilentBackend) PlayCue(CueKind) time.Duration { return 0 }

// Engine is a single game session: grid, player, landmarks, gate and outcome
type Engine struct {
	config   *LevelConfig
	grid     *Grid
	resolver *TurnResolver
	outcome  OutcomeTracker

	history []TurnRecord
	message string
	ticks   int
	elapsed time.Duration
}

// NewEngine validates the level and starts a session on it
func NewEngine(config *LevelConfig, audio AudioBackend) (*Engine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", ErrInvalidLevel)
	}
	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}

	grid, err := NewGrid(config.Layout)
	if err != nil {
		return nil, err
	}

	spawn := PlayerState{Cell: config.Spawn, Orientation: config.SpawnOrientation}

	return &Engine{
		config:   config,
		grid:     grid,
		resolver: NewTurnResolver(grid, audio, spawn, config.Threat, config.Exit, config.TurnInterval()),
		message:  fmt.Sprintf("Player starts at %s", config.Spawn),
	}, nil
}

// SubmitInput queues an input for the next tick. Input that is still
// pending when a tick finds the gate closed is dropped, not queued.
func (e *Engine) SubmitInput(in Input) {
	if e.outcome.Ended() {
		return
	}
	e.resolver.Submit(in)
}

// Tick advances the session by elapsed real time and returns the outcome.
// While a cue holds the gate, time runs down but input is discarded.
func (e *Engine) Tick(elapsed time.Duration) Outcome {
	if e.outcome.Ended() {
		e.resolver.DropInput()
		return e.outcome.Outcome()
	}

	if elapsed > 0 {
		e.elapsed += elapsed
	}
	e.ticks++

	e.resolver.Elapse(elapsed)
	if e.resolver.Gated() {
		e.resolver.DropInput()
		return e.outcome.Outcome()
	}

	if cue, changed := e.outcome.Advance(); changed {
		e.resolver.DropInput()
		if cue != "" {
			player := e.resolver.Player()
			gate := e.resolver.PlayCue(cue)
			e.record(TurnRecord{
				Action:      ActionLoss,
				From:        player.Cell,
				To:          player.Cell,
				Orientation: player.Orientation,
				Cue:         cue,
				Gate:        gate,
				Outcome:     e.outcome.Outcome(),
				Message:     "Game over",
			})
		}
		return e.outcome.Outcome()
	}

	for _, rec := range e.resolver.Resolve(&e.outcome) {
		e.record(rec)
	}

	return e.outcome.Outcome()
}

func (e *Engine) record(rec TurnRecord) {
	rec.Number = len(e.history) + 1
	e.history = append(e.history, rec)
	e.message = rec.Message
}

// Outcome returns the current outcome
func (e *Engine) Outcome() Outcome {
	return e.outcome.Outcome()
}

// IsOver reports whether the session end has been signalled
func (e *Engine) IsOver() bool {
	return e.outcome.Ended()
}

// Player returns the player state
func (e *Engine) Player() PlayerState {
	return e.resolver.Player()
}

// Landmarks returns both landmarks with their current bearings
func (e *Engine) Landmarks() []LandmarkState {
	return e.resolver.Landmarks()
}

// Gate returns the remaining gate duration
func (e *Engine) Gate() time.Duration {
	return e.resolver.Gate()
}

// Grid returns the immutable maze
func (e *Engine) Grid() *Grid {
	return e.grid
}

// GetConfig returns the level the session was started with
func (e *Engine) GetConfig() *LevelConfig {
	return e.config
}

// Message returns the description of the last resolved action
func (e *Engine) Message() string {
	return e.message
}

// History returns every resolved action so far
func (e *Engine) History() []TurnRecord {
	out := make([]TurnRecord, len(e.history))
	copy(out, e.history)
	return out
}

// HistorySince returns the records numbered after n
func (e *Engine) HistorySince(n int) []TurnRecord {
	if n < 0 {
		n = 0
	}
	if n >= len(e.history) {
		return nil
	}
	out := make([]TurnRecord, len(e.history)-n)
	copy(out, e.history[n:])
	return out
}

// Turns returns how many records the transcript holds
func (e *Engine) Turns() int {
	return len(e.history)
}

// GetLastMove returns the last resolved action, or nil if none
func (e *Engine) GetLastMove() *TurnRecord {
	if len(e.history) == 0 {
		return nil
	}
	rec := e.history[len(e.history)-1]
	return &rec
}

// Ticks returns how many times Tick ran before the session ended
func (e *Engine) Ticks() int {
	return e.ticks
}

// Elapsed returns the total time fed to Tick
func (e *Engine) Elapsed() time.Duration {
	return e.elapsed
}
