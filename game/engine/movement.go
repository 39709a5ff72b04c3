package engine

import (
	"fmt"
	"time"
)

// TurnResolver consumes pending input, resolves it against the grid and the
// orientation model, keeps the landmark bearings current and gates input on
// the duration of the feedback cue it triggered.
type TurnResolver struct {
	grid         *Grid
	mapper       CueMapper
	audio        AudioBackend
	turnInterval time.Duration

	player    PlayerState
	landmarks []LandmarkState
	gate      time.Duration

	pendingTurn    TurnDirection
	pendingForward bool
}

// NewTurnResolver places the player at spawn and starts the ambient landmark channels
func NewTurnResolver(grid *Grid, audio AudioBackend, spawn PlayerState, threat, exit Cell, turnInterval time.Duration) *TurnResolver {
	if audio == nil {
		audio = SilentBackend{}
	}

	r := &TurnResolver{
		grid:         grid,
		mapper:       NewCueMapper(grid),
		audio:        audio,
		turnInterval: turnInterval,
		player:       spawn,
		landmarks: []LandmarkState{
			{ID: LandmarkThreat, Cell: threat},
			{ID: LandmarkExit, Cell: exit},
		},
	}

	for _, lm := range r.landmarks {
		r.audio.StartAmbient(lm.ID)
	}
	r.refreshBearings()

	return r
}

// Player returns the current player state
func (r *TurnResolver) Player() PlayerState {
	return r.player
}

// Landmarks returns a copy of both landmark states
func (r *TurnResolver) Landmarks() []LandmarkState {
	out := make([]LandmarkState, len(r.landmarks))
	copy(out, r.landmarks)
	return out
}

// Landmark returns the state of a single landmark
func (r *TurnResolver) Landmark(id Landmark) (LandmarkState, bool) {
	for _, lm := range r.landmarks {
		if lm.ID == id {
			return lm, true
		}
	}
	return LandmarkState{}, false
}

// Gate returns the remaining time during which input is ignored
func (r *TurnResolver) Gate() time.Duration {
	return r.gate
}

// Gated reports whether a cue is still holding the gate
func (r *TurnResolver) Gated() bool {
	return r.gate > 0
}

// Submit records an input for the next idle tick. A later turn replaces an
// earlier one; forward and turn may both be pending, turn wins.
func (r *TurnResolver) Submit(in Input) {
	switch in {
	case InputTurnLeft:
		r.pendingTurn = TurnLeft
	case InputTurnRight:
		r.pendingTurn = TurnRight
	case InputForward:
		r.pendingForward = true
	}
}

// HasPending reports whether any input waits for an idle tick
func (r *TurnResolver) HasPending() bool {
	return r.pendingTurn != NoTurn || r.pendingForward
}

// DropInput discards all pending input
func (r *TurnResolver) DropInput() {
	r.pendingTurn = NoTurn
	r.pendingForward = false
}

// Elapse counts real time down against the gate
func (r *TurnResolver) Elapse(elapsed time.Duration) {
	if elapsed <= 0 || r.gate <= 0 {
		return
	}
	r.gate -= elapsed
	if r.gate < 0 {
		r.gate = 0
	}
}

// PlayCue triggers a cue and holds the gate for its duration
func (r *TurnResolver) PlayCue(cue CueKind) time.Duration {
	d := r.audio.PlayCue(cue)
	if d < 0 {
		d = 0
	}
	r.gate = d
	return d
}

// Resolve processes at most one pending action. Turns take priority over
// moves. Any other pending input is discarded once an action resolves.
func (r *TurnResolver) Resolve(outcome *OutcomeTracker) []TurnRecord {
	if !r.HasPending() {
		return nil
	}
	defer r.DropInput()

	if r.pendingTurn != NoTurn {
		return []TurnRecord{r.resolveTurn(r.pendingTurn)}
	}
	return r.resolveForward(outcome)
}

func (r *TurnResolver) resolveTurn(direction TurnDirection) TurnRecord {
	from := r.player
	r.player.Orientation = Turn(from.Orientation, direction)
	r.refreshBearings()
	r.gate = r.turnInterval

	action := ActionTurnLeft
	if direction == TurnRight {
		action = ActionTurnRight
	}

	return TurnRecord{
		Action:      action,
		From:        from.Cell,
		To:          r.player.Cell,
		Orientation: r.player.Orientation,
		Gate:        r.gate,
		Message:     fmt.Sprintf("Player looks %s", r.player.Orientation),
	}
}

func (r *TurnResolver) resolveForward(outcome *OutcomeTracker) []TurnRecord {
	from := r.player.Cell
	dx, dy := ForwardStep(r.player.Orientation)
	target := from.Add(dx, dy)

	if r.grid.IsWall(target) {
		gate := r.PlayCue(CueWallBump)
		return []TurnRecord{{
			Action:      ActionBump,
			From:        from,
			To:          from,
			Orientation: r.player.Orientation,
			Cue:         CueWallBump,
			Gate:        gate,
			Outcome:     outcome.Outcome(),
			Message:     fmt.Sprintf("Target position %s is a wall", target),
		}}
	}

	r.player.Cell = target
	r.refreshBearings()
	gate := r.PlayCue(CueStep)

	records := []TurnRecord{{
		Action:      ActionForward,
		From:        from,
		To:          target,
		Orientation: r.player.Orientation,
		Cue:         CueStep,
		Gate:        gate,
		Outcome:     outcome.Outcome(),
		Message:     fmt.Sprintf("Player moved to %s", target),
	}}

	threat, _ := r.Landmark(LandmarkThreat)
	exit, _ := r.Landmark(LandmarkExit)

	switch {
	case target == threat.Cell && outcome.Die():
		gate = r.PlayCue(CueDeath)
		records = append(records, TurnRecord{
			Action:      ActionDeath,
			From:        target,
			To:          target,
			Orientation: r.player.Orientation,
			Cue:         CueDeath,
			Gate:        gate,
			Outcome:     outcome.Outcome(),
			Message:     "The monster ate the player",
		})
	case target == exit.Cell && outcome.Win():
		gate = r.PlayCue(CueVictory)
		records = append(records, TurnRecord{
			Action:      ActionVictory,
			From:        target,
			To:          target,
			Orientation: r.player.Orientation,
			Cue:         CueVictory,
			Gate:        gate,
			Outcome:     outcome.Outcome(),
			Message:     "Player arrived at the exit",
		})
	}

	return records
}

// refreshBearings recomputes every landmark's bearing cache and pushes the
// resulting mixer parameters to the ambient channels
func (r *TurnResolver) refreshBearings() {
	for i := range r.landmarks {
		lm := &r.landmarks[i]
		lm.Bearing = RelativeBearing(r.player, lm.Cell)
		lm.Mixer = r.mapper.MixerParameters(lm.Bearing)
		r.audio.SetPosition(lm.ID, lm.Mixer)
	}
}
