package engine

// OutcomeTracker holds the monotonic terminal-state progression:
// Playing -> PlayerDead -> PlayerLost -> end, and Playing -> PlayerWon -> end.
type OutcomeTracker struct {
	outcome Outcome
	ended   bool
}

// Outcome returns the current outcome
func (t *OutcomeTracker) Outcome() Outcome {
	return t.outcome
}

// Ended reports whether the session end has been signalled
func (t *OutcomeTracker) Ended() bool {
	return t.ended
}

// Die moves a playing session to PlayerDead. It reports whether the transition happened.
func (t *OutcomeTracker) Die() bool {
	if t.outcome != Playing {
		return false
	}
	t.outcome = PlayerDead
	return true
}

// Win moves a playing session to PlayerWon. It reports whether the transition happened.
func (t *OutcomeTracker) Win() bool {
	if t.outcome != Playing {
		return false
	}
	t.outcome = PlayerWon
	return true
}

// Advance runs the transition due on an idle tick. It returns the cue to play
// for the new stage, if any. PlayerDead becomes PlayerLost with the loss cue;
// PlayerLost and PlayerWon signal the end of the session.
func (t *OutcomeTracker) Advance() (cue CueKind, changed bool) {
	if t.ended {
		return "", false
	}

	switch t.outcome {
	case PlayerDead:
		t.outcome = PlayerLost
		return CueLoss, true
	case PlayerLost, PlayerWon:
		t.ended = true
		return "", true
	}
	return "", false
}
