package session

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
)

// maxSettleTicks bounds Act's fast-forward: step, death, loss and end
const maxSettleTicks = 8

// EventType classifies session events
type EventType string

const (
	EventTurn EventType = "turn"
	EventEnd  EventType = "end"
)

// Event is published to subscribers after every resolved action and once
// when the session ends
type Event struct {
	SessionID string             `json:"session_id"`
	Type      EventType          `json:"type"`
	Turn      *engine.TurnRecord `json:"turn,omitempty"`
	Outcome   engine.Outcome     `json:"outcome"`
	Player    engine.PlayerState `json:"player"`
	Time      time.Time          `json:"time"`
}

// Snapshot is a consistent read of a session's state
type Snapshot struct {
	ID             string                 `json:"id"`
	Level          string                 `json:"level"`
	Player         engine.PlayerState     `json:"player"`
	Landmarks      []engine.LandmarkState `json:"landmarks"`
	Outcome        engine.Outcome         `json:"outcome"`
	Over           bool                   `json:"over"`
	Gate           time.Duration          `json:"gate"`
	Message        string                 `json:"message"`
	Turns          int                    `json:"turns"`
	Ticks          int                    `json:"ticks"`
	Elapsed        time.Duration          `json:"elapsed"`
	CreatedAt      time.Time              `json:"created_at"`
	LastAccessedAt time.Time              `json:"last_accessed_at"`
}

// Session is one game with its own engine. All engine access goes through
// the session mutex, so a frontend loop may tick it while readers inspect it.
type Session struct {
	ID        string
	Level     *engine.LevelConfig
	CreatedAt time.Time

	mu             sync.Mutex
	engine         *engine.Engine
	lastAccessedAt time.Time
	tracer         trace.Tracer

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSub     int
}

func newSession(id string, level *engine.LevelConfig, eng *engine.Engine, tracer trace.Tracer) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		Level:          level,
		CreatedAt:      now,
		engine:         eng,
		lastAccessedAt: now,
		tracer:         tracer,
		subscribers:    make(map[int]func(Event)),
	}
}

// Submit queues player input for the next tick
func (s *Session) Submit(in engine.Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SubmitInput(in)
	s.lastAccessedAt = time.Now()
}

// Tick advances the engine by elapsed, traces every action it resolved and
// publishes the matching events
func (s *Session) Tick(ctx context.Context, elapsed time.Duration) engine.Outcome {
	s.mu.Lock()
	before := s.engine.Turns()
	wasOver := s.engine.IsOver()
	outcome := s.engine.Tick(elapsed)
	records := s.engine.HistorySince(before)
	ended := !wasOver && s.engine.IsOver()
	player := s.engine.Player()
	s.mu.Unlock()

	if len(records) == 0 && !ended {
		return outcome
	}

	now := time.Now()
	events := make([]Event, 0, len(records)+1)
	for i := range records {
		s.traceTurn(ctx, records[i])
		events = append(events, Event{
			SessionID: s.ID,
			Type:      EventTurn,
			Turn:      &records[i],
			Outcome:   records[i].Outcome,
			Player:    player,
			Time:      now,
		})
	}
	if ended {
		events = append(events, Event{
			SessionID: s.ID,
			Type:      EventEnd,
			Outcome:   outcome,
			Player:    player,
			Time:      now,
		})
	}

	s.publish(events)
	return outcome
}

// Act submits one input and fast-forwards game time through every cue it
// triggers, returning the records produced. It serves turn-based clients
// that have no frame loop.
func (s *Session) Act(ctx context.Context, in engine.Input) []engine.TurnRecord {
	s.mu.Lock()
	start := s.engine.Turns()
	s.mu.Unlock()

	s.Submit(in)
	s.Tick(ctx, 0)

	for i := 0; i < maxSettleTicks; i++ {
		s.mu.Lock()
		gate := s.engine.Gate()
		settled := s.engine.IsOver() || (gate == 0 && s.engine.Outcome() == engine.Playing)
		s.mu.Unlock()

		if settled {
			break
		}
		s.Tick(ctx, gate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.HistorySince(start)
}

func (s *Session) traceTurn(ctx context.Context, rec engine.TurnRecord) {
	_, span := s.tracer.Start(ctx, "session.turn", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("turn.number", rec.Number),
		attribute.String("turn.action", rec.Action),
		attribute.String("turn.cue", string(rec.Cue)),
		attribute.String("turn.outcome", rec.Outcome.String()),
		attribute.Int64("turn.gate_ms", rec.Gate.Milliseconds()),
	))
	span.End()
}

// Subscribe registers fn for every future event. The returned function
// removes it. fn runs on the ticking goroutine and must not block.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Session) publish(events []Event) {
	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:             s.ID,
		Level:          s.Level.Name,
		Player:         s.engine.Player(),
		Landmarks:      s.engine.Landmarks(),
		Outcome:        s.engine.Outcome(),
		Over:           s.engine.IsOver(),
		Gate:           s.engine.Gate(),
		Message:        s.engine.Message(),
		Turns:          s.engine.Turns(),
		Ticks:          s.engine.Ticks(),
		Elapsed:        s.engine.Elapsed(),
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.lastAccessedAt,
	}
}

// History returns the full transcript
func (s *Session) History() []engine.TurnRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.History()
}

// IsOver reports whether the session has ended
func (s *Session) IsOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.IsOver()
}

// LastAccessedAt returns when input was last submitted
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}
