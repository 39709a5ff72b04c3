package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/EmmaPrats/Sound-Only-Game/game/config"
	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/game/session"
	"github.com/EmmaPrats/Sound-Only-Game/sound"
)

const (
	// MaxBulkActions caps a single BulkAct call
	MaxBulkActions = 50

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

var (
	ErrSessionOver   = errors.New("session is over")
	ErrUnknownAction = errors.New("unknown action")
)

// narrated is the per-session state the service keeps beside the session
type narrated struct {
	levelID  string
	narrator *sound.Narrator
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	narrated map[string]*narrated
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. Sessions it creates
// are voiced by a sound.Narrator so turn-based clients get text cues.
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
		narrated: make(map[string]*narrated),
	}
}

// CreateSession starts a session on the named level, or the default level
// when levelName is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var level *engine.LevelConfig
	levelID := strings.TrimSuffix(levelName, ".json")
	if levelID != "" {
		var err error
		level, err = s.levels.LoadLevel(levelID)
		if err != nil {
			if errors.Is(err, config.ErrLevelNotFound) {
				return nil, fmt.Errorf("level '%s' not found. Available levels: %v", levelName, s.levelIDs())
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelName, err)
		}
	} else {
		level = s.levels.GetDefault()
		levelID = s.levelID(level.Name)
	}

	narrator := sound.NewNarrator(level.Sounds)
	sess, err := s.sessions.Create("", level, narrator)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.narrated[strings.ToLower(sess.ID)] = &narrated{levelID: levelID, narrator: narrator}

	return &SessionInfo{
		ID:        sess.ID,
		LevelID:   levelID,
		State:     sess.Snapshot(),
		Narration: narrator.Drain(),
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	delete(s.narrated, strings.ToLower(sessionID))
	return nil
}

// Act resolves one action and plays out every cue it triggers
func (s *gameServiceImpl) Act(ctx context.Context, sessionID, action string) (*ActResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	in, err := parseAction(action)
	if err != nil {
		return nil, err
	}
	if sess.IsOver() {
		return nil, fmt.Errorf("session %s: %w", sess.ID, ErrSessionOver)
	}

	turns := sess.Act(ctx, in)
	return &ActResult{
		Action:    in.String(),
		Turns:     nonNilTurns(turns),
		Narration: s.drain(sess.ID),
		State:     sess.Snapshot(),
	}, nil
}

// BulkAct resolves actions in order until they run out, the session ends or
// an action fails to parse
func (s *gameServiceImpl) BulkAct(ctx context.Context, sessionID string, actions []string) (*BulkActResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	if sess.IsOver() {
		return nil, fmt.Errorf("session %s: %w", sess.ID, ErrSessionOver)
	}

	result := &BulkActResult{
		Requested: len(actions),
		Turns:     []engine.TurnRecord{},
	}
	if len(actions) > MaxBulkActions {
		actions = actions[:MaxBulkActions]
		result.Truncated = true
		result.Limit = MaxBulkActions
	}

	for i, action := range actions {
		in, err := parseAction(action)
		if err != nil {
			result.StoppedReason = err.Error()
			result.StoppedOnIdx = i + 1
			break
		}

		result.Turns = append(result.Turns, sess.Act(ctx, in)...)
		result.Executed++

		if sess.IsOver() {
			result.StoppedReason = "session over: " + sess.Snapshot().Outcome.String()
			result.StoppedOnIdx = i + 1
			break
		}
	}

	result.Narration = s.drain(sess.ID)
	result.State = sess.Snapshot()
	return result, nil
}

// Listen describes where each landmark sounds from
func (s *gameServiceImpl) Listen(ctx context.Context, sessionID string) (*ListenResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	snap := sess.Snapshot()

	lines := []string{}
	if n, ok := s.narrated[strings.ToLower(sess.ID)]; ok {
		lines = append(lines, n.narrator.Listen()...)
	} else {
		for _, lm := range snap.Landmarks {
			lines = append(lines, fmt.Sprintf("The %s is %s.", lm.ID, sound.Describe(lm.Mixer)))
		}
	}

	return &ListenResult{
		Lines:     lines,
		Landmarks: snap.Landmarks,
		Player:    snap.Player,
	}, nil
}

// GetHistory returns a page of the session transcript
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.History()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	turns := []engine.TurnRecord{}
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else if start < total {
		turns = append(turns, history[start:end]...)
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*config.LevelInfo, error) {
	return s.levels.ListLevels()
}

func (s *gameServiceImpl) info(sess *session.Session) *SessionInfo {
	levelID := s.levelID(sess.Level.Name)
	if n, ok := s.narrated[strings.ToLower(sess.ID)]; ok {
		levelID = n.levelID
	}
	return &SessionInfo{
		ID:      sess.ID,
		LevelID: levelID,
		State:   sess.Snapshot(),
	}
}

func (s *gameServiceImpl) drain(sessionID string) []string {
	n, ok := s.narrated[strings.ToLower(sessionID)]
	if !ok {
		return []string{}
	}
	lines := n.narrator.Drain()
	if lines == nil {
		lines = []string{}
	}
	return lines
}

// levelID maps a level display name back to the identifier LoadLevel takes
func (s *gameServiceImpl) levelID(name string) string {
	infos, err := s.levels.ListLevels()
	if err == nil {
		for _, info := range infos {
			if info.Name == name {
				return info.ID
			}
		}
	}
	return name
}

func (s *gameServiceImpl) levelIDs() []string {
	infos, err := s.levels.ListLevels()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ID)
	}
	return ids
}

func parseAction(action string) (engine.Input, error) {
	in, err := engine.ParseInput(action)
	if err != nil || in == engine.InputNone {
		return engine.InputNone, fmt.Errorf("%w %q: use forward, turn_left or turn_right", ErrUnknownAction, action)
	}
	return in, nil
}

func nonNilTurns(turns []engine.TurnRecord) []engine.TurnRecord {
	if turns == nil {
		return []engine.TurnRecord{}
	}
	return turns
}
