package service

import (
	"context"

	"github.com/EmmaPrats/Sound-Only-Game/game/config"
	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/game/session"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Act(ctx context.Context, sessionID, action string) (*ActResult, error)
	BulkAct(ctx context.Context, sessionID string, actions []string) (*BulkActResult, error)
	Listen(ctx context.Context, sessionID string) (*ListenResult, error)

	// Game State
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*config.LevelInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, level *engine.LevelConfig, audio engine.AudioBackend) (*session.Session, error)
	Get(id string) (*session.Session, error)
	List() []*session.Session
	Delete(id string) error
}

// LevelManager handles level loading
type LevelManager interface {
	LoadLevel(name string) (*engine.LevelConfig, error)
	ListLevels() ([]*config.LevelInfo, error)
	GetDefault() *engine.LevelConfig
}
