package service

import (
	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/game/session"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID        string           `json:"id"`
	LevelID   string           `json:"level_id"`
	State     session.Snapshot `json:"state"`
	Narration []string         `json:"narration,omitempty"`
}

// ActResult contains the outcome of a single action, with every cue it
// triggered already played out
type ActResult struct {
	Action    string              `json:"action"`
	Turns     []engine.TurnRecord `json:"turns"`
	Narration []string            `json:"narration"`
	State     session.Snapshot    `json:"state"`
}

// BulkActResult contains the result of several actions in a row
type BulkActResult struct {
	Requested     int                 `json:"requested"`
	Executed      int                 `json:"executed"`
	Truncated     bool                `json:"truncated,omitempty"`
	Limit         int                 `json:"limit,omitempty"`
	StoppedReason string              `json:"stopped_reason,omitempty"`
	StoppedOnIdx  int                 `json:"stopped_on_idx,omitempty"` // 1-based
	Turns         []engine.TurnRecord `json:"turns"`
	Narration     []string            `json:"narration"`
	State         session.Snapshot    `json:"state"`
}

// ListenResult describes the soundscape at the player's position
type ListenResult struct {
	Lines     []string               `json:"lines"`
	Landmarks []engine.LandmarkState `json:"landmarks"`
	Player    engine.PlayerState     `json:"player"`
}

// HistoryOptions configures transcript retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the transcript
type HistoryResponse struct {
	Turns       []engine.TurnRecord `json:"turns"`
	TotalTurns  int                 `json:"total_turns"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}
