package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
)

// createTestLevel is a three-cell corridor: threat, spawn, exit
func createTestLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "Corridor",
		Description: "Threat to the west, exit to the east",
		Layout: []string{
			"#####",
			"#...#",
			"#####",
		},
		Spawn:            engine.Cell{X: 2, Y: 1},
		SpawnOrientation: engine.Right,
		Threat:           engine.Cell{X: 1, Y: 1},
		Exit:             engine.Cell{X: 3, Y: 1},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	level := createTestLevel()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", level, nil)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Snapshot().Player.Cell != level.Spawn {
			t.Error("Expected session to start at spawn")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", level, nil)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != idLength {
			t.Errorf("Expected %d-character session ID, got %q", idLength, session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", level, nil)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", level, nil)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		invalid := createTestLevel()
		invalid.Name = ""
		_, err := manager.Create("invalid-test", invalid, nil)
		if !errors.Is(err, engine.ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", createTestLevel(), nil)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the created session")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Error("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("delete-me", createTestLevel(), nil)

	if err := manager.Delete("DELETE-ME"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected no sessions, got %d", manager.Count())
	}
	if err := manager.Delete("delete-me"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	for i := 0; i < 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("list-%d", i), createTestLevel(), nil); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].CreatedAt.Before(sessions[i-1].CreatedAt) {
			t.Error("Expected sessions ordered by creation time")
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	manager.Create("old", createTestLevel(), nil)

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 0 {
		t.Errorf("Expected nothing removed, got %d", removed)
	}

	time.Sleep(5 * time.Millisecond)
	if removed := manager.CleanupExpiredSessions(time.Millisecond); removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	level := createTestLevel()

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.Create("", level, nil); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	session1, _ := manager.Create("iso-1", createTestLevel(), nil)
	session2, _ := manager.Create("iso-2", createTestLevel(), nil)

	session1.Act(context.Background(), engine.InputTurnLeft)

	if session2.Snapshot().Player.Orientation != engine.Right {
		t.Error("Session 2 should not be affected by session 1 input")
	}
	if session1.Snapshot().Player.Orientation != engine.Up {
		t.Errorf("Expected session 1 to face up, got %s", session1.Snapshot().Player.Orientation)
	}
}
