package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/domination/game/engine"
)

func createTestConfig() *engine.ArenaConfig {
	return &engine.ArenaConfig{
		Name:        "Test Arena",
		Description: "Test configuration",
		Width:       4,
		Height:      3,
		Layout: []string{
			"....",
			".G#.",
			"R..P",
		},
		Enemies: []engine.EnemySpec{
			{
				Name:   "Slime",
				Width:  1,
				Height: 1,
				Spawn:  engine.Position{X: 0, Y: 0},
				Patrol: []engine.PatrolStep{{Direction: engine.Right, Steps: 3}},
			},
		},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-match", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-match" {
			t.Errorf("Expected session ID 'test-match', got '%s'", session.ID)
		}
		if session.ConfigID != "test" {
			t.Errorf("Expected config ID 'test', got '%s'", session.ConfigID)
		}
		if session.Match == nil {
			t.Error("Expected match to be initialized")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 8 {
			t.Errorf("Expected 8-character ID, got %q", session.ID)
		}
	})

	t.Run("duplicate ID", func(t *testing.T) {
		_, err := manager.Create("TEST-MATCH", "test", config)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := createTestConfig()
		bad.Layout = bad.Layout[:2]
		if _, err := manager.Create("bad", "bad", bad); err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", "test", createTestConfig())

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the same session instance")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		if _, err := manager.Get("GET-TEST"); err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		if _, err := manager.Get("non-existent"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("delete-test", "test", createTestConfig())

	if err := manager.Delete("DELETE-test"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("delete-test"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected session to be deleted")
	}
	if err := manager.Delete("delete-test"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	for i := 1; i <= 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("list-%d", i), "test", config); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	if manager.Count() != 3 {
		t.Errorf("Expected 3 sessions, got %d", manager.Count())
	}
	found := make(map[string]bool)
	for _, s := range manager.List() {
		found[s.ID] = true
	}
	for i := 1; i <= 3; i++ {
		if !found[fmt.Sprintf("list-%d", i)] {
			t.Errorf("Session list-%d not found in list", i)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	active, _ := manager.Create("active", "test", config)
	expired, _ := manager.Create("expired", "test", config)

	expired.Touch(time.Now().Add(-2 * time.Hour))
	active.Touch(time.Now())

	if deleted := manager.CleanupExpiredSessions(1 * time.Hour); deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("access-test", "test", createTestConfig())
	originalTime := session.LastAccessedAt()

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt().After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.Create("", "test", config); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 100 {
		t.Errorf("Expected 100 sessions, got %d", manager.Count())
	}
}

func TestManager_ConcurrentTouch(t *testing.T) {
	manager := NewManager()
	session, err := manager.Create("touch", "test", createTestConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := manager.UpdateLastAccessed("touch"); err != nil {
					t.Errorf("UpdateLastAccessed failed: %v", err)
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = session.LastAccessedAt()
			}
		}()
	}
	wg.Wait()

	if session.LastAccessedAt().Before(session.CreatedAt) {
		t.Error("Expected last access time at or after creation")
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", "test", config)
	session2, _ := manager.Create("iso-2", "test", config)

	if _, err := session1.Match.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if _, err := session1.Match.CaptureTile(engine.Position{X: 0, Y: 0}); err != nil {
		t.Fatalf("CaptureTile failed: %v", err)
	}

	state2 := session2.Match.Snapshot()
	if state2.Tick != 0 || state2.CapturedTiles != 0 {
		t.Error("Session 2 should not be affected by session 1")
	}
	if state2.Enemies[0].Position != (engine.Position{X: 0, Y: 0}) {
		t.Errorf("Session 2 enemy moved: %v", state2.Enemies[0].Position)
	}
}
