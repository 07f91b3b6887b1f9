package cache

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func newMemStore(t *testing.T) Store {
	t.Helper()
	store, err := NewWithFs(afero.NewMemMapFs(), "cache")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := newMemStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("Put Then Get", func(t *testing.T) {
		if err := store.Put("k", payload{Name: "x", Count: 3}); err != nil {
			t.Fatalf("put: %v", err)
		}
		var got payload
		if err := store.Get("k", &got); err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "x" || got.Count != 3 {
			t.Errorf("round trip mismatch: %+v", got)
		}
	})

	t.Run("Missing Key", func(t *testing.T) {
		var got payload
		if err := store.Get("nope", &got); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Put("gone", payload{}); err != nil {
			t.Fatalf("put: %v", err)
		}
		if err := store.Delete("gone"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var got payload
		if err := store.Get("gone", &got); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("Decode Failure Is Wrapped And Evicted", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store, err := NewWithFs(fs, "cache")
		if err != nil {
			t.Fatalf("new store: %v", err)
		}
		if err := store.Put("k3", "text"); err != nil {
			t.Fatalf("put: %v", err)
		}

		var n int
		err = store.Get("k3", &n)
		if err == nil || !strings.Contains(err.Error(), `failed to decode cache key "k3"`) {
			t.Errorf("expected a wrapped decode error, got %v", err)
		}

		// The undecodable entry must not be served from memory again: a
		// corrected file is picked up on the next read.
		if err := afero.WriteFile(fs, "cache/k3.json", []byte("7"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		if err := store.Get("k3", &n); err != nil || n != 7 {
			t.Errorf("expected the corrected value after eviction, got %d (%v)", n, err)
		}
	})

	t.Run("Overwrite Refreshes Read Cache", func(t *testing.T) {
		if err := store.Put("k2", payload{Count: 1}); err != nil {
			t.Fatalf("put: %v", err)
		}
		var first payload
		if err := store.Get("k2", &first); err != nil {
			t.Fatalf("get: %v", err)
		}
		if err := store.Put("k2", payload{Count: 2}); err != nil {
			t.Fatalf("second put: %v", err)
		}
		var second payload
		if err := store.Get("k2", &second); err != nil {
			t.Fatalf("second get: %v", err)
		}
		if second.Count != 2 {
			t.Errorf("expected the overwritten value, got %+v", second)
		}
	})
}

func TestPurgeUser(t *testing.T) {
	store := newMemStore(t)

	seed := map[string]string{
		UserKey("alice@example.com", DataTasks):    "a-tasks",
		UserKey("alice@example.com", DataProjects): "a-projects",
		UserKey("bob@example.com", DataTasks):      "b-tasks",
	}
	for k, v := range seed {
		if err := store.Put(k, v); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
	if err := store.Put(KeyAuthenticated, true); err != nil {
		t.Fatalf("seed global: %v", err)
	}

	if err := store.PurgeUser("alice@example.com"); err != nil {
		t.Fatalf("purge: %v", err)
	}

	var s string
	if err := store.Get(UserKey("alice@example.com", DataTasks), &s); !errors.Is(err, ErrNotFound) {
		t.Errorf("alice's tasks should be gone, got %v", err)
	}
	if err := store.Get(UserKey("alice@example.com", DataProjects), &s); !errors.Is(err, ErrNotFound) {
		t.Errorf("alice's projects should be gone, got %v", err)
	}
	if err := store.Get(UserKey("bob@example.com", DataTasks), &s); err != nil {
		t.Errorf("bob's data must survive alice's purge: %v", err)
	}
	var authed bool
	if err := store.Get(KeyAuthenticated, &authed); err != nil || !authed {
		t.Errorf("globals are not touched by a user purge: %v", err)
	}
}

func TestClearGlobals(t *testing.T) {
	store := newMemStore(t)

	if err := store.Put(KeyAuthenticated, true); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(KeyUsername, "alice@example.com"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(UserKey("alice@example.com", DataTasks), "kept"); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := store.ClearGlobals(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	var authed bool
	if err := store.Get(KeyAuthenticated, &authed); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected authenticated flag cleared, got %v", err)
	}
	var s string
	if err := store.Get(UserKey("alice@example.com", DataTasks), &s); err != nil {
		t.Errorf("user data must survive a globals clear: %v", err)
	}
}

func TestUserKey(t *testing.T) {
	if got := UserKey("alice@example.com", DataTasks); got != "alice@example.com_tasks" {
		t.Errorf("unexpected key %q", got)
	}
	if !IsUserKey("alice@example.com_tasks", "alice@example.com") {
		t.Errorf("expected match")
	}
	if IsUserKey("bob@example.com_tasks", "alice@example.com") {
		t.Errorf("bob's key must not match alice")
	}
}
