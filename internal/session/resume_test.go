package session

import (
	"context"
	"errors"
	"testing"

	"todofast/internal/cache"
	"todofast/internal/gateway"
)

func seedResumeState(t *testing.T, store cache.Store, verified, initialized bool) {
	t.Helper()
	puts := map[string]any{
		cache.KeyAuthenticated: true,
		cache.KeyUsername:      "alice@example.com",
		cache.KeyDisplayName:   "Alice",
		cache.UserKey("alice@example.com", cache.DataEmailVerified): verified,
		cache.UserKey("alice@example.com", cache.DataInitialized):   initialized,
		cache.UserKey("alice@example.com", cache.DataTasks):         "snapshot",
	}
	for k, v := range puts {
		if err := store.Put(k, v); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
}

func TestResume(t *testing.T) {
	t.Run("No Stored Session Stays Anonymous", func(t *testing.T) {
		s := New(&mockLogger{}, &mockAccountGateway{}, newTestStore(t), &mockLoader{})
		st, err := s.Resume(context.Background())
		if err != nil {
			t.Fatalf("resume: %v", err)
		}
		if st != StateAnonymous {
			t.Errorf("expected StateAnonymous, got %v", st)
		}
	})

	t.Run("Valid Account Activates And Bulk Loads", func(t *testing.T) {
		store := newTestStore(t)
		seedResumeState(t, store, true, true)
		loader := &mockLoader{}
		s := New(&mockLogger{}, &mockAccountGateway{}, store, loader)

		st, err := s.Resume(context.Background())
		if err != nil {
			t.Fatalf("resume: %v", err)
		}
		if st != StateActive {
			t.Errorf("expected StateActive, got %v", st)
		}
		if loader.loadAllCalls != 1 {
			t.Errorf("expected one bulk load, got %d", loader.loadAllCalls)
		}
	})

	t.Run("Vanished Account Purges Everything", func(t *testing.T) {
		store := newTestStore(t)
		seedResumeState(t, store, true, true)
		gw := &mockAccountGateway{
			lookupUserFunc: func(ctx context.Context, email string) (gateway.UserLookup, error) {
				return gateway.UserLookup{}, &gateway.Error{Kind: gateway.ErrKindNotFound, Status: 404, Op: "lookup user"}
			},
		}
		s := New(&mockLogger{}, gw, store, &mockLoader{})

		st, err := s.Resume(context.Background())
		if err != nil {
			t.Fatalf("resume: %v", err)
		}
		if st != StateAnonymous {
			t.Errorf("expected StateAnonymous, got %v", st)
		}
		var authed bool
		if getErr := store.Get(cache.KeyAuthenticated, &authed); !errors.Is(getErr, cache.ErrNotFound) {
			t.Errorf("expected globals cleared, got %v", getErr)
		}
		var snap string
		if getErr := store.Get(cache.UserKey("alice@example.com", cache.DataTasks), &snap); !errors.Is(getErr, cache.ErrNotFound) {
			t.Errorf("expected user data purged, got %v", getErr)
		}
	})

	t.Run("Degraded Server Trusts Cached Verification", func(t *testing.T) {
		store := newTestStore(t)
		seedResumeState(t, store, true, true)
		loader := &mockLoader{}
		gw := &mockAccountGateway{
			lookupUserFunc: func(ctx context.Context, email string) (gateway.UserLookup, error) {
				return gateway.UserLookup{}, &gateway.Error{Kind: gateway.ErrKindServer, Status: 500, Op: "lookup user"}
			},
		}
		s := New(&mockLogger{}, gw, store, loader)

		st, err := s.Resume(context.Background())
		if err != nil {
			t.Fatalf("resume: %v", err)
		}
		if st != StateActive {
			t.Errorf("expected the cached session to survive a 500, got %v", st)
		}
		if loader.loadAllCalls != 0 || loader.cacheCalls != 1 {
			t.Errorf("expected a cache load, not a network load: %d/%d", loader.loadAllCalls, loader.cacheCalls)
		}
		var authed bool
		if getErr := store.Get(cache.KeyAuthenticated, &authed); getErr != nil || !authed {
			t.Errorf("globals must survive a degraded resume: %v", getErr)
		}
	})

	t.Run("Degraded Server With Unverified Cache Keeps The Gate", func(t *testing.T) {
		store := newTestStore(t)
		seedResumeState(t, store, false, true)
		gw := &mockAccountGateway{
			lookupUserFunc: func(ctx context.Context, email string) (gateway.UserLookup, error) {
				return gateway.UserLookup{}, &gateway.Error{Kind: gateway.ErrKindNetwork, Op: "lookup user"}
			},
		}
		s := New(&mockLogger{}, gw, store, &mockLoader{})

		st, err := s.Resume(context.Background())
		if err != nil {
			t.Fatalf("resume: %v", err)
		}
		if st != StateUnverified {
			t.Errorf("expected StateUnverified, got %v", st)
		}
	})

	t.Run("Server Refreshes Onboarding Flag", func(t *testing.T) {
		store := newTestStore(t)
		seedResumeState(t, store, true, false)
		loader := &mockLoader{}
		gw := &mockAccountGateway{
			lookupUserFunc: func(ctx context.Context, email string) (gateway.UserLookup, error) {
				res := gateway.UserLookup{Exists: true}
				res.User.Profile.Name = "Alice"
				res.User.Profile.FirstTimeLogin = false
				return res, nil
			},
		}
		s := New(&mockLogger{}, gw, store, loader)

		st, err := s.Resume(context.Background())
		if err != nil {
			t.Fatalf("resume: %v", err)
		}
		if st != StateActive {
			t.Errorf("expected server-reported onboarding to activate, got %v", st)
		}
	})
}
