package session

import (
	"context"

	"todofast/internal/cache"
	"todofast/internal/gateway"
	"todofast/internal/model"
)

// Resume restores the session persisted by a previous run. The cached
// identity is revalidated against the server: an account the server no
// longer knows purges everything, while a server that is merely
// unreachable or failing keeps the cached session, loaded from cache.
func (s *implSession) Resume(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.state != StateAnonymous {
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidState
	}
	s.mu.Unlock()

	var authed bool
	if err := s.store.Get(cache.KeyAuthenticated, &authed); err != nil || !authed {
		return StateAnonymous, nil
	}
	var email, displayName string
	if err := s.store.Get(cache.KeyUsername, &email); err != nil || email == "" {
		return StateAnonymous, nil
	}
	if err := s.store.Get(cache.KeyDisplayName, &displayName); err != nil || displayName == "" {
		displayName = email
	}

	var (
		verified    bool
		initialized bool
		avatarURL   string
	)
	if err := s.store.Get(cache.UserKey(email, cache.DataEmailVerified), &verified); err != nil {
		verified = false
	}
	if err := s.store.Get(cache.UserKey(email, cache.DataInitialized), &initialized); err != nil {
		initialized = false
	}
	_ = s.store.Get(cache.UserKey(email, cache.DataAvatarURL), &avatarURL)

	lookup, err := s.gw.LookupUser(ctx, email)
	switch {
	case gateway.IsNotFound(err) || (err == nil && !lookup.Exists):
		// The account is gone. Stale cached data must not outlive it.
		s.l.Infof(ctx, "session: account %s no longer exists, purging", email)
		if purgeErr := s.store.PurgeUser(email); purgeErr != nil {
			s.l.Warnf(ctx, "session: purge user cache: %v", purgeErr)
		}
		if clearErr := s.store.ClearGlobals(); clearErr != nil {
			s.l.Warnf(ctx, "session: clear global keys: %v", clearErr)
		}
		return StateAnonymous, nil

	case err != nil:
		// Server trouble is not proof the account vanished. Trust the
		// cached flags and run offline.
		s.l.Warnf(ctx, "session: revalidation degraded for %s: %v", email, err)
		u := model.User{
			Email:          email,
			DisplayName:    displayName,
			AvatarURL:      avatarURL,
			EmailVerified:  verified,
			FirstTimeLogin: !initialized,
		}
		return s.establishCached(ctx, u)

	default:
		if name := lookup.User.Profile.Name; name != "" {
			displayName = name
		}
		if !lookup.User.Profile.FirstTimeLogin {
			initialized = true
		}
		u := model.User{
			Email:          email,
			DisplayName:    displayName,
			AvatarURL:      avatarURL,
			EmailVerified:  verified,
			FirstTimeLogin: !initialized,
		}
		return s.establish(ctx, u)
	}
}

// establishCached is establish without the network: activation loads the
// cached snapshots instead of bulk-fetching.
func (s *implSession) establishCached(ctx context.Context, u model.User) (State, error) {
	next := StateUnverified
	if u.EmailVerified && !u.FirstTimeLogin {
		next = StateActive
	} else if u.EmailVerified {
		next = StatePendingOnboarding
	}

	s.mu.Lock()
	s.user = u
	s.state = next
	s.mu.Unlock()

	if next == StateActive {
		sc := model.Scope{UserID: u.Email, DisplayName: u.DisplayName}
		if err := s.loader.LoadFromCache(sc); err != nil {
			s.l.Warnf(ctx, "session: cached snapshots unavailable: %v", err)
		}
	}
	return next, nil
}
