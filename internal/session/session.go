package session

import (
	"context"
	"fmt"

	"todofast/internal/cache"
	"todofast/internal/model"
)

func (s *implSession) Login(ctx context.Context, email, password string) (State, error) {
	s.mu.Lock()
	if s.state != StateAnonymous {
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidState
	}
	s.state = StateAuthenticating
	s.mu.Unlock()

	res, err := s.gw.Login(ctx, email, password)
	if err != nil {
		s.setState(StateAnonymous)
		return StateAnonymous, fmt.Errorf("login: %w", err)
	}
	if !res.Success {
		s.l.Infof(ctx, "session: login rejected for %s: %s", email, res.Message)
		s.setState(StateAnonymous)
		return StateAnonymous, ErrInvalidCredentials
	}

	u := model.User{
		Email:          email,
		DisplayName:    res.User.Profile.Name,
		AvatarURL:      res.User.Profile.AvatarURL,
		EmailVerified:  res.EmailVerified,
		FirstTimeLogin: res.FirstTimeLogin,
	}
	if u.DisplayName == "" {
		u.DisplayName = email
	}
	return s.establish(ctx, u)
}

func (s *implSession) LoginFederated(ctx context.Context, credential string) (State, error) {
	s.mu.Lock()
	if s.state != StateAnonymous {
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidState
	}
	s.state = StateAuthenticating
	s.mu.Unlock()

	res, err := s.gw.LoginFederated(ctx, credential)
	if err != nil {
		s.setState(StateAnonymous)
		return StateAnonymous, fmt.Errorf("federated login: %w", err)
	}
	if !res.Success {
		s.l.Infof(ctx, "session: federated login rejected: %s", res.Message)
		s.setState(StateAnonymous)
		return StateAnonymous, ErrInvalidCredentials
	}

	u := model.User{
		Email:          res.User.Email,
		DisplayName:    res.User.Profile.Name,
		AvatarURL:      res.User.Profile.AvatarURL,
		EmailVerified:  true,
		FirstTimeLogin: res.FirstTimeLogin,
	}
	if u.DisplayName == "" {
		u.DisplayName = u.Email
	}
	return s.establish(ctx, u)
}

func (s *implSession) Register(ctx context.Context, email, password, name string) (State, error) {
	s.mu.Lock()
	if s.state != StateAnonymous {
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidState
	}
	s.state = StateAuthenticating
	s.mu.Unlock()

	res, err := s.gw.Register(ctx, email, password, name)
	if err != nil {
		s.setState(StateAnonymous)
		return StateAnonymous, fmt.Errorf("register: %w", err)
	}
	if !res.Success {
		s.l.Infof(ctx, "session: registration rejected for %s: %s", email, res.Message)
		s.setState(StateAnonymous)
		return StateAnonymous, ErrRegistrationFailed
	}

	u := model.User{
		Email:          email,
		DisplayName:    name,
		EmailVerified:  res.EmailVerified,
		FirstTimeLogin: true,
	}
	if u.DisplayName == "" {
		u.DisplayName = email
	}
	return s.establish(ctx, u)
}

func (s *implSession) ConsumeVerificationToken(ctx context.Context, token string) (State, error) {
	s.mu.Lock()
	if s.state != StateUnverified {
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidState
	}
	s.mu.Unlock()

	res, err := s.gw.VerifyEmail(ctx, token)
	if err != nil {
		return StateUnverified, fmt.Errorf("verify email: %w", err)
	}
	// An already-redeemed token means the address is verified, just not
	// by this click.
	if !res.Success && !res.AlreadyUsed {
		s.l.Infof(ctx, "session: verification rejected: %s", res.Message)
		return StateUnverified, ErrVerificationFailed
	}

	s.mu.Lock()
	s.user.EmailVerified = true
	u := s.user
	s.mu.Unlock()
	return s.establish(ctx, u)
}

func (s *implSession) ResendVerification(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUnverified {
		s.mu.Unlock()
		return ErrInvalidState
	}
	email := s.user.Email
	s.mu.Unlock()

	if err := s.gw.ResendVerification(ctx, email); err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}
	return nil
}

func (s *implSession) CompleteOnboarding(ctx context.Context, skipped bool) (State, error) {
	s.mu.Lock()
	if s.state != StatePendingOnboarding {
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidState
	}
	s.user.FirstTimeLogin = false
	u := s.user
	s.mu.Unlock()

	// The local flag wins; a failed remote ack means onboarding shows
	// again on another device, not here.
	if err := s.gw.CompleteOnboarding(ctx, skipped); err != nil {
		s.l.Warnf(ctx, "session: complete onboarding ack: %v", err)
	}
	return s.establish(ctx, u)
}

func (s *implSession) Logout(ctx context.Context) {
	s.mu.Lock()
	userID := s.user.Email
	s.state = StateLoggingOut
	s.user = model.User{}
	s.mu.Unlock()
	defer s.setState(StateAnonymous)

	s.loader.Reset()
	for _, r := range s.resets {
		r.Reset()
	}
	if userID == "" {
		return
	}
	if err := s.store.PurgeUser(userID); err != nil {
		s.l.Warnf(ctx, "session: purge user cache: %v", err)
	}
	if err := s.store.ClearGlobals(); err != nil {
		s.l.Warnf(ctx, "session: clear global keys: %v", err)
	}
}

// establish records the user, persists identity and flags, and moves to
// the state the flags dictate, bulk-loading on activation.
func (s *implSession) establish(ctx context.Context, u model.User) (State, error) {
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

	s.persistIdentity(ctx, u)
	if next == StateActive {
		sc := model.Scope{UserID: u.Email, DisplayName: u.DisplayName}
		if err := s.loader.LoadAll(ctx, sc); err != nil {
			return next, fmt.Errorf("activate: %w", err)
		}
	}
	return next, nil
}

func (s *implSession) persistIdentity(ctx context.Context, u model.User) {
	puts := []struct {
		key string
		val any
	}{
		{cache.KeyAuthenticated, true},
		{cache.KeyUsername, u.Email},
		{cache.KeyDisplayName, u.DisplayName},
		{cache.UserKey(u.Email, cache.DataEmailVerified), u.EmailVerified},
		{cache.UserKey(u.Email, cache.DataInitialized), !u.FirstTimeLogin},
		{cache.UserKey(u.Email, cache.DataAvatarURL), u.AvatarURL},
	}
	for _, p := range puts {
		if err := s.store.Put(p.key, p.val); err != nil {
			s.l.Warnf(ctx, "session: persist %s: %v", p.key, err)
		}
	}
}

func (s *implSession) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
