package session

import (
	"context"

	"todofast/internal/model"
)

// State is the session lifecycle position. Verification and onboarding
// gates sit between a successful login and an active session.
type State string

const (
	StateAnonymous         State = "anonymous"
	StateAuthenticating    State = "authenticating"
	StateUnverified        State = "unverified"
	StatePendingOnboarding State = "pending_onboarding"
	StateActive            State = "active"
	StateLoggingOut        State = "logging_out"
)

// Session owns the authentication lifecycle. It is the only component
// that writes the global cache keys, and it purges the user's cached
// data on logout.
type Session interface {
	State() State
	Scope() (model.Scope, bool)
	User() (model.User, bool)

	// Login authenticates with email and password. Depending on the
	// account's verification and onboarding flags the session lands in
	// StateUnverified, StatePendingOnboarding or StateActive.
	Login(ctx context.Context, email, password string) (State, error)

	// LoginFederated authenticates with a federated identity credential.
	// Federated emails are pre-verified, so the verification gate never
	// applies.
	LoginFederated(ctx context.Context, credential string) (State, error)

	// Register creates an account and signs in unverified.
	Register(ctx context.Context, email, password, name string) (State, error)

	// ConsumeVerificationToken redeems an email verification token. A
	// token the server reports as already used still counts as verified.
	ConsumeVerificationToken(ctx context.Context, token string) (State, error)

	// ResendVerification asks the server to send a fresh token.
	ResendVerification(ctx context.Context) error

	// CompleteOnboarding marks first-run setup as done and activates
	// the session. skipped records whether the user dismissed it.
	CompleteOnboarding(ctx context.Context, skipped bool) (State, error)

	// Resume restores a previous session from the cache, revalidating
	// the account against the server. A vanished account purges the
	// cache; a degraded server keeps the cached session alive.
	Resume(ctx context.Context) (State, error)

	// Logout resets the collections, purges the user's cached data and
	// clears the global keys.
	Logout(ctx context.Context)
}

// BulkLoader is the engine surface the session drives when it activates
// or tears down.
type BulkLoader interface {
	LoadAll(ctx context.Context, sc model.Scope) error
	LoadFromCache(sc model.Scope) error
	Reset()
}

// Resetter is any additional per-session cache (calendar events) that
// must be dropped on logout.
type Resetter interface {
	Reset()
}
