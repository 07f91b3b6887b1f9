package session

import (
	"sync"

	"todofast/internal/gateway"
	"todofast/internal/model"
	pkgLog "todofast/pkg/log"

	"todofast/internal/cache"
)

type implSession struct {
	l      pkgLog.Logger
	gw     gateway.Gateway
	store  cache.Store
	loader BulkLoader
	resets []Resetter

	mu    sync.Mutex
	state State
	user  model.User
}

var _ Session = &implSession{}

// New builds a Session. resetters are torn down alongside the loader on
// logout.
func New(l pkgLog.Logger, gw gateway.Gateway, store cache.Store, loader BulkLoader, resetters ...Resetter) Session {
	return &implSession{
		l:      l,
		gw:     gw,
		store:  store,
		loader: loader,
		resets: resetters,
		state:  StateAnonymous,
	}
}

func (s *implSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *implSession) Scope() (model.Scope, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAnonymous || s.state == StateAuthenticating || s.state == StateLoggingOut {
		return model.Scope{}, false
	}
	return model.Scope{UserID: s.user.Email, DisplayName: s.user.DisplayName}, true
}

func (s *implSession) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAnonymous || s.state == StateAuthenticating || s.state == StateLoggingOut {
		return model.User{}, false
	}
	return s.user, true
}
