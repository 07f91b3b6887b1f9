package gateway

import (
	"errors"
	"fmt"
)

// ErrKind classifies a gateway failure. The engine's reaction depends only
// on the kind, never on the raw status.
type ErrKind int

const (
	// ErrKindNetwork is a transport-level failure: timeouts, refused
	// connections, DNS. Transient; the optimistic local entity stays.
	ErrKindNetwork ErrKind = iota
	// ErrKindValidation is a 400: the payload was rejected. Not retried.
	ErrKindValidation
	// ErrKindAuth is a 401/403. Non-fatal; never forces a logout.
	ErrKindAuth
	// ErrKindNotFound is a 404. Fatal only during session revalidation.
	ErrKindNotFound
	// ErrKindServer is a 5xx.
	ErrKindServer
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNetwork:
		return "network"
	case ErrKindValidation:
		return "validation"
	case ErrKindAuth:
		return "auth"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindServer:
		return "server"
	}
	return "unknown"
}

// Error is a classified gateway failure.
type Error struct {
	Kind   ErrKind
	Status int // HTTP status, 0 for transport failures
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway %s: %s failure (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func kindOf(err error) (ErrKind, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool { k, ok := kindOf(err); return ok && k == ErrKindNetwork }

// IsValidation reports whether err is a payload rejection.
func IsValidation(err error) bool { k, ok := kindOf(err); return ok && k == ErrKindValidation }

// IsAuth reports whether err is a 401/403.
func IsAuth(err error) bool { k, ok := kindOf(err); return ok && k == ErrKindAuth }

// IsNotFound reports whether err is a definitive 404.
func IsNotFound(err error) bool { k, ok := kindOf(err); return ok && k == ErrKindNotFound }

// IsServer reports whether err is a 5xx.
func IsServer(err error) bool { k, ok := kindOf(err); return ok && k == ErrKindServer }
