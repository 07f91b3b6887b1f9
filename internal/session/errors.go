package session

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration rejected")
	ErrInvalidState       = errors.New("operation not allowed in current state")
	ErrVerificationFailed = errors.New("email verification failed")
)
