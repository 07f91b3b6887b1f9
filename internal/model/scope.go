package model

// Scope carries the identity a call acts on behalf of. It replaces the old
// pattern of reading session flags from ambient shared storage: the session
// machine owns the values and passes them down explicitly.
type Scope struct {
	UserID      string // stable identity key, typically an email
	DisplayName string
}
