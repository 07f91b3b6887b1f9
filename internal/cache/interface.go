package cache

// Store is a durable key→value store surviving process restarts. Values are
// JSON-serialized. Writes are synchronous and best-effort; there is no
// atomicity across keys.
type Store interface {
	// Get unmarshals the value stored under key into out.
	// Returns ErrNotFound when the key has never been written.
	Get(key string, out any) error

	// Put marshals value and stores it under key.
	Put(key string, value any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys returns every stored key.
	Keys() ([]string, error)

	// PurgeUser removes every key namespaced to userID.
	PurgeUser(userID string) error

	// ClearGlobals removes the un-namespaced session keys.
	ClearGlobals() error
}
