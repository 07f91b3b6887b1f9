package cache

import "errors"

// ErrNotFound is returned by Get for a key that has never been written.
var ErrNotFound = errors.New("cache key not found")
