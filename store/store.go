// Package store holds failure sentinels shared by the User/Session Store
// backends in its sub-packages.
package store

import "github.com/pkg/errors"

// ErrUnavailable is returned by a backend once bounded retries against the
// external store have been exhausted, or when the store cannot be reached at
// all. Callers must surface it instead of hanging on a dead store.
var ErrUnavailable = errors.New("store unavailable")
