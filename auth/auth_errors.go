package auth

import (
	"github.com/authgate/authgate/store"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailAlreadyRegistered = errors.New("user with this email already exists")

	// ErrNotAuthenticated means no token was presented at all.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired covers expired, revoked, and never-issued tokens.
	ErrSessionExpired = errors.New("session expired")

	// ErrStoreWrite means the store accepted an insert but reported no
	// written row.
	ErrStoreWrite = errors.New("store write returned no row")

	// ErrStoreUnavailable is the store backends' unavailability sentinel,
	// re-exported so endpoint code can match it alongside the rest of the
	// taxonomy.
	ErrStoreUnavailable = store.ErrUnavailable
)
