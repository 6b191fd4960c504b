// Package correlator links an external authentication callback to the user
// who requested it. Each handle is an opaque single-use token embedded in the
// login link shown to the user; the identity provider echoes it back on the
// callback, where it is resolved exactly once.
package correlator

import "errors"

// ErrUnknownHandle is returned when a handle is unknown or was already
// consumed. The callback presenting it must be treated as failed.
var ErrUnknownHandle = errors.New("unknown or already consumed handle")

type Broker interface {
	// Begin mints a fresh unguessable handle for the user. Any handle
	// previously issued to the same user is invalidated, since the
	// conversation only tracks the latest one.
	Begin(userID int64) (string, error)

	// Resolve exchanges a handle for the user who created it. Resolution is
	// destructive: a second Resolve with the same handle fails with
	// ErrUnknownHandle.
	Resolve(handle string) (int64, error)
}
