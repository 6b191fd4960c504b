package tokenstore

import "errors"

// ErrNotFound is returned when no token pair is stored for a user. Absence
// means the user has not completed authentication since the last logout or
// forced re-authentication.
var ErrNotFound = errors.New("token pair not found")

type Repo interface {
	Get(userID int64) (*Pair, error)
	Upsert(userID int64, pair *Pair) error
	Delete(userID int64) error
	UserIDs() []int64
}
