package tokenstore

import (
	"errors"
	"sync"
)

// InMemoryRepo is a thread-safe in-memory implementation of Repo. Token pairs
// do not survive a process restart; a restart is equivalent to every user
// being logged out.
type InMemoryRepo struct {
	mu    sync.RWMutex
	pairs map[int64]*Pair
}

// NewInMemoryRepo creates a new in-memory token pair repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		pairs: make(map[int64]*Pair),
	}
}

// Get retrieves the token pair stored for a user
func (r *InMemoryRepo) Get(userID int64) (*Pair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pair, ok := r.pairs[userID]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy to prevent external modifications
	pairCopy := *pair
	return &pairCopy, nil
}

// Upsert stores or replaces the token pair for a user
func (r *InMemoryRepo) Upsert(userID int64, pair *Pair) error {
	if pair == nil {
		return errors.New("pair cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pairCopy := *pair
	r.pairs[userID] = &pairCopy
	return nil
}

// Delete removes the token pair for a user. Deleting an absent pair is not an error.
func (r *InMemoryRepo) Delete(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pairs, userID)
	return nil
}

// UserIDs lists every user that currently holds a token pair
func (r *InMemoryRepo) UserIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.pairs))
	for id := range r.pairs {
		ids = append(ids, id)
	}
	return ids
}
