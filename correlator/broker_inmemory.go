package correlator

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type pendingAuth struct {
	userID    int64
	createdAt time.Time
}

// InMemoryBroker is a thread-safe in-memory implementation of Broker
type InMemoryBroker struct {
	mu       sync.Mutex
	byHandle map[string]pendingAuth
	byUser   map[int64]string
}

// NewInMemoryBroker creates a new in-memory auth correlation broker
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		byHandle: make(map[string]pendingAuth),
		byUser:   make(map[int64]string),
	}
}

// Begin mints a fresh handle for the user, replacing any outstanding one
func (b *InMemoryBroker) Begin(userID int64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if previous, ok := b.byUser[userID]; ok {
		delete(b.byHandle, previous)
	}

	handle := uuid.New().String()
	b.byHandle[handle] = pendingAuth{userID: userID, createdAt: NowTimeFunc()}
	b.byUser[userID] = handle
	return handle, nil
}

// Resolve consumes a handle and returns the user who created it
func (b *InMemoryBroker) Resolve(handle string) (int64, error) {
	if handle == "" {
		return 0, ErrUnknownHandle
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	pending, ok := b.byHandle[handle]
	if !ok {
		return 0, ErrUnknownHandle
	}

	delete(b.byHandle, handle)
	delete(b.byUser, pending.userID)
	return pending.userID, nil
}
