package conversation

import "sync"

// Store keeps one Session per user. Implementations must support concurrent
// reads and exclusive mutation; serializing events of a single user is the
// Machine's job, not the store's.
type Store interface {
	Get(userID int64) (*Session, bool)
	Put(session *Session)
	Delete(userID int64)
}

// InMemoryStore is a thread-safe in-memory implementation of Store. Sessions
// do not survive a process restart; a restart resets every conversation to
// its entry state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[int64]*Session),
	}
}

// Get retrieves the session for a user
func (s *InMemoryStore) Get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	return session.Clone(), true
}

// Put stores or replaces the session for its user
func (s *InMemoryStore) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.UserID] = session.Clone()
}

// Delete removes the session for a user
func (s *InMemoryStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}
