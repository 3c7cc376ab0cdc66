package threshold

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrSessionNotFound = errors.New("threshold: session not found")

// InMemorySessionStore keeps the sessions a coordinator is driving, by session ID.
type InMemorySessionStore struct {
	lock     sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (s *InMemorySessionStore) Import(session *Session) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.sessions[session.ID()] = session
	return nil
}

func (s *InMemorySessionStore) Get(ID uuid.UUID) (*Session, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	session, ok := s.sessions[ID]
	if !ok {
		return nil, errors.WithMessagef(ErrSessionNotFound, "session %s", ID)
	}
	return session, nil
}

func (s *InMemorySessionStore) Delete(ID uuid.UUID) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.sessions[ID]; !ok {
		return errors.WithMessagef(ErrSessionNotFound, "session %s", ID)
	}
	delete(s.sessions, ID)
	return nil
}

// Prune removes the sessions that are done and returns how many were removed.
func (s *InMemorySessionStore) Prune() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.State() == StateDone {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
