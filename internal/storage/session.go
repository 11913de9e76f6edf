package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

// SessionStorage provides in-memory storage for quiz sessions by chat ID.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]entities.Session
	now      func() time.Time
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]entities.Session),
		now:      time.Now,
	}
}

// Put saves the session of a chat, replacing the previous one, and stamps UpdatedAt.
func (s *SessionStorage) Put(chatID int64, session entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.UpdatedAt = s.now()
	s.sessions[chatID] = session.Clone()
}

// Get retrieves the session of a chat.
func (s *SessionStorage) Get(chatID int64) (entities.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[chatID]
	if !ok {
		return entities.Session{}, false
	}
	return session.Clone(), true
}

// Delete removes the session of a chat.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Len returns the number of stored sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// DeleteIdle removes sessions not updated within ttl and returns how many were removed.
func (s *SessionStorage) DeleteIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for chatID, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, chatID)
			removed++
		}
	}
	return removed
}
