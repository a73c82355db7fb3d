package odoo

import (
	"sync"

	"odoo_gallery/internal/domain/models"
)

// SessionStore хранит единственную активную сессию. При конкурирующих
// входах выигрывает последний записавший.
type SessionStore struct {
	mu      sync.RWMutex
	current *models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Set(sess models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sess
}

func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current возвращает последнюю зафиксированную сессию.
func (s *SessionStore) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}
