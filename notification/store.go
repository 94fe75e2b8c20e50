package notification

import (
	"fieldjobs/bizerror"
	"sync"

	"github.com/fundwit/go-commons/types"
)

// Store keeps an in-memory inbox per user.
type Store struct {
	mu     sync.RWMutex
	byUser map[types.ID][]Notification
}

func NewStore() *Store {
	return &Store{byUser: map[types.ID][]Notification{}}
}

func (s *Store) Enqueue(n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[n.UserID] = append(s.byUser[n.UserID], n)
	return nil
}

// ListForUser returns the inbox of userId, newest first.
func (s *Store) ListForUser(userId types.ID) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inbox := s.byUser[userId]
	r := make([]Notification, 0, len(inbox))
	for i := len(inbox) - 1; i >= 0; i-- {
		r = append(r, inbox[i])
	}
	return r
}

func (s *Store) UnreadCount(userId types.ID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.byUser[userId] {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *Store) MarkRead(id types.ID, userId types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inbox := s.byUser[userId]
	for i := range inbox {
		if inbox[i].ID == id {
			inbox[i].Read = true
			return nil
		}
	}
	return bizerror.ErrNotFound
}

func (s *Store) MarkAllRead(userId types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inbox := s.byUser[userId]
	for i := range inbox {
		inbox[i].Read = true
	}
}
