package cart

import "sync"

// Store keeps one cart per receiver for the lifetime of the process. Carts
// survive a page reload within a session but are never shared between
// users and are dropped on restart; submitted carts are removed by the
// checkout handler.
type Store struct {
	mu    sync.RWMutex
	carts map[uint64]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uint64]*Cart)}
}

// Get returns the receiver's cart, creating an empty one on first use.
func (s *Store) Get(receiverID uint64) *Cart {
	s.mu.RLock()
	c, ok := s.carts[receiverID]
	s.mu.RUnlock()
	if ok {
		return c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.carts[receiverID]; ok {
		return c
	}
	c = New()
	s.carts[receiverID] = c
	return c
}

// Drop discards the receiver's cart, if any.
func (s *Store) Drop(receiverID uint64) {
	s.mu.Lock()
	delete(s.carts, receiverID)
	s.mu.Unlock()
}
