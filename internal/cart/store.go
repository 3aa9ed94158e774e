package cart

import (
	"sync"

	"food-storefront/internal/models"
)

// Store is an ordered multiset of items. Re-adding an item appends a second
// line; there is no quantity merge. Every method is atomic.
type Store struct {
	mu    sync.Mutex
	items []models.Item
}

func NewStore() *Store {
	return &Store{}
}

// Add appends item to the end of the cart.
func (s *Store) Add(item models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)
}

// Remove deletes the first line whose ID matches item's ID. It reports
// whether a line was removed; removing an absent item is a no-op.
func (s *Store) Remove(item models.Item) bool {
	return s.RemoveByID(item.ID)
}

func (s *Store) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, stored := range s.items {
		if stored.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a snapshot of the cart in insertion order.
func (s *Store) List() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]models.Item, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
}
