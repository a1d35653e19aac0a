package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps contacts in a map with thread-safe operations
type MemoryStore struct {
	mu       sync.RWMutex
	contacts map[string]*Contact
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory contact store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contacts: make(map[string]*Contact),
		now:      time.Now,
	}
}

// List returns matching contacts sorted for display
func (s *MemoryStore) List(_ context.Context, query string) ([]Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		all = append(all, *c)
	}
	return Filter(all, query), nil
}

// Get retrieves a contact by ID
func (s *MemoryStore) Get(_ context.Context, id string) (Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.contacts[id]
	if !exists {
		return Contact{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return *c, nil
}

// Create adds a new contact to the store. A non-empty c.ID is kept so seed
// data can carry stable identifiers.
func (s *MemoryStore) Create(_ context.Context, c Contact) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = NewID()
	}
	if _, exists := s.contacts[c.ID]; exists {
		return Contact{}, fmt.Errorf("contact with ID %s already exists", c.ID)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}

	stored := c
	s.contacts[c.ID] = &stored
	return c, nil
}

// Update overwrites the editable fields of an existing contact
func (s *MemoryStore) Update(_ context.Context, c Contact) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.contacts[c.ID]
	if !exists {
		return Contact{}, fmt.Errorf("update %s: %w", c.ID, ErrNotFound)
	}

	c.CreatedAt = existing.CreatedAt
	*existing = c
	return c, nil
}

// Delete removes a contact
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[id]; !exists {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(s.contacts, id)
	return nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
