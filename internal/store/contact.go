package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no contact has the requested ID.
var ErrNotFound = errors.New("store: contact not found")

// Contact is a single address book entry
type Contact struct {
	ID        string    `json:"id" yaml:"id"`
	First     string    `json:"first" yaml:"first"`
	Last      string    `json:"last" yaml:"last"`
	Favorite  bool      `json:"favorite" yaml:"favorite"`
	Avatar    string    `json:"avatar" yaml:"avatar"`
	GitHub    string    `json:"github" yaml:"github"`
	Notes     string    `json:"notes" yaml:"notes"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
}

// Store persists contacts. Implementations return copies, so callers may
// modify what they get back without affecting stored state.
type Store interface {
	// List returns contacts matching query, or all contacts when query is empty.
	List(ctx context.Context, query string) ([]Contact, error)
	// Get returns the contact with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (Contact, error)
	// Create assigns a fresh ID to c and stores it.
	Create(ctx context.Context, c Contact) (Contact, error)
	// Update replaces the mutable fields of the contact with c.ID.
	Update(ctx context.Context, c Contact) (Contact, error)
	// Delete removes the contact or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Close releases any resources held by the store.
	Close() error
}

// NewID returns a new random contact identifier.
func NewID() string {
	return uuid.NewString()
}

// Matches reports whether c matches the search query. Matching is a
// case-insensitive substring test over the first name, the last name and
// the full name.
func Matches(c Contact, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	first := strings.ToLower(c.First)
	last := strings.ToLower(c.Last)
	full := strings.TrimSpace(first + " " + last)
	return strings.Contains(first, q) || strings.Contains(last, q) || strings.Contains(full, q)
}

// Filter returns the contacts matching query in display order.
func Filter(all []Contact, query string) []Contact {
	out := make([]Contact, 0, len(all))
	for _, c := range all {
		if Matches(c, query) {
			out = append(out, c)
		}
	}
	sortContacts(out)
	return out
}

// sortContacts orders by last name, then creation time
func sortContacts(cs []Contact) {
	sort.SliceStable(cs, func(i, j int) bool {
		li, lj := strings.ToLower(cs[i].Last), strings.ToLower(cs[j].Last)
		if li != lj {
			return li < lj
		}
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.Before(cs[j].CreatedAt)
		}
		return cs[i].ID < cs[j].ID
	})
}
