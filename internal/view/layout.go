package view

import (
	"strings"

	"github.com/cexll/contacts/internal/store"
)

// Star marks favorite contacts in the sidebar.
const Star = "★"

// ListItem is one sidebar entry
type ListItem struct {
	ID       string
	Label    string // empty when the contact has no name
	Favorite bool
	Active   bool
}

// Named reports whether the item has a label or needs the "No Name"
// placeholder
func (i ListItem) Named() bool {
	return i.Label != ""
}

// Href is the detail page of the item
func (i ListItem) Href() string {
	return "/contacts/" + i.ID
}

// Layout is the render model of the root shell
type Layout struct {
	Items      []ListItem
	Query      string
	History    HistoryMode
	Navigation Navigation
}

// Label returns "First Last", trimmed, or "" if both parts are empty.
func Label(c store.Contact) string {
	if c.First == "" && c.Last == "" {
		return ""
	}
	return strings.TrimSpace(c.First + " " + c.Last)
}

// NewLayout builds the shell model from a load result. activeID marks the
// contact currently shown in the detail region.
func NewLayout(contacts []store.Contact, q *string, activeID string, nav Navigation) Layout {
	items := make([]ListItem, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, ListItem{
			ID:       c.ID,
			Label:    Label(c),
			Favorite: c.Favorite,
			Active:   c.ID == activeID,
		})
	}

	query := ""
	if q != nil {
		query = *q
	}

	return Layout{
		Items:      items,
		Query:      query,
		History:    SearchHistory(q),
		Navigation: nav,
	}
}

// SearchClass is the class of the search input
func (l Layout) SearchClass() string {
	if l.Navigation.Searching() {
		return "loading"
	}
	return ""
}

// DetailClass is the class of the detail region
func (l Layout) DetailClass() string {
	if l.Navigation.DetailLoading() {
		return "loading"
	}
	return ""
}
