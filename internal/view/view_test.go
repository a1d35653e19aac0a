package view

import (
	"net/url"
	"testing"

	"github.com/cexll/contacts/internal/store"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) failed: %v", raw, err)
	}
	return u
}

func TestNavigation_LoadingAffordance(t *testing.T) {
	tests := []struct {
		name          string
		nav           Navigation
		searching     bool
		detailLoading bool
	}{
		{"idle", Idle, false, false},
		{"loading contact", Navigation{State: NavLoading, Location: mustURL(t, "/contacts/1")}, false, true},
		{"loading search", Navigation{State: NavLoading, Location: mustURL(t, "/?q=ad")}, true, false},
		{"loading empty search", Navigation{State: NavLoading, Location: mustURL(t, "/?q=")}, true, false},
		{"submitting", Navigation{State: NavSubmitting, Location: mustURL(t, "/contacts/1/edit")}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.nav.Searching(); got != tt.searching {
				t.Errorf("Searching() = %v, want %v", got, tt.searching)
			}
			if got := tt.nav.DetailLoading(); got != tt.detailLoading {
				t.Errorf("DetailLoading() = %v, want %v", got, tt.detailLoading)
			}
		})
	}
}

func TestSearchHistory(t *testing.T) {
	empty := ""
	ada := "ada"

	if got := SearchHistory(nil); got != HistoryPush {
		t.Errorf("SearchHistory(nil) = %s, want push", got)
	}
	if got := SearchHistory(&empty); got != HistoryReplace {
		t.Errorf("SearchHistory(\"\") = %s, want replace", got)
	}
	if got := SearchHistory(&ada); got != HistoryReplace {
		t.Errorf("SearchHistory(ada) = %s, want replace", got)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		contact store.Contact
		want    string
	}{
		{store.Contact{First: "Ada", Last: "Lovelace"}, "Ada Lovelace"},
		{store.Contact{First: "Ada"}, "Ada"},
		{store.Contact{Last: "Lovelace"}, "Lovelace"},
		{store.Contact{}, ""},
	}

	for _, tt := range tests {
		if got := Label(tt.contact); got != tt.want {
			t.Errorf("Label(%+v) = %q, want %q", tt.contact, got, tt.want)
		}
	}
}

func TestNewLayout(t *testing.T) {
	contacts := []store.Contact{
		{ID: "1", First: "Ada", Last: "Lovelace", Favorite: true},
		{ID: "2"},
	}
	q := "a"

	layout := NewLayout(contacts, &q, "2", Navigation{State: NavLoading, Location: mustURL(t, "/?q=ab")})

	if len(layout.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(layout.Items))
	}
	if !layout.Items[0].Favorite || !layout.Items[0].Named() {
		t.Errorf("Unexpected first item: %+v", layout.Items[0])
	}
	if layout.Items[1].Named() || !layout.Items[1].Active {
		t.Errorf("Unexpected second item: %+v", layout.Items[1])
	}
	if layout.Items[0].Href() != "/contacts/1" {
		t.Errorf("Href() = %s, want /contacts/1", layout.Items[0].Href())
	}
	if layout.Query != "a" || layout.History != HistoryReplace {
		t.Errorf("Query/History = %q/%s", layout.Query, layout.History)
	}
	if layout.SearchClass() != "loading" || layout.DetailClass() != "" {
		t.Errorf("SearchClass/DetailClass = %q/%q", layout.SearchClass(), layout.DetailClass())
	}

	idle := NewLayout(nil, nil, "", Idle)
	if idle.Query != "" || idle.History != HistoryPush {
		t.Errorf("Query/History = %q/%s", idle.Query, idle.History)
	}
}
