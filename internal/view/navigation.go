// Package view holds the presentation rules of the contacts shell: list
// labels, search history behaviour and the loading affordances driven by
// navigation state.
package view

import "net/url"

// NavState is the phase of a page transition
type NavState string

const (
	NavIdle       NavState = "idle"
	NavLoading    NavState = "loading"
	NavSubmitting NavState = "submitting"
)

// Navigation describes an in-flight page transition. Location is nil when
// nothing is in flight.
type Navigation struct {
	State    NavState
	Location *url.URL
}

// Idle is the navigation state of a freshly rendered page.
var Idle = Navigation{State: NavIdle}

// Searching reports whether the transition targets a search, i.e. its
// location carries a q parameter.
func (n Navigation) Searching() bool {
	return n.Location != nil && n.Location.Query().Has("q")
}

// DetailLoading reports whether the detail region should fade. Search
// navigations are excluded so live typing doesn't flicker the page.
func (n Navigation) DetailLoading() bool {
	return n.State == NavLoading && !n.Searching()
}

// HistoryMode says whether a search submission pushes a new history entry
// or replaces the current one
type HistoryMode string

const (
	HistoryPush    HistoryMode = "push"
	HistoryReplace HistoryMode = "replace"
)

// SearchHistory returns the history mode for the next search submission
// given the currently loaded query. Only the first search pushes.
func SearchHistory(q *string) HistoryMode {
	if q == nil {
		return HistoryPush
	}
	return HistoryReplace
}
