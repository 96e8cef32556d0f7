// Package search implements the free-text matching used by the task and
// project filters: a case-insensitive substring scan across an entity's
// text fields.
package search

import "strings"

// Searchable exposes the text fields an entity contributes to free-text
// search. Tasks and projects implement this over title/name, description,
// notes and tags.
type Searchable interface {
	SearchFields() []string
}

// Options configures a match.
type Options struct {
	// Query is the term to look for. An empty query matches everything.
	Query string

	// CaseSensitive disables the default case folding.
	CaseSensitive bool
}

// Matches reports whether any of the entity's search fields contain the
// query.
func Matches(opts Options, s Searchable) bool {
	if opts.Query == "" {
		return true
	}
	query := opts.Query
	if !opts.CaseSensitive {
		query = strings.ToLower(query)
	}
	for _, field := range s.SearchFields() {
		if field == "" {
			continue
		}
		if !opts.CaseSensitive {
			field = strings.ToLower(field)
		}
		if strings.Contains(field, query) {
			return true
		}
	}
	return false
}

// Filter returns the elements of items matching the query, preserving order.
func Filter[T Searchable](opts Options, items []T) []T {
	if opts.Query == "" {
		return items
	}
	var matched []T
	for _, item := range items {
		if Matches(opts, item) {
			matched = append(matched, item)
		}
	}
	return matched
}
