// Package search implements the free-text + facet filter shared by every list
// endpoint. Filtering is stable: results keep the relative order of the input
// and the input slice is never modified.
package search

import "strings"

// Facet is an exact-match criterion applied together with free-text search.
// A facet whose Value is empty is inactive.
type Facet[T any] struct {
	Name  string
	Value string
	Field func(T) string
}

// Active reports whether the facet constrains results.
func (f Facet[T]) Active() bool {
	return f.Value != "" && f.Field != nil
}

// Match reports whether item satisfies the facet. Inactive facets match
// everything.
func (f Facet[T]) Match(item T) bool {
	if !f.Active() {
		return true
	}
	return f.Field(item) == f.Value
}

// Fields returns the searchable text of an item.
type Fields[T any] func(T) []string

// Filter returns the items that pass every active facet and whose searchable
// fields contain query, case-insensitively. An empty query matches every item.
// The result is always a fresh slice, never nil.
func Filter[T any](items []T, query string, fields Fields[T], facets ...Facet[T]) []T {
	needle := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !matchFacets(item, facets) {
			continue
		}
		if needle != "" && !Contains(fields(item), needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Contains reports whether any of the values contains needle. needle must
// already be lower-case.
func Contains(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func matchFacets[T any](item T, facets []Facet[T]) bool {
	for _, f := range facets {
		if !f.Match(item) {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the first item whose key equals id, or -1.
func IndexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}
