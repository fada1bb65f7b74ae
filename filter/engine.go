// ABOUTME: Filter engine composing a search term with equality facets
// ABOUTME: Produces predicates and distinct facet options over typed collections

package filter

import (
	"sort"
	"strings"
)

// Engine matches entities of type T against a search term and facet filters.
type Engine[T any] struct {
	search []func(T) string
	facets map[string]func(T) []string
}

// New creates an empty engine. With no search fields every non-empty term misses.
func New[T any]() *Engine[T] {
	return &Engine[T]{facets: make(map[string]func(T) []string)}
}

// Search adds a field the search term is matched against.
func (e *Engine[T]) Search(get func(T) string) *Engine[T] {
	e.search = append(e.search, get)
	return e
}

// Facet adds a single-valued facet.
func (e *Engine[T]) Facet(key string, get func(T) string) *Engine[T] {
	e.facets[key] = func(v T) []string { return []string{get(v)} }
	return e
}

// SetFacet adds a set-valued facet; a filter value matches when it is a member.
func (e *Engine[T]) SetFacet(key string, get func(T) []string) *Engine[T] {
	e.facets[key] = get
	return e
}

// Matches reports whether entity satisfies the search term and every facet.
// An empty term or facet value is vacuously satisfied. A non-empty value for
// a facet the engine does not know never matches.
func (e *Engine[T]) Matches(entity T, term string, facets map[string]string) bool {
	if !e.matchesSearch(entity, term) {
		return false
	}
	for key, want := range facets {
		if want == "" {
			continue
		}
		get, ok := e.facets[key]
		if !ok || !contains(get(entity), want) {
			return false
		}
	}
	return true
}

func (e *Engine[T]) matchesSearch(entity T, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, get := range e.search {
		if strings.Contains(strings.ToLower(get(entity)), needle) {
			return true
		}
	}
	return false
}

// Predicate binds a term and facets into a reusable predicate.
func (e *Engine[T]) Predicate(term string, facets map[string]string) func(T) bool {
	return func(entity T) bool {
		return e.Matches(entity, term, facets)
	}
}

// Apply returns the items that match, preserving order.
func (e *Engine[T]) Apply(items []T, term string, facets map[string]string) []T {
	keep := e.Predicate(term, facets)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Options returns the distinct non-empty values of a facet, sorted.
func (e *Engine[T]) Options(items []T, key string) []string {
	get, ok := e.facets[key]
	if !ok {
		return []string{}
	}

	seen := make(map[string]bool)
	options := []string{}
	for _, item := range items {
		for _, v := range get(item) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			options = append(options, v)
		}
	}
	sort.Strings(options)
	return options
}

// FacetKeys lists the engine's facets, sorted.
func (e *Engine[T]) FacetKeys() []string {
	keys := make([]string, 0, len(e.facets))
	for k := range e.facets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
