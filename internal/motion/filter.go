package motion

import (
	"errors"
	"fmt"
)

// AllCategory is the filter key that selects the whole catalog.
const AllCategory = "all"

// ErrUnknownCategory is returned when a filter key is neither "all" nor a
// category present in the catalog.
var ErrUnknownCategory = errors.New("motion: unknown category")

// Tab pairs a displayed label with the filter key it selects. The two are
// configured independently and the label never affects filtering.
type Tab struct {
	Label string `json:"label" yaml:"label"`
	Key   string `json:"key" yaml:"key"`
}

// Categorized is a catalog item the store can filter.
type Categorized interface {
	FilterID() string
	FilterCategory() string
}

// FilterStore holds the active category of a catalog and the derived
// visible subset.
type FilterStore[T Categorized] struct {
	items      []T
	tabs       []Tab
	categories []string
	known      map[string]bool

	active    string
	visible   []T
	listeners []func(visible []T)
}

// NewFilterStore builds a store over items in catalog order. The initial
// category is AllCategory.
func NewFilterStore[T Categorized](items []T, tabs []Tab) *FilterStore[T] {
	s := &FilterStore[T]{
		items:  append([]T(nil), items...),
		tabs:   append([]Tab(nil), tabs...),
		known:  map[string]bool{AllCategory: true},
		active: AllCategory,
	}
	s.categories = []string{AllCategory}
	for _, it := range s.items {
		c := it.FilterCategory()
		if !s.known[c] {
			s.known[c] = true
			s.categories = append(s.categories, c)
		}
	}
	s.visible = s.derive(AllCategory)
	return s
}

// Filter returns the subsequence of items whose category is key, or all
// items for AllCategory.
func Filter[T Categorized](items []T, key string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if key == AllCategory || it.FilterCategory() == key {
			out = append(out, it)
		}
	}
	return out
}

func (s *FilterStore[T]) derive(key string) []T { return Filter(s.items, key) }

// Select makes key the active category. It reports whether anything
// changed; selecting the active key is a no-op and notifies nobody.
func (s *FilterStore[T]) Select(key string) (bool, error) {
	if !s.known[key] {
		return false, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	if key == s.active {
		return false, nil
	}
	s.active = key
	s.visible = s.derive(key)
	for _, fn := range s.listeners {
		fn(s.Visible())
	}
	return true, nil
}

// OnChange registers fn to run synchronously after every change.
func (s *FilterStore[T]) OnChange(fn func(visible []T)) {
	s.listeners = append(s.listeners, fn)
}

func (s *FilterStore[T]) Active() string { return s.active }

// Visible returns a copy of the visible items.
func (s *FilterStore[T]) Visible() []T { return append([]T(nil), s.visible...) }

// VisibleIDs returns the ids of the visible items in order.
func (s *FilterStore[T]) VisibleIDs() []string {
	ids := make([]string, len(s.visible))
	for i, it := range s.visible {
		ids[i] = it.FilterID()
	}
	return ids
}

// Categories lists the states of the store: AllCategory followed by each
// catalog category in first-seen order.
func (s *FilterStore[T]) Categories() []string { return append([]string(nil), s.categories...) }

// Tabs returns the configured tab table unchanged.
func (s *FilterStore[T]) Tabs() []Tab { return append([]Tab(nil), s.tabs...) }

// UnmatchedTabs returns tabs whose key names no catalog category.
func (s *FilterStore[T]) UnmatchedTabs() []Tab {
	var out []Tab
	for _, t := range s.tabs {
		if !s.known[t.Key] {
			out = append(out, t)
		}
	}
	return out
}
