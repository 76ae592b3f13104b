// Package view derives what the dashboard shows from a fetched item list: the
// visible items, the facet (type) options and per-type counts. Everything here
// is a pure function of its inputs.
package view

import (
	"sort"
	"strings"

	"github.com/user/notecards/internal/content"
)

// All is the filter sentinel that lets every type through.
const All content.Type = "all"

// TypeCount is the number of visible items of one facet.
type TypeCount struct {
	Type  content.Type `json:"type"`
	Count int          `json:"count"`
}

// Stats aggregates the visible list.
type Stats struct {
	Total  int         `json:"total"`
	ByType []TypeCount `json:"byType"`
}

// Count returns the count for t, or 0 if t is not a facet.
func (s Stats) Count(t content.Type) int {
	for _, tc := range s.ByType {
		if tc.Type == t {
			return tc.Count
		}
	}
	return 0
}

// View is the result of Derive.
type View struct {
	Items  []content.Item
	Facets []content.Type
	Stats  Stats
}

// SortByCreatedDesc returns a copy of items ordered newest first. Equal
// timestamps keep their relative order.
func SortByCreatedDesc(items []content.Item) []content.Item {
	out := make([]content.Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Matches reports whether query occurs, case-insensitively, in the title,
// author, note, type, location or url of it. A blank query matches everything.
// Absent optional fields are skipped.
func Matches(it content.Item, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)

	fields := []*string{
		&it.Title,
		it.Author,
		&it.Note,
		(*string)(&it.Type),
		it.Location,
		&it.URL,
	}
	for _, f := range fields {
		if f != nil && strings.Contains(strings.ToLower(*f), q) {
			return true
		}
	}
	return false
}

// PassesType reports whether it survives the type filter.
func PassesType(it content.Item, filter content.Type) bool {
	return filter == All || filter == "" || it.Type == filter
}

// Filter keeps the items that pass both the type filter and the search.
func Filter(items []content.Item, query string, filter content.Type) []content.Item {
	out := make([]content.Item, 0, len(items))
	for _, it := range items {
		if PassesType(it, filter) && Matches(it, query) {
			out = append(out, it)
		}
	}
	return out
}

// Facets returns the distinct types present in items in first-seen order.
func Facets(items []content.Item) []content.Type {
	seen := make(map[content.Type]bool)
	facets := make([]content.Type, 0)
	for _, it := range items {
		if !seen[it.Type] {
			seen[it.Type] = true
			facets = append(facets, it.Type)
		}
	}
	return facets
}

// ComputeStats counts visible per facet in one pass over visible.
func ComputeStats(visible []content.Item, facets []content.Type) Stats {
	counts := make(map[content.Type]int, len(facets))
	for _, it := range visible {
		counts[it.Type]++
	}

	byType := make([]TypeCount, len(facets))
	for i, f := range facets {
		byType[i] = TypeCount{Type: f, Count: counts[f]}
	}
	return Stats{Total: len(visible), ByType: byType}
}

// Derive runs the whole pipeline. Facets come from the unfiltered list so a
// type stays selectable while it is filtered out.
func Derive(items []content.Item, query string, filter content.Type) View {
	sorted := SortByCreatedDesc(items)
	visible := Filter(sorted, query, filter)
	facets := Facets(items)
	return View{
		Items:  visible,
		Facets: facets,
		Stats:  ComputeStats(visible, facets),
	}
}
