package metrics

import "sort"

// CategorySummary is one category's counters, labelled with its name.
type CategorySummary struct {
	Name string `json:"name"`
	CategoryMetrics
}

// SummarizeCategories exposes each category in name order. Values pass through unchanged.
func SummarizeCategories(byCategory map[string]CategoryMetrics) []CategorySummary {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CategorySummary, 0, len(names))
	for _, name := range names {
		out = append(out, CategorySummary{Name: name, CategoryMetrics: byCategory[name]})
	}

	return out
}
