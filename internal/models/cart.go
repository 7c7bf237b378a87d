package models

// Filter is the active catalog filter: FilterAll or a Category value
type Filter string

// FilterAll shows every product regardless of category
const FilterAll Filter = "All"

// Filters lists the filter options in display order
func Filters() []Filter {
	filters := make([]Filter, 0, len(Categories)+1)
	filters = append(filters, FilterAll)
	for _, c := range Categories {
		filters = append(filters, Filter(c))
	}
	return filters
}

// CartEntry is a committed (product, count) pair
type CartEntry struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}
