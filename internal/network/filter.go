package network

import "sort"

// FilterState is the set of active categories plus the year threshold.
type FilterState struct {
	Year       int
	categories map[string]bool
	minYear    int
	maxYear    int
}

// NewFilterState returns the initial state for g: every category active and
// the threshold at the graph's final year.
func NewFilterState(g *Graph) FilterState {
	fs := FilterState{
		Year:       g.maxYear,
		categories: make(map[string]bool, len(g.categories)),
		minYear:    g.minYear,
		maxYear:    g.maxYear,
	}
	for _, c := range g.categories {
		fs.categories[c] = true
	}
	return fs
}

// Active reports whether category is enabled.
func (fs FilterState) Active(category string) bool {
	return fs.categories[category]
}

// ActiveCategories returns the enabled categories, sorted.
func (fs FilterState) ActiveCategories() []string {
	out := make([]string, 0, len(fs.categories))
	for c, on := range fs.categories {
		if on {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy that shares no state with fs.
func (fs FilterState) Clone() FilterState {
	out := fs
	out.categories = make(map[string]bool, len(fs.categories))
	for c, on := range fs.categories {
		out.categories[c] = on
	}
	return out
}

// SetActive enables or disables category.
func (fs *FilterState) SetActive(category string, on bool) {
	if fs.categories == nil {
		fs.categories = make(map[string]bool)
	}
	fs.categories[category] = on
}

// Toggle flips category and returns its new state.
func (fs *FilterState) Toggle(category string) bool {
	on := !fs.Active(category)
	fs.SetActive(category, on)
	return on
}

// SetAll enables or disables every known category.
func (fs *FilterState) SetAll(on bool) {
	for c := range fs.categories {
		fs.categories[c] = on
	}
}

// SetYear moves the threshold, clamped into the graph's horizon.
func (fs *FilterState) SetYear(year int) {
	if fs.minYear != 0 || fs.maxYear != 0 {
		if year < fs.minYear {
			year = fs.minYear
		}
		if year > fs.maxYear {
			year = fs.maxYear
		}
	}
	fs.Year = year
}

// ApplyFilters selects the subgraph of g visible under fs. The center node is
// always visible. Canonical order is preserved and g is not modified.
func ApplyFilters(g *Graph, fs FilterState) Visible {
	vis := Visible{
		Nodes: make([]*Node, 0, len(g.Nodes)),
		Links: make([]*Edge, 0, len(g.Links)),
	}
	shown := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.IsCenter() || (n.EarliestYear <= fs.Year && fs.Active(n.Relation)) {
			vis.Nodes = append(vis.Nodes, n)
			shown[n.ID] = true
		}
	}

	// Edge category is re-checked on its own so the rule still holds if edges
	// ever stop mirroring their person endpoint.
	for _, e := range g.Links {
		if shown[e.Source] && shown[e.Target] && e.EarliestYear <= fs.Year && fs.Active(e.Relation) {
			vis.Links = append(vis.Links, e)
		}
	}
	return vis
}
