package network

// CategoryStats summarizes the people in one relation category.
type CategoryStats struct {
	Category string `json:"category"`
	Color    string `json:"color"`
	People   int    `json:"people"`
	Broken   int    `json:"broken"`
	Earliest int    `json:"earliest"`
}

// Stats holds summary counts for a graph.
type Stats struct {
	People     int             `json:"people"`
	Broken     int             `json:"broken"`
	Events     int             `json:"events"`
	MinYear    int             `json:"minYear"`
	MaxYear    int             `json:"maxYear"`
	Categories []CategoryStats `json:"categories"`
}

// Stats counts people, events and severed relations, overall and per
// category. Categories appear in first-appearance order.
func (g *Graph) Stats() Stats {
	s := Stats{MinYear: g.minYear, MaxYear: g.maxYear}
	byCategory := make(map[string]int, len(g.categories))
	for _, c := range g.categories {
		byCategory[c] = len(s.Categories)
		s.Categories = append(s.Categories, CategoryStats{Category: c, Earliest: g.maxYear})
	}

	for _, n := range g.Nodes {
		if n.IsCenter() {
			continue
		}
		s.People++
		s.Events += len(n.Events)
		cs := &s.Categories[byCategory[n.Relation]]
		cs.People++
		if cs.Color == "" {
			cs.Color = n.Color
		}
		cs.Earliest = min(cs.Earliest, n.EarliestYear)
	}
	for _, e := range g.Links {
		if e.Broken {
			s.Broken++
			s.Categories[byCategory[e.Relation]].Broken++
		}
	}
	return s
}
