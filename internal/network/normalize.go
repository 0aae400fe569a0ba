package network

import (
	"fmt"
	"strings"
)

// ColorLookup resolves a relation category to a color token.
type ColorLookup func(category string) (string, bool)

// Palette is a ColorLookup backed by a fixed map.
func Palette(colors map[string]string) ColorLookup {
	return func(category string) (string, bool) {
		c, ok := colors[category]
		return c, ok && c != ""
	}
}

// Options controls how records are turned into a Graph.
type Options struct {
	MinYear       int
	MaxYear       int
	CenterID      string
	CenterName    string
	CenterRadius  float64
	CenterColor   string
	PersonRadius  float64
	Colors        ColorLookup
	FallbackColor string
	BrokenMarkers []string
}

// DefaultBrokenMarkers are the description fragments that mark a severed
// relationship.
var DefaultBrokenMarkers = []string{"severed", "correspondence ended", "破裂", "断交"}

// DefaultOptions returns the horizon and styling used when no config is given.
func DefaultOptions() Options {
	return Options{
		MinYear:       1912,
		MaxYear:       1926,
		CenterID:      "center",
		CenterName:    "center",
		CenterRadius:  18,
		CenterColor:   "#C9361D",
		PersonRadius:  11,
		FallbackColor: "#8B7D6B",
		BrokenMarkers: append([]string(nil), DefaultBrokenMarkers...),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinYear == 0 && o.MaxYear == 0 {
		o.MinYear, o.MaxYear = d.MinYear, d.MaxYear
	}
	if o.MaxYear < o.MinYear {
		o.MinYear, o.MaxYear = o.MaxYear, o.MinYear
	}
	if o.CenterID == "" {
		o.CenterID = d.CenterID
	}
	if o.CenterName == "" {
		o.CenterName = d.CenterName
	}
	if o.CenterRadius <= 0 {
		o.CenterRadius = d.CenterRadius
	}
	if o.CenterColor == "" {
		o.CenterColor = d.CenterColor
	}
	if o.PersonRadius <= 0 {
		o.PersonRadius = d.PersonRadius
	}
	if o.FallbackColor == "" {
		o.FallbackColor = d.FallbackColor
	}
	if o.BrokenMarkers == nil {
		o.BrokenMarkers = d.BrokenMarkers
	}
	return o
}

// PersonID returns the node id for the record at index i.
func PersonID(i int) string {
	return fmt.Sprintf("person_%d", i)
}

// Normalize builds the canonical graph from records. It never fails: empty
// input yields a graph holding only the center node, and unknown categories
// fall back to opts.FallbackColor. records is not modified.
func Normalize(records []PersonRecord, opts Options) *Graph {
	opts = opts.withDefaults()

	center := &Node{
		ID:           opts.CenterID,
		Name:         opts.CenterName,
		Kind:         KindCenter,
		Relation:     CenterRelation,
		Radius:       opts.CenterRadius,
		Color:        opts.CenterColor,
		Events:       []Event{},
		EarliestYear: opts.MinYear,
	}

	g := &Graph{
		Nodes:   make([]*Node, 0, len(records)+1),
		Links:   make([]*Edge, 0, len(records)),
		center:  center,
		index:   make(map[string]*Node, len(records)+1),
		minYear: opts.MinYear,
		maxYear: opts.MaxYear,
	}
	g.Nodes = append(g.Nodes, center)
	g.index[center.ID] = center

	seen := make(map[string]bool)
	for i, rec := range records {
		events := make([]Event, len(rec.Events))
		copy(events, rec.Events)
		earliest := EarliestYear(events, opts.MaxYear)

		node := &Node{
			ID:           PersonID(i),
			Name:         rec.Name,
			Kind:         KindPerson,
			Relation:     rec.Relation,
			Radius:       opts.PersonRadius,
			Color:        resolveColor(opts, rec.Relation),
			Events:       events,
			EarliestYear: earliest,
		}
		g.Nodes = append(g.Nodes, node)
		g.index[node.ID] = node

		g.Links = append(g.Links, &Edge{
			Source:       center.ID,
			Target:       node.ID,
			Relation:     rec.Relation,
			Events:       events,
			Broken:       IsBroken(events, opts.BrokenMarkers),
			EarliestYear: earliest,
		})

		if !seen[rec.Relation] {
			seen[rec.Relation] = true
			g.categories = append(g.categories, rec.Relation)
		}
	}
	return g
}

func resolveColor(opts Options, category string) string {
	if opts.Colors != nil && category != "" {
		if c, ok := opts.Colors(category); ok {
			return c
		}
	}
	return opts.FallbackColor
}

// IsBroken reports whether any event description contains one of markers.
func IsBroken(events []Event, markers []string) bool {
	for _, ev := range events {
		for _, m := range markers {
			if m != "" && strings.Contains(ev.Description, m) {
				return true
			}
		}
	}
	return false
}
