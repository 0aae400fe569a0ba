package network

import "fmt"

// NodeDetail is the on-demand payload shown when a node is selected.
type NodeDetail struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Relation     string  `json:"relation"`
	Color        string  `json:"color"`
	EarliestYear int     `json:"minYear"`
	Events       []Event `json:"events"`
}

// LinkDetail is the on-demand payload shown when an edge is selected.
type LinkDetail struct {
	SourceName string  `json:"source"`
	TargetName string  `json:"target"`
	Relation   string  `json:"relation"`
	Broken     bool    `json:"isBroken"`
	Events     []Event `json:"events"`
}

// NodeDetail returns the detail payload for node id.
func (g *Graph) NodeDetail(id string) (NodeDetail, error) {
	n, ok := g.index[id]
	if !ok {
		return NodeDetail{}, fmt.Errorf("node %q: %w", id, ErrNodeNotFound)
	}
	return NodeDetail{
		ID:           n.ID,
		Name:         n.Name,
		Relation:     n.Relation,
		Color:        n.Color,
		EarliestYear: n.EarliestYear,
		Events:       copyEvents(n.Events),
	}, nil
}

// LinkDetail returns the detail payload for the edge between source and
// target, in either direction.
func (g *Graph) LinkDetail(source, target string) (LinkDetail, error) {
	for _, e := range g.Links {
		if (e.Source == source && e.Target == target) || (e.Source == target && e.Target == source) {
			return LinkDetail{
				SourceName: g.index[e.Source].Name,
				TargetName: g.index[e.Target].Name,
				Relation:   e.Relation,
				Broken:     e.Broken,
				Events:     copyEvents(e.Events),
			}, nil
		}
	}
	return LinkDetail{}, fmt.Errorf("link %s-%s: %w", source, target, ErrNodeNotFound)
}

// Find returns the first person whose name matches exactly.
func (g *Graph) Find(name string) (*Node, bool) {
	for _, n := range g.Nodes {
		if !n.IsCenter() && n.Name == name {
			return n, true
		}
	}
	return nil, false
}

func copyEvents(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	return out
}
