package network

import "errors"

// ErrNodeNotFound is returned when an operation names a node id that is not
// part of the graph.
var ErrNodeNotFound = errors.New("node not found")

// CenterRelation is the relation assigned to the center node.
const CenterRelation = "center"

// Event is a single dated entry in a person's relationship history.
type Event struct {
	Time        string `json:"time" yaml:"time"`
	Description string `json:"description" yaml:"description"`
}

// PersonRecord is one input row: a person, their relation to the center
// figure, and the ordered events that describe it.
type PersonRecord struct {
	Name     string  `json:"name" yaml:"name"`
	Relation string  `json:"relation" yaml:"relation"`
	Events   []Event `json:"events" yaml:"events"`
}

// NodeKind distinguishes the center node from person nodes.
type NodeKind int

const (
	KindCenter NodeKind = iota
	KindPerson
)

func (k NodeKind) String() string {
	if k == KindCenter {
		return "center"
	}
	return "person"
}

// MarshalText encodes the kind as "center" or "person".
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is a vertex of the relationship graph. X and Y are written by the
// layout simulator; everything else is fixed at normalization time.
type Node struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Kind         NodeKind `json:"type"`
	Relation     string   `json:"relation"`
	Radius       float64  `json:"radius"`
	Color        string   `json:"color"`
	Events       []Event  `json:"events"`
	EarliestYear int      `json:"minYear"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
}

// IsCenter reports whether n is the center node.
func (n *Node) IsCenter() bool {
	return n.Kind == KindCenter
}

// Edge connects the center node to one person. Endpoints are node ids.
type Edge struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Relation     string  `json:"relation"`
	Events       []Event `json:"events"`
	Broken       bool    `json:"isBroken"`
	EarliestYear int     `json:"minYear"`
}

// Graph is the canonical, unfiltered relationship graph.
type Graph struct {
	Nodes []*Node
	Links []*Edge

	center     *Node
	categories []string
	index      map[string]*Node
	minYear    int
	maxYear    int
}

// Center returns the center node.
func (g *Graph) Center() *Node {
	return g.center
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Categories returns the distinct person relations in order of first
// appearance.
func (g *Graph) Categories() []string {
	out := make([]string, len(g.categories))
	copy(out, g.categories)
	return out
}

// YearRange returns the [min, max] year horizon the graph was built with.
func (g *Graph) YearRange() (int, int) {
	return g.minYear, g.maxYear
}

// People returns the number of person nodes.
func (g *Graph) People() int {
	return len(g.Nodes) - 1
}

// Visible is the filtered subgraph derived from a Graph.
type Visible struct {
	Nodes []*Node `json:"nodes"`
	Links []*Edge `json:"links"`
}

// HasNode reports whether id is among the visible nodes.
func (v Visible) HasNode(id string) bool {
	for _, n := range v.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
