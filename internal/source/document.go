package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/msalah0e/relgraph/internal/network"
)

const personType = "person"

// Document is the on-disk graph shape: a nodes array (center plus people)
// and the derived links.
type Document struct {
	Nodes []DocNode `json:"nodes" yaml:"nodes"`
	Links []DocLink `json:"links,omitempty" yaml:"links,omitempty"`
}

// DocNode is one entry of Document.Nodes.
type DocNode struct {
	ID       string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string          `json:"name" yaml:"name"`
	Type     string          `json:"type" yaml:"type"`
	Relation string          `json:"relation" yaml:"relation"`
	Events   []network.Event `json:"events" yaml:"events"`
	MinYear  int             `json:"minYear,omitempty" yaml:"minYear,omitempty"`
}

// DocLink is one entry of Document.Links.
type DocLink struct {
	Source   string          `json:"source" yaml:"source"`
	Target   string          `json:"target" yaml:"target"`
	Relation string          `json:"relation" yaml:"relation"`
	Events   []network.Event `json:"events" yaml:"events"`
	IsBroken bool            `json:"isBroken" yaml:"isBroken"`
	MinYear  int             `json:"minYear" yaml:"minYear"`
}

var errNoNodes = errors.New("document has no nodes array")

// Records extracts the person entries of the document.
func (d *Document) Records() []network.PersonRecord {
	var out []network.PersonRecord
	for _, n := range d.Nodes {
		if n.Type != personType {
			continue
		}
		events := n.Events
		if events == nil {
			events = []network.Event{}
		}
		out = append(out, network.PersonRecord{Name: n.Name, Relation: n.Relation, Events: events})
	}
	return out
}

func decodeJSON(data []byte) ([]network.PersonRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// A bare array of records, as produced by older exports.
		var records []network.PersonRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("parse record array: %w", err)
		}
		return records, nil
	}

	var doc struct {
		Nodes *[]DocNode `json:"nodes"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Nodes == nil {
		return nil, errNoNodes
	}
	d := Document{Nodes: *doc.Nodes}
	return d.Records(), nil
}

func decodeYAML(data []byte) ([]network.PersonRecord, error) {
	var doc struct {
		Nodes *[]DocNode `yaml:"nodes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml document: %w", err)
	}
	if doc.Nodes == nil {
		return nil, errNoNodes
	}
	d := Document{Nodes: *doc.Nodes}
	return d.Records(), nil
}

// NewDocument converts a canonical graph back into the on-disk shape.
func NewDocument(g *network.Graph) Document {
	doc := Document{
		Nodes: make([]DocNode, 0, len(g.Nodes)),
		Links: make([]DocLink, 0, len(g.Links)),
	}
	for _, n := range g.Nodes {
		doc.Nodes = append(doc.Nodes, DocNode{
			ID:       n.ID,
			Name:     n.Name,
			Type:     n.Kind.String(),
			Relation: n.Relation,
			Events:   n.Events,
			MinYear:  n.EarliestYear,
		})
	}
	for _, e := range g.Links {
		doc.Links = append(doc.Links, DocLink{
			Source:   e.Source,
			Target:   e.Target,
			Relation: e.Relation,
			Events:   e.Events,
			IsBroken: e.Broken,
			MinYear:  e.EarliestYear,
		})
	}
	return doc
}

// Encode writes g as a Document in JSON or YAML.
func Encode(w io.Writer, g *network.Graph, format Format) error {
	doc := NewDocument(g)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		return fmt.Errorf("unsupported output format %q (want json or yaml)", format)
	}
}
