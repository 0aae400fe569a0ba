// Package render draws a positioned relationship frame as SVG, PNG, DOT,
// JSON or a self-contained HTML page.
package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/msalah0e/relgraph/internal/layout"
	"github.com/msalah0e/relgraph/internal/network"
	"github.com/msalah0e/relgraph/internal/view"
)

// Format is an output encoding.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// Formats lists every supported output format.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT, FormatJSON, FormatHTML}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if f == "gv" {
		return FormatDOT, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (want svg, png, dot, json or html)", s)
}

// FormatFromPath infers the format from a file extension, defaulting to SVG.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatSVG
}

// Scene is everything a renderer needs: positioned nodes and segments with
// their styling and detail payloads, plus the legend and caption.
type Scene struct {
	Title   string        `json:"title"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Year    int           `json:"year"`
	Message string        `json:"message,omitempty"`
	Nodes   []SceneNode   `json:"nodes"`
	Links   []SceneLink   `json:"links"`
	Legend  []LegendEntry `json:"legend"`
}

// SceneNode is a node with its position and style.
type SceneNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Center   bool            `json:"center,omitempty"`
	Relation string          `json:"relation"`
	Color    string          `json:"color"`
	Radius   float64         `json:"radius"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	MinYear  int             `json:"minYear"`
	Events   []network.Event `json:"events"`
}

// SceneLink is an edge with resolved endpoints and style.
type SceneLink struct {
	Source     string          `json:"source"`
	Target     string          `json:"target"`
	SourceName string          `json:"sourceName"`
	TargetName string          `json:"targetName"`
	Relation   string          `json:"relation"`
	Color      string          `json:"color"`
	Broken     bool            `json:"isBroken"`
	X1         float64         `json:"x1"`
	Y1         float64         `json:"y1"`
	X2         float64         `json:"x2"`
	Y2         float64         `json:"y2"`
	Events     []network.Event `json:"events"`
}

// LegendEntry is one category toggle.
type LegendEntry struct {
	Category string `json:"category"`
	Color    string `json:"color"`
	Active   bool   `json:"active"`
}

// Style holds the colors that are not carried by the data.
type Style struct {
	Background  string
	BrokenColor string
	NodeStroke  string
	LabelColor  string
	Labels      bool
}

// DefaultStyle returns the parchment look of the relationship view.
func DefaultStyle() Style {
	return Style{
		Background:  "#F5F1E8",
		BrokenColor: "#CCCCCC",
		NodeStroke:  "#F5F1E8",
		LabelColor:  "#FFFFFF",
		Labels:      true,
	}
}

// NoDataMessage is shown in place of the graph when nothing could be loaded.
const NoDataMessage = "暂无社交关系数据 (no relationship data)"

// FromView captures the current frame of v.
func FromView(v *view.GraphView, title string) Scene {
	opts := layout.DefaultOptions()
	if sim := v.Simulation(); sim != nil {
		opts = sim.Options()
	}
	s := Scene{
		Title:  title,
		Width:  int(opts.Width),
		Height: int(opts.Height),
		Nodes:  []SceneNode{},
		Links:  []SceneLink{},
		Legend: []LegendEntry{},
	}
	if v.Empty() {
		s.Message = NoDataMessage
		return s
	}

	g := v.Graph()
	fs := v.Filter()
	s.Year = fs.Year

	for _, c := range g.Categories() {
		s.Legend = append(s.Legend, LegendEntry{Category: c, Color: categoryColor(g, c), Active: fs.Active(c)})
	}

	frame := v.Frame()
	for _, p := range frame.Nodes {
		n, ok := g.Node(p.ID)
		if !ok {
			continue
		}
		s.Nodes = append(s.Nodes, SceneNode{
			ID:       n.ID,
			Name:     n.Name,
			Center:   n.IsCenter(),
			Relation: n.Relation,
			Color:    n.Color,
			Radius:   n.Radius,
			X:        p.X,
			Y:        p.Y,
			MinYear:  n.EarliestYear,
			Events:   n.Events,
		})
	}

	links := make(map[[2]string]*network.Edge, len(v.Visible().Links))
	for _, e := range v.Visible().Links {
		links[[2]string{e.Source, e.Target}] = e
	}
	for _, seg := range frame.Links {
		e, ok := links[[2]string{seg.Source, seg.Target}]
		if !ok {
			continue
		}
		src, _ := g.Node(seg.Source)
		dst, _ := g.Node(seg.Target)
		s.Links = append(s.Links, SceneLink{
			Source:     seg.Source,
			Target:     seg.Target,
			SourceName: src.Name,
			TargetName: dst.Name,
			Relation:   e.Relation,
			Color:      dst.Color,
			Broken:     e.Broken,
			X1:         seg.X1,
			Y1:         seg.Y1,
			X2:         seg.X2,
			Y2:         seg.Y2,
			Events:     e.Events,
		})
	}
	return s
}

func categoryColor(g *network.Graph, category string) string {
	for _, n := range g.Nodes {
		if !n.IsCenter() && n.Relation == category {
			return n.Color
		}
	}
	return ""
}

// Write renders s to w.
func Write(w io.Writer, s Scene, format Format, style Style) error {
	switch format {
	case FormatSVG:
		return writeSVG(w, s, style)
	case FormatPNG:
		return writePNG(w, s, style)
	case FormatDOT:
		return writeDOT(w, s, style)
	case FormatJSON:
		return writeJSON(w, s)
	case FormatHTML:
		return writeHTML(w, s, style)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// Save renders s to path, inferring the format from the extension when
// format is empty.
func Save(path string, s Scene, format Format, style Style) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if format == "" {
		format = FormatFromPath(path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s, format, style); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- helpers ---------------------------------------------------------------

// parseHex reads "#RRGGBB" or "#RGB". Anything else yields mid gray.
func parseHex(hex string) color.NRGBA {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	var r, g, b uint8
	if len(h) != 6 {
		return color.NRGBA{0x99, 0x99, 0x99, 0xff}
	}
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{0x99, 0x99, 0x99, 0xff}
	}
	return color.NRGBA{r, g, b, 0xff}
}

func linkColor(l SceneLink, style Style) string {
	if l.Broken {
		return style.BrokenColor
	}
	if l.Color == "" {
		return "#999999"
	}
	return l.Color
}

func fontSize(n SceneNode) int {
	if n.Center {
		return 12
	}
	return 11
}
