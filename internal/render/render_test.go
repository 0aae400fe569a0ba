package render

import (
	"bytes"
	"encoding/xml"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/msalah0e/relgraph/internal/layout"
	"github.com/msalah0e/relgraph/internal/network"
	"github.com/msalah0e/relgraph/internal/source"
	"github.com/msalah0e/relgraph/internal/view"
)

func scene(t *testing.T) Scene {
	t.Helper()
	opts := view.Options{
		Network:   network.DefaultOptions(),
		Layout:    layout.DefaultOptions(),
		Container: view.FixedSize{Width: 640, Height: 480},
	}
	opts.Network.Colors = network.Palette(map[string]string{"friend": "#5F7156", "kin": "#B44C43"})
	v := view.New(opts)
	v.Load(source.LoadedResult([]network.PersonRecord{
		{Name: "A", Relation: "friend", Events: []network.Event{{Time: "1913", Description: "introduced"}}},
		{Name: "B <&>", Relation: "kin", Events: []network.Event{{Time: "1920", Description: "severed ties"}}},
	}))
	return FromView(v, "test graph")
}

func TestFromView(t *testing.T) {
	s := scene(t)

	if s.Width != 640 || s.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", s.Width, s.Height)
	}
	if s.Year != 1926 {
		t.Errorf("expected year 1926, got %d", s.Year)
	}
	if len(s.Nodes) != 3 || len(s.Links) != 2 {
		t.Fatalf("expected 3 nodes and 2 links, got %d and %d", len(s.Nodes), len(s.Links))
	}
	if !s.Nodes[0].Center {
		t.Error("first node should be the center")
	}
	broken := s.Links[1]
	if !broken.Broken || broken.TargetName != "B <&>" || broken.Color != "#B44C43" {
		t.Errorf("unexpected link %+v", broken)
	}
	if len(s.Legend) != 2 || s.Legend[0].Category != "friend" || s.Legend[0].Color != "#5F7156" {
		t.Errorf("unexpected legend %+v", s.Legend)
	}
	for _, l := range s.Links {
		src := s.Nodes[0]
		if l.X1 != src.X || l.Y1 != src.Y {
			t.Errorf("segment %s-%s should start at the center", l.Source, l.Target)
		}
	}
}

func TestFromEmptyView(t *testing.T) {
	v := view.New(view.Options{})
	v.Load(source.Unavailable("x.json", os.ErrNotExist))

	s := FromView(v, "")
	if s.Message != NoDataMessage {
		t.Errorf("expected placeholder message, got %q", s.Message)
	}
	if s.Width != 800 || s.Height != 600 {
		t.Errorf("expected default canvas, got %dx%d", s.Width, s.Height)
	}

	var buf bytes.Buffer
	if err := Write(&buf, s, FormatSVG, DefaultStyle()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "暂无社交关系数据") {
		t.Error("svg should carry the placeholder")
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, scene(t), FormatSVG, DefaultStyle()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	var doc interface{}
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("SVG is not valid XML: %v\n%s", err, out)
	}
	if !strings.Contains(out, "<svg") {
		t.Error("missing svg root")
	}
	if strings.Count(out, "<circle") < 3 {
		t.Error("expected a circle per node")
	}
	if !strings.Contains(out, "stroke-dasharray:4,4") {
		t.Error("broken link should be dashed")
	}
	if !strings.Contains(out, "stroke:#CCCCCC") {
		t.Error("broken link should be gray")
	}
	if !strings.Contains(out, "B &lt;&amp;&gt;") {
		t.Error("names should be escaped")
	}
}

func TestSVGWithoutLabels(t *testing.T) {
	style := DefaultStyle()
	style.Labels = false
	var buf bytes.Buffer
	if err := Write(&buf, scene(t), FormatSVG, style); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "pointer-events:none") {
		t.Error("labels should be omitted")
	}
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, scene(t), FormatPNG, DefaultStyle()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("expected 640x480, got %v", b)
	}
}

func TestDOT(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, scene(t), FormatDOT, DefaultStyle()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "graph relgraph {") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, `"center" -- "person_1"`) {
		t.Error("missing center edge")
	}
	if strings.Count(out, "style=dashed") != 1 {
		t.Error("exactly one edge should be dashed")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, scene(t), FormatJSON, DefaultStyle()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var back Scene
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Nodes) != 3 || back.Links[1].Events[0].Description != "severed ties" {
		t.Errorf("json lost data: %+v", back)
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, scene(t), FormatHTML, DefaultStyle()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<?xml") {
		t.Error("inline svg should not carry an xml declaration")
	}
	for _, want := range []string{"<!DOCTYPE html>", "<svg", "const SCENE=", "<title>test graph</title>", "severed ties"} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestSaveInfersFormat(t *testing.T) {
	dir := t.TempDir()
	s := scene(t)

	for _, name := range []string{"out.svg", "out.png", "out.dot", "nested/out.json", "out.html"} {
		path := filepath.Join(dir, name)
		if err := Save(path, s, "", DefaultStyle()); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written", name)
		}
	}

	if err := Save("", s, FormatSVG, DefaultStyle()); err == nil {
		t.Error("empty path should fail")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"svg":  FormatSVG,
		".PNG": FormatPNG,
		"gv":   FormatDOT,
		"json": FormatJSON,
		"html": FormatHTML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("pdf should be rejected")
	}
	if FormatFromPath("graph.unknown") != FormatSVG {
		t.Error("unknown extension should default to svg")
	}
}
