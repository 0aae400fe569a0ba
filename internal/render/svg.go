package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

func writeSVG(w io.Writer, s Scene, style Style) error {
	canvas := svg.New(w)
	canvas.Start(s.Width, s.Height)
	drawSVG(canvas, s, style)
	canvas.End()
	return nil
}

func drawSVG(canvas *svg.SVG, s Scene, style Style) {
	canvas.Rect(0, 0, s.Width, s.Height, fmt.Sprintf("fill:%s", style.Background))

	if s.Message != "" {
		canvas.Text(s.Width/2, s.Height/2, s.Message, "fill:#999;text-anchor:middle;font-size:14px")
		return
	}
	if s.Title != "" {
		canvas.Text(16, 24, s.Title, "fill:#333;font-size:16px;font-weight:bold")
	}
	if s.Year != 0 {
		canvas.Text(s.Width-16, 24, fmt.Sprintf("≤ %d", s.Year), "fill:#666;text-anchor:end;font-size:13px")
	}

	canvas.Gid("links")
	for _, l := range s.Links {
		st := fmt.Sprintf("stroke:%s;stroke-width:2;stroke-opacity:0.8", linkColor(l, style))
		if l.Broken {
			st += ";stroke-dasharray:4,4"
		}
		canvas.Group(fmt.Sprintf(`class="%s" data-source="%s" data-target="%s"`, linkClass(l), l.Source, l.Target))
		canvas.Title(fmt.Sprintf("%s ↔ %s: %s", l.SourceName, l.TargetName, l.Relation))
		canvas.Line(round(l.X1), round(l.Y1), round(l.X2), round(l.Y2), st)
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range s.Nodes {
		canvas.Group(fmt.Sprintf(`class="node" data-id="%s" transform="translate(%d,%d)"`, n.ID, round(n.X), round(n.Y)))
		canvas.Title(fmt.Sprintf("%s (%s)", n.Name, n.Relation))
		canvas.Circle(0, 0, round(n.Radius), fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", n.Color, style.NodeStroke))
		if style.Labels {
			canvas.Text(0, 4, n.Name, fmt.Sprintf("fill:%s;text-anchor:middle;font-size:%dpx;pointer-events:none", style.LabelColor, fontSize(n)))
		}
		canvas.Gend()
	}
	canvas.Gend()

	drawLegendSVG(canvas, s)
}

func drawLegendSVG(canvas *svg.SVG, s Scene) {
	x, y := 16, s.Height-16-18*len(s.Legend)
	for i, e := range s.Legend {
		row := y + i*18
		opacity := "1"
		if !e.Active {
			opacity = "0.3"
		}
		canvas.Circle(x+6, row+6, 6, fmt.Sprintf("fill:%s;fill-opacity:%s", e.Color, opacity))
		canvas.Text(x+18, row+10, e.Category, fmt.Sprintf("fill:#555;font-size:12px;fill-opacity:%s", opacity))
	}
}

func linkClass(l SceneLink) string {
	if l.Broken {
		return "link broken"
	}
	return "link"
}

func round(v float64) int {
	return int(math.Round(v))
}
