package render

import (
	"fmt"
	"image/png"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

func writePNG(w io.Writer, s Scene, style Style) error {
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(parseHex(style.Background))
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if s.Message != "" {
		dc.SetColor(parseHex("#999999"))
		dc.DrawStringAnchored(s.Message, float64(s.Width)/2, float64(s.Height)/2, 0.5, 0.5)
		return png.Encode(w, dc.Image())
	}

	dc.SetColor(parseHex("#333333"))
	if s.Title != "" {
		dc.DrawStringAnchored(s.Title, 16, 20, 0, 0.5)
	}
	if s.Year != 0 {
		dc.DrawStringAnchored(fmt.Sprintf("<= %d", s.Year), float64(s.Width)-16, 20, 1, 0.5)
	}

	// edges
	dc.SetLineWidth(2)
	for _, l := range s.Links {
		c := parseHex(linkColor(l, style))
		c.A = 0xcc
		dc.SetColor(c)
		if l.Broken {
			dc.SetDash(4, 4)
		} else {
			dc.SetDash()
		}
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}
	dc.SetDash()

	// nodes
	for _, n := range s.Nodes {
		drawNode(dc, n, style)
	}

	drawLegend(dc, s)
	return png.Encode(w, dc.Image())
}

func drawNode(dc *gg.Context, n SceneNode, style Style) {
	dc.SetColor(parseHex(n.Color))
	dc.DrawCircle(n.X, n.Y, n.Radius)
	dc.Fill()
	dc.SetColor(parseHex(style.NodeStroke))
	dc.SetLineWidth(2)
	dc.DrawCircle(n.X, n.Y, n.Radius)
	dc.Stroke()

	if style.Labels {
		// basicfont only covers ASCII; the label sits beside the node so
		// substitution glyphs never hide the circle.
		dc.SetColor(parseHex("#333333"))
		dc.DrawStringAnchored(n.ID, n.X+n.Radius+4, n.Y, 0, 0.5)
	}
}

func drawLegend(dc *gg.Context, s Scene) {
	x := 16.0
	y := float64(s.Height) - 16 - 18*float64(len(s.Legend))
	for i, e := range s.Legend {
		row := y + float64(i)*18
		c := parseHex(e.Color)
		if !e.Active {
			c.A = 0x4c
		}
		dc.SetColor(c)
		dc.DrawCircle(x+6, row+6, 6)
		dc.Fill()
		dc.SetColor(parseHex("#555555"))
		dc.DrawStringAnchored(e.Category, x+18, row+6, 0, 0.5)
	}
}
