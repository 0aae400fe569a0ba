package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
	json "github.com/goccy/go-json"
)

// writeDOT emits an undirected Graphviz graph with pinned positions, so
// `neato -n` reproduces the simulated layout.
func writeDOT(w io.Writer, s Scene, style Style) error {
	var b strings.Builder
	b.WriteString("graph relgraph {\n")
	b.WriteString("  layout=neato;\n")
	b.WriteString(fmt.Sprintf("  bgcolor=%q;\n", style.Background))
	b.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10];\n\n")

	for _, n := range s.Nodes {
		// DOT's y axis points up.
		b.WriteString(fmt.Sprintf("  %q [label=%q, fillcolor=%q, width=%.2f, pos=\"%.1f,%.1f!\"];\n",
			n.ID, n.Name, n.Color, 2*n.Radius/72, n.X, float64(s.Height)-n.Y))
	}

	b.WriteString("\n")
	for _, l := range s.Links {
		attrs := fmt.Sprintf("label=%q, color=%q", l.Relation, linkColor(l, style))
		if l.Broken {
			attrs += ", style=dashed"
		}
		b.WriteString(fmt.Sprintf("  %q -- %q [%s];\n", l.Source, l.Target, attrs))
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, s Scene) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// writeHTML returns a self-contained page: the SVG snapshot inline plus the
// scene as a JSON constant that drives hover highlighting and the detail
// sidebar.
func writeHTML(w io.Writer, s Scene, style Style) error {
	var img bytes.Buffer
	canvas := svg.New(&img)
	canvas.Startview(s.Width, s.Height, 0, 0, s.Width, s.Height)
	drawSVG(canvas, s, style)
	canvas.End()
	inline := img.String()
	if i := strings.Index(inline, "<svg"); i > 0 {
		inline = inline[i:]
	}

	sceneJSON, err := json.Marshal(s)
	if err != nil {
		return err
	}
	// Keep "</script>" inside strings from closing the script element.
	safeJSON := strings.ReplaceAll(string(sceneJSON), "</", `<\/`)

	_, err = fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="zh">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{background:%s;color:#333;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif;display:flex;height:100vh}
#graph{flex:1;overflow:hidden}
#graph svg{width:100%%;height:100%%}
.node{cursor:pointer}
.link{cursor:pointer}
#sidebar{width:300px;border-left:1px solid #ddd;padding:16px;overflow-y:auto;font-size:13px}
.sidebar-title{font-size:18px;font-weight:700;margin-bottom:8px}
.sidebar-empty{color:#999}
.event-record{margin:8px 0}
.event-time{color:#C9361D;font-weight:600}
</style>
</head>
<body>
<div id="graph">%s</div>
<div id="sidebar"><div class="sidebar-empty">点击人物或连线查看详情</div></div>
<script>
"use strict";
const SCENE=%s;
const byId=Object.fromEntries(SCENE.nodes.map(n=>[n.id,n]));
const sidebar=document.getElementById('sidebar');
function esc(s){const d=document.createElement('div');d.textContent=s||'';return d.innerHTML}
function events(list){return (list||[]).map(e=>'<div class="event-record"><div class="event-time">'+esc(e.time)+'</div><div class="event-desc">'+esc(e.description)+'</div></div>').join('')}
document.querySelectorAll('.node').forEach(el=>{
  const n=byId[el.dataset.id];
  el.addEventListener('click',()=>{sidebar.innerHTML='<div class="sidebar-title">'+esc(n.name)+'</div><p style="color:'+n.color+'">● '+esc(n.relation)+'</p>'+events(n.events)});
});
document.querySelectorAll('.link').forEach((el,i)=>{
  const l=SCENE.links[i];
  el.addEventListener('mouseover',()=>document.querySelectorAll('.node').forEach(n=>{n.style.opacity=(n.dataset.id===l.source||n.dataset.id===l.target)?1:0.2}));
  el.addEventListener('mouseout',()=>document.querySelectorAll('.node').forEach(n=>{n.style.opacity=1}));
  el.addEventListener('click',()=>{sidebar.innerHTML='<div class="sidebar-title">'+esc(l.relation)+(l.isBroken?'（已断裂）':'')+'</div><p>'+esc(l.sourceName)+' ↔ '+esc(l.targetName)+'</p>'+events(l.events)});
});
</script>
</body>
</html>
`, html.EscapeString(s.Title), style.Background, inline, safeJSON)
	return err
}
