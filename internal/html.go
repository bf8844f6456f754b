package darkgraph

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
)

// The markup mirrors what a browser-side renderer builds: an absolutely
// positioned div per bar segment inside a relative container, the legend
// table, then the title.
var pageTemplate = template.Must(template.New("graphs").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Graphs</title>
<style>
body { font-family: sans-serif; font-size: 11px; }
.outergraph { float: left; margin: 0 20px 20px 0; }
.graph { position: relative; background-color: #eeeeee; }
.graph div { position: absolute; }
.bar_in { background-color: #2e9e2e; }
.bar_out { background-color: #2e5e9e; }
.legend td { padding-right: 6px; }
.graphtitle { text-align: center; font-weight: bold; }
</style>
</head>
<body>
<p>
<b>Measuring for</b> <span id="rf">{{.Header.RunningFor}}</span><b>.</b><br>
<b>Seen</b> <span id="tb">{{.Header.TotalBytes}}</span> <b>bytes, in</b> <span id="tp">{{.Header.TotalPackets}}</span> <b>packets.</b>
(<span id="pc">{{.Header.Captured}}</span> <b>captured,</b> <span id="pd">{{.Header.Dropped}}</span> <b>dropped)</b>
</p>
<div id="graphs">
{{range .Graphs}}<div class="outergraph" data-graph="{{.ID}}">
<div class="graph" style="{{.Box}}">
{{range .Bars}}{{if .HasIn}}<div class="bar_in" title="{{.Tooltip}}" style="{{.In}}"></div>
{{end}}{{if .HasOut}}<div class="bar_out" title="{{.Tooltip}}" style="{{.Out}}"></div>
{{end}}{{end}}</div>
<div class="legend" style="{{.Width}}"><table><tbody>
{{range .Legend}}<tr><td class="dir">{{.Direction}}</td><td class="swatch">{{if eq .Direction "in"}}<div class="bar_in" style="width:6px; height:6px;"></div>{{else}}<div class="bar_out" style="width:6px; height:6px;"></div>{{end}}</td><td class="type">min:</td><td class="rate">{{.Min}},</td><td class="type">avg:</td><td class="rate">{{.Avg}},</td><td class="type">max:</td><td class="rate">{{.Max}}</td></tr>
{{end}}</tbody></table></div>
<div class="graphtitle" style="{{.Width}}">{{.Title}}</div>
</div>
{{if .Clear}}<div style="clear:both"></div>
{{end}}{{end}}</div>
<p>Generated {{.Generated}}</p>
</body>
</html>
`))

type htmlPage struct {
	Header    HeaderView
	Graphs    []htmlGraph
	Generated string
}

type htmlGraph struct {
	ID     string
	Title  string
	Box    safehtml.Style
	Width  safehtml.Style
	Bars   []htmlBar
	Legend [2]LegendRow
	Clear  bool
}

// htmlBar holds the style of each segment. Segments without height are left out.
type htmlBar struct {
	Tooltip string
	HasIn   bool
	In      safehtml.Style
	HasOut  bool
	Out     safehtml.Style
}

func px(v int) string {
	return strconv.Itoa(v) + "px"
}

// segment positions one bar segment.
func segment(b Bar, height, bottom int) safehtml.Style {
	return safehtml.StyleFromProperties(safehtml.StyleProperties{
		Width:  px(b.Width),
		Height: px(height),
		Left:   px(b.X),
		Bottom: px(bottom),
	})
}

func newHTMLGraph(i int, v SeriesView) htmlGraph {
	g := htmlGraph{
		ID:     v.Series.ID,
		Title:  v.Series.Title,
		Box:    safehtml.StyleFromProperties(safehtml.StyleProperties{Width: px(v.Dims.Width), Height: px(v.Dims.Height)}),
		Width:  safehtml.StyleFromProperties(safehtml.StyleProperties{Width: px(v.Dims.Width)}),
		Bars:   make([]htmlBar, 0, len(v.Bars)),
		Legend: v.Legend,
		Clear:  i%2 == 1,
	}
	for _, b := range v.Bars {
		g.Bars = append(g.Bars, htmlBar{
			Tooltip: b.Tooltip,
			HasIn:   b.HeightIn > 0 && b.Width > 0,
			In:      segment(b.Bar, b.HeightIn, 0),
			HasOut:  b.HeightOut > 0 && b.Width > 0,
			Out:     segment(b.Bar, b.HeightOut, b.BottomOut()),
		})
	}
	return g
}

// WriteHTML renders views and the collector header as a standalone page.
func WriteHTML(w io.Writer, snap *Snapshot, views []SeriesView) error {
	page := htmlPage{
		Header:    FormatHeader(snap.Header),
		Graphs:    make([]htmlGraph, len(views)),
		Generated: snap.FetchedAt.Format("2006-01-02 15:04:05 MST"),
	}
	for i, v := range views {
		page.Graphs[i] = newHTMLGraph(i, v)
	}
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
