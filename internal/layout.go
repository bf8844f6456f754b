package darkgraph

import (
	"github.com/charmbracelet/lipgloss"
)

// Horizontal renders panes side by side
func Horizontal(panes ...Pane) string {
	if len(panes) == 0 {
		return ""
	}

	views := make([]string, len(panes))
	for i, pane := range panes {
		views[i] = pane.Render()
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// GridLayout renders panes in rows
type GridLayout struct {
	rows [][]Pane
}

// NewGrid creates a new grid layout
func NewGrid() *GridLayout {
	return &GridLayout{
		rows: make([][]Pane, 0),
	}
}

// AddRow adds a row of panes to the grid
func (g *GridLayout) AddRow(panes ...Pane) *GridLayout {
	g.rows = append(g.rows, panes)
	return g
}

// Render renders the grid layout
func (g *GridLayout) Render() string {
	if len(g.rows) == 0 {
		return ""
	}

	rowViews := make([]string, len(g.rows))
	for i, row := range g.rows {
		rowViews[i] = Horizontal(row...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rowViews...)
}

// Wrap lays panes out left to right, starting a new row every columns panes.
func Wrap(columns int, panes ...Pane) string {
	columns = max(columns, 1)
	g := NewGrid()
	for start := 0; start < len(panes); start += columns {
		g.AddRow(panes[start:min(start+columns, len(panes))]...)
	}
	return g.Render()
}

// GridColumns returns how many panes of paneWidth fit across width, capped
// at two per row.
func GridColumns(width, paneWidth int) int {
	if paneWidth <= 0 {
		return 1
	}
	return min(max(width/paneWidth, 1), 2)
}
