package darkgraph

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barGlyph   = "█"
	emptyGlyph = " "
)

var (
	inStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	outStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
)

type cell uint8

const (
	cellEmpty cell = iota
	cellIn
	cellOut
)

// Chart draws a series view with block glyphs, one terminal cell per unit
// of the view's dimensions.
type Chart struct {
	View   SeriesView
	Cursor int // selected bar, -1 for none
}

// cells rasterizes the bars bottom-up. Row 0 is the baseline.
func (c Chart) cells() [][]cell {
	w, h := c.View.Dims.Width, c.View.Dims.Height
	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
	}

	fill := func(x0, width, y0, height int, kind cell) {
		for y := y0; y < y0+height && y < h; y++ {
			for x := x0; x < x0+width && x < w; x++ {
				if x >= 0 && y >= 0 {
					grid[y][x] = kind
				}
			}
		}
	}

	for _, b := range c.View.Bars {
		if b.Width <= 0 {
			continue
		}
		// zero-height segments simply fill nothing
		fill(b.X, b.Width, 0, b.HeightIn, cellIn)
		fill(b.X, b.Width, b.BottomOut(), b.HeightOut, cellOut)
	}
	return grid
}

// Render returns the bar area followed by an axis line that marks the cursor.
func (c Chart) Render() string {
	grid := c.cells()
	lines := make([]string, 0, len(grid)+1)
	for y := len(grid) - 1; y >= 0; y-- {
		lines = append(lines, renderRow(grid[y]))
	}
	lines = append(lines, c.axis())
	return strings.Join(lines, "\n")
}

// renderRow styles runs of identical cells in one go to keep escape codes short.
func renderRow(row []cell) string {
	var b strings.Builder
	for start := 0; start < len(row); {
		end := start
		for end < len(row) && row[end] == row[start] {
			end++
		}
		n := end - start
		switch row[start] {
		case cellIn:
			b.WriteString(inStyle.Render(strings.Repeat(barGlyph, n)))
		case cellOut:
			b.WriteString(outStyle.Render(strings.Repeat(barGlyph, n)))
		default:
			b.WriteString(strings.Repeat(emptyGlyph, n))
		}
		start = end
	}
	return b.String()
}

func (c Chart) axis() string {
	w := c.View.Dims.Width
	if c.Cursor < 0 || c.Cursor >= len(c.View.Bars) {
		return axisStyle.Render(strings.Repeat("─", w))
	}
	bar := c.View.Bars[c.Cursor]
	x := bar.X + max(bar.Width, 1)/2
	x = min(max(x, 0), w-1)
	return axisStyle.Render(strings.Repeat("─", x)) +
		cursorStyle.Render("▲") +
		axisStyle.Render(strings.Repeat("─", w-x-1))
}

// Tooltip returns the text of the bar under the cursor.
func (c Chart) Tooltip() string {
	if c.Cursor < 0 || c.Cursor >= len(c.View.Bars) {
		return ""
	}
	return c.View.Bars[c.Cursor].Tooltip
}
