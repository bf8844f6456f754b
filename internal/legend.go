package darkgraph

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const swatchGlyph = "■"

// RenderLegend draws the two-row in/out legend of a view.
func RenderLegend(v SeriesView) string {
	rows := make([][]string, 0, len(v.Legend))
	for _, r := range v.Legend {
		rows = append(rows, []string{
			r.Direction,
			swatchGlyph,
			"min: " + r.Min + ",",
			"avg: " + r.Avg + ",",
			"max: " + r.Max,
		})
	}

	cellStyle := lipgloss.NewStyle().PaddingRight(1)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col != 1 || row < 0 || row >= len(rows) {
				return cellStyle
			}
			if rows[row][0] == "in" {
				return inStyle.PaddingRight(1)
			}
			return outStyle.PaddingRight(1)
		}).
		Rows(rows...)

	return t.String()
}
