package darkgraph

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WrapTable lists rows in as many side-by-side tables as it takes to stay
// within maxHeight lines.
type WrapTable struct {
	headers     []string
	rows        [][]string
	maxHeight   int
	selected    int
	borderStyle lipgloss.Style
}

func NewWrapTable() *WrapTable {
	return &WrapTable{
		selected:    -1,
		borderStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Headers sets the table headers
func (wt *WrapTable) Headers(headers ...string) *WrapTable {
	wt.headers = headers
	return wt
}

// Rows sets the table rows
func (wt *WrapTable) Rows(rows ...[]string) *WrapTable {
	wt.rows = rows
	return wt
}

// MaxHeight sets the maximum height constraint
func (wt *WrapTable) MaxHeight(height int) *WrapTable {
	wt.maxHeight = height
	return wt
}

// Select highlights the row at index, -1 for none
func (wt *WrapTable) Select(index int) *WrapTable {
	wt.selected = index
	return wt
}

// RowsPerTable returns how many data rows fit in one table.
// Each table spends four lines on borders and the header.
func (wt *WrapTable) RowsPerTable() int {
	return max(wt.maxHeight-4, 1)
}

// Render renders the table, split into columns when needed
func (wt *WrapTable) Render() string {
	if len(wt.rows) == 0 {
		return ""
	}

	perTable := wt.RowsPerTable()
	var tables []string
	for start := 0; start < len(wt.rows); start += perTable {
		end := min(start+perTable, len(wt.rows))
		offset := start

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(wt.borderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				s := lipgloss.NewStyle().Padding(0, 1)
				if row >= 0 && row+offset == wt.selected {
					return s.Inherit(cursorStyle)
				}
				return s
			}).
			Headers(wt.headers...).
			Rows(wt.rows[start:end]...)

		tables = append(tables, t.String())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tables...)
}

// String is a convenience method that calls Render
func (wt *WrapTable) String() string {
	return wt.Render()
}

// BucketTable lists every bucket of a view with its counts and rates.
func BucketTable(v SeriesView, height, selected int) *WrapTable {
	secs := float64(v.Series.BucketSeconds)
	rows := make([][]string, 0, len(v.Bars))
	for _, b := range v.Bars {
		rows = append(rows, []string{
			b.Bucket.Position,
			Thousands(b.Bucket.In),
			Thousands(b.Bucket.Out),
			RateCompact(float64(b.Bucket.In) / secs),
			RateCompact(float64(b.Bucket.Out) / secs),
		})
	}
	return NewWrapTable().
		Headers("pos", "bytes in", "bytes out", "KB/s in", "KB/s out").
		Rows(rows...).
		MaxHeight(height).
		Select(selected)
}
