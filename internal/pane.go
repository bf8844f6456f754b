package darkgraph

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pane is a bordered box holding one chart: content first, then an optional
// caption underneath, the way the graph title trails its legend.
//
//	pane := NewPane(64, 16).
//	    SetContent(chart.Render()).
//	    SetCaption("last 60 seconds").
//	    SetFocused(true)
//	fmt.Println(pane.Render())
type Pane struct {
	content      string
	caption      string
	width        int
	height       int
	borderStyle  lipgloss.Style
	captionStyle lipgloss.Style
}

// NewPane creates a new pane with default styling
func NewPane(width, height int) Pane {
	return Pane{
		width:  width,
		height: height,
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		captionStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
	}
}

// SetContent sets the pane content
func (p Pane) SetContent(content string) Pane {
	p.content = content
	return p
}

// SetCaption sets the line shown below the content
func (p Pane) SetCaption(caption string) Pane {
	p.caption = caption
	return p
}

// SetFocused highlights the border of the selected pane
func (p Pane) SetFocused(focused bool) Pane {
	if focused {
		p.borderStyle = p.borderStyle.BorderForeground(lipgloss.Color("170"))
	} else {
		p.borderStyle = p.borderStyle.BorderForeground(lipgloss.Color("240"))
	}
	return p
}

// Render draws the pane
func (p Pane) Render() string {
	var b strings.Builder
	b.WriteString(p.content)
	if p.caption != "" {
		b.WriteString("\n")
		b.WriteString(p.captionStyle.Render(p.caption))
	}

	box := p.borderStyle.Width(p.width)
	if p.height > 0 {
		box = box.Height(p.height)
	}
	return box.Render(b.String())
}
