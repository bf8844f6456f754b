package darkgraph

import (
	"github.com/charmbracelet/lipgloss"
)

// TabSet shows one pane at a time with a tab bar of all series titles.
type TabSet struct {
	titles      []string
	selectedTab int
}

// NewTabSet creates a new TabSet
func NewTabSet(titles ...string) *TabSet {
	return &TabSet{titles: titles}
}

// SelectTab changes the active tab
func (ts *TabSet) SelectTab(index int) *TabSet {
	if index >= 0 && index < len(ts.titles) {
		ts.selectedTab = index
	}
	return ts
}

// NextTab moves to the next tab (wraps around)
func (ts *TabSet) NextTab() *TabSet {
	if len(ts.titles) > 0 {
		ts.selectedTab = (ts.selectedTab + 1) % len(ts.titles)
	}
	return ts
}

// PrevTab moves to the previous tab (wraps around)
func (ts *TabSet) PrevTab() *TabSet {
	if len(ts.titles) > 0 {
		ts.selectedTab = (ts.selectedTab - 1 + len(ts.titles)) % len(ts.titles)
	}
	return ts
}

// GetSelectedTab returns the currently selected tab index
func (ts *TabSet) GetSelectedTab() int {
	return ts.selectedTab
}

// Render renders the tab bar above the pane of the selected tab
func (ts *TabSet) Render(selected Pane) string {
	return lipgloss.JoinVertical(lipgloss.Left, ts.renderTabs(), selected.Render())
}

// renderTabs renders the tab navigation bar
func (ts *TabSet) renderTabs() string {
	activeTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("170")).
		Background(lipgloss.Color("235")).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("170"))

	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("236"))

	renderedTabs := make([]string, 0, len(ts.titles))
	for i, title := range ts.titles {
		if i == ts.selectedTab {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(title))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(title))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}
