package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/notecards/internal/view"
)

var (
	searchStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	activeFilter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	inactiveFilter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	messageStyle = lipgloss.NewStyle().
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Padding(1, 2)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

func (m model) View() string {
	var b strings.Builder

	// Header with search and filters
	searchBox := searchStyle.Render(m.searchInput.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", m.filterBar()))
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(m.statsLine()))
	b.WriteString("\n")
	if summary := view.ResultSummary(len(m.view.Items), m.searchInput.Value()); summary != "" {
		b.WriteString(statsStyle.Render(summary))
	}
	b.WriteString("\n")

	b.WriteString(m.body())
	b.WriteString("\n")

	switch {
	case m.confirmDelete != nil:
		b.WriteString(noticeStyle.Render(fmt.Sprintf("Delete %q? [y] confirm, any other key cancels", m.confirmDelete.Title)))
	case m.notice != "":
		b.WriteString(noticeStyle.Render(m.notice))
	}

	b.WriteString(helpStyle.Render(m.helpLine()))

	return b.String()
}

// body renders the list area for the current state.
func (m model) body() string {
	switch view.Status(m.state.IsLoading, m.state.Err, len(m.state.Data), len(m.view.Items)) {
	case view.StateLoading:
		return messageStyle.Render(m.spinner.View() + " Loading content...")
	case view.StateFailed:
		return errorStyle.Render(fmt.Sprintf("Failed to load content: %v\n\nPress r to retry.", m.state.Err))
	case view.StateEmpty:
		msg := "No content yet."
		if m.features.AddContent {
			msg += "\n\nAdd some with: notecards add <url> --type article --title \"...\""
		}
		return messageStyle.Render(msg)
	case view.StateNoResults:
		return messageStyle.Render("No content matches your search or filter.\n\nPress esc to clear the search, 0 to show all types.")
	default:
		return m.list.View()
	}
}

func (m model) filterBar() string {
	opts := m.filterOptions()
	labels := make([]string, 0, len(opts))
	for i, t := range opts {
		label := view.Label(t)
		if t != view.All {
			label = view.Icon(t) + " " + label
		}
		if i < 10 {
			label = fmt.Sprintf("%d:%s", i, label)
		}
		if t == m.filter {
			labels = append(labels, activeFilter.Render(label))
		} else {
			labels = append(labels, inactiveFilter.Render(label))
		}
	}
	return filterStyle.Render(strings.Join(labels, "  "))
}

func (m model) statsLine() string {
	lines := view.StatLines(m.view.Stats)
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s %s %d", l.Icon, l.Label, l.Value))
	}
	return strings.Join(parts, " · ")
}

func (m model) helpLine() string {
	if m.searching {
		return "[Enter/Esc]done [ctrl+c]quit"
	}
	help := "[j/k]nav [g/G]top/end [/]search [Tab/0-9]filter [o]pen [c]opy url [r]eload"
	if m.features.DeleteContent {
		help += " [d]elete"
	}
	return help + " [q]uit"
}
