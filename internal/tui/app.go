package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/user/notecards/internal/access"
	"github.com/user/notecards/internal/client"
	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/rpc"
	"github.com/user/notecards/internal/view"
)

const callTimeout = 15 * time.Second

type model struct {
	api      rpc.API
	query    *client.Query
	features access.FeatureSet

	searchInput textinput.Model
	list        list.Model
	spinner     spinner.Model

	state  client.State
	filter content.Type
	view   view.View

	width         int
	height        int
	searching     bool
	confirmDelete *content.Item
	notice        string
}

type contentItem struct {
	item content.Item
}

func (c contentItem) Title() string {
	return fmt.Sprintf("%s %s", view.Icon(c.item.Type), c.item.Title)
}

func (c contentItem) Description() string {
	desc := view.Label(c.item.Type)
	if c.item.Author != nil {
		desc += " · " + *c.item.Author
	}
	if c.item.Duration != nil {
		desc += " · " + *c.item.Duration
	}
	return desc + " · " + humanize.Time(c.item.CreatedAt)
}

func (c contentItem) FilterValue() string {
	return c.item.Title
}

func initialModel(api rpc.API) model {
	ti := textinput.New()
	ti.Placeholder = "Search content..."
	ti.CharLimit = 256
	ti.Width = 50

	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Notecards"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	q := client.NewQuery(api)

	return model{
		api:         api,
		query:       q,
		searchInput: ti,
		list:        l,
		spinner:     sp,
		state:       q.Snapshot(),
		filter:      view.All,
		view:        view.Derive(nil, "", view.All),
	}
}

type fetchedMsg struct {
	state client.State
}

type describedMsg struct {
	desc *rpc.Description
	err  error
}

type deletedMsg struct {
	title string
	err   error
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.describe,
		m.fetch,
	)
}

func (m model) fetch() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return fetchedMsg{state: m.query.Fetch(ctx)}
}

func (m model) describe() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	d, err := m.api.Describe(ctx)
	return describedMsg{desc: d, err: err}
}

func (m model) deleteItem(it content.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return deletedMsg{title: it.Title, err: m.api.Delete(ctx, it.ID)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDelete != nil {
			it := *m.confirmDelete
			m.confirmDelete = nil
			if msg.String() == "y" {
				m.notice = "Deleting " + it.Title + "..."
				return m, m.deleteItem(it)
			}
			m.notice = ""
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.searching {
				return m, tea.Quit
			}
		case "esc":
			if m.searching {
				m.searching = false
				m.searchInput.Blur()
				return m, nil
			}
			if m.searchInput.Value() != "" {
				m.searchInput.SetValue("")
				m.refresh()
				return m, nil
			}
		case "/":
			if !m.searching {
				m.searching = true
				m.searchInput.Focus()
				return m, textinput.Blink
			}
		case "enter":
			if m.searching {
				m.searching = false
				m.searchInput.Blur()
				return m, nil
			}
			if it, ok := m.selected(); ok {
				m.notice = openBrowser(it.URL)
			}
			return m, nil
		case "j", "down":
			if !m.searching {
				m.list.CursorDown()
				return m, nil
			}
		case "k", "up":
			if !m.searching {
				m.list.CursorUp()
				return m, nil
			}
		case "g":
			if !m.searching {
				m.list.Select(0)
				return m, nil
			}
		case "G":
			if !m.searching {
				items := m.list.Items()
				if len(items) > 0 {
					m.list.Select(len(items) - 1)
				}
				return m, nil
			}
		case "o":
			if !m.searching {
				if it, ok := m.selected(); ok {
					m.notice = openBrowser(it.URL)
				}
				return m, nil
			}
		case "c":
			if !m.searching {
				if it, ok := m.selected(); ok {
					m.notice = copyURL(it.URL)
				}
				return m, nil
			}
		case "r":
			if !m.searching {
				m.state.IsLoading = true
				m.notice = ""
				return m, tea.Batch(m.spinner.Tick, m.fetch)
			}
		case "d":
			if !m.searching && m.features.DeleteContent {
				if it, ok := m.selected(); ok {
					m.confirmDelete = &it
				}
				return m, nil
			}
		case "tab":
			if !m.searching {
				m.cycleFilter(1)
				return m, nil
			}
		case "shift+tab":
			if !m.searching {
				m.cycleFilter(-1)
				return m, nil
			}
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if !m.searching {
				m.selectFilter(int(msg.String()[0] - '0'))
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-9)
		m.searchInput.Width = msg.Width - 20

	case fetchedMsg:
		m.state = msg.state
		m.refresh()
		return m, nil

	case describedMsg:
		if msg.err == nil {
			m.features = msg.desc.Features
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.notice = "Delete failed: " + msg.err.Error()
			return m, nil
		}
		m.notice = "Deleted " + msg.title
		return m, m.fetch

	case spinner.TickMsg:
		if !m.state.IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.searching {
		var cmd tea.Cmd
		before := m.searchInput.Value()
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)

		// Live search on input change
		if m.searchInput.Value() != before {
			m.refresh()
		}
	} else {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// refresh re-derives the visible list from the last fetch.
func (m *model) refresh() {
	facets := view.Facets(m.state.Data)
	if m.filter != view.All && !containsType(facets, m.filter) {
		m.filter = view.All
	}

	m.view = view.Derive(m.state.Data, m.searchInput.Value(), m.filter)

	items := make([]list.Item, 0, len(m.view.Items))
	for _, it := range m.view.Items {
		items = append(items, contentItem{item: it})
	}
	m.list.SetItems(items)
	if m.list.Index() >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

// filterOptions is All followed by the facets.
func (m model) filterOptions() []content.Type {
	return append([]content.Type{view.All}, m.view.Facets...)
}

func (m *model) cycleFilter(step int) {
	opts := m.filterOptions()
	cur := 0
	for i, t := range opts {
		if t == m.filter {
			cur = i
			break
		}
	}
	m.filter = opts[(cur+step+len(opts))%len(opts)]
	m.refresh()
}

func (m *model) selectFilter(i int) {
	opts := m.filterOptions()
	if i < 0 || i >= len(opts) {
		return
	}
	m.filter = opts[i]
	m.refresh()
}

func (m model) selected() (content.Item, bool) {
	it, ok := m.list.SelectedItem().(contentItem)
	if !ok {
		return content.Item{}, false
	}
	return it.item, true
}

func containsType(ts []content.Type, t content.Type) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

func copyURL(url string) string {
	if err := clipboard.WriteAll(url); err != nil {
		return "Copy failed: " + err.Error()
	}
	return "Copied " + url
}

func openBrowser(url string) string {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd == nil {
		return "Cannot open links on " + runtime.GOOS
	}
	if err := cmd.Start(); err != nil {
		return "Open failed: " + err.Error()
	}
	return ""
}

// Run starts the dashboard against api.
func Run(api rpc.API) error {
	p := tea.NewProgram(initialModel(api), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
