// Package tui provides the terminal triage browser for failure reports.
// The left pane lists a run's analyzed builds; the right pane shows the
// selected report in full.
package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"failsift-agent/src/contracts"
)

// Model is the Bubble Tea model for the triage browser.
type Model struct {
	job            string
	items          []Item
	listView       list.Model
	delegate       *Delegate
	detailViewport viewport.Model
	styles         *StyleConfig

	width         int
	height        int
	ready         bool
	detailFocused bool
	lastIndex     int
}

// NewModel builds the browser model over a run's reports, newest build first.
func NewModel(job string, reports []*contracts.FailureReport) Model {
	delegate := NewDelegate()

	sorted := make([]*contracts.FailureReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BuildNumber > sorted[j].BuildNumber
	})

	items := make([]Item, len(sorted))
	listItems := make([]list.Item, len(sorted))
	maxBuild := 0
	for i, r := range sorted {
		items[i] = Item{Report: r}
		listItems[i] = items[i]
		if r.BuildNumber > maxBuild {
			maxBuild = r.BuildNumber
		}
	}
	delegate.SetColumnWidths(maxBuild)

	l := list.New(listItems, &delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{
		job:            job,
		items:          items,
		listView:       l,
		delegate:       &delegate,
		detailViewport: viewport.New(0, 0),
		styles:         DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key and resize messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeComponents()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "tab":
			m.detailFocused = !m.detailFocused
			return m, nil

		case "esc":
			m.detailFocused = false
			return m, nil

		case "d":
			m.detailViewport.HalfViewDown()
			return m, nil

		case "u":
			m.detailViewport.HalfViewUp()
			return m, nil

		case "g":
			if m.detailFocused {
				m.detailViewport.GotoTop()
			} else if len(m.listView.Items()) > 0 {
				m.listView.Select(0)
				m.syncDetail()
			}
			return m, nil

		case "G":
			if m.detailFocused {
				m.detailViewport.GotoBottom()
			} else if n := len(m.listView.Items()); n > 0 {
				m.listView.Select(n - 1)
				m.syncDetail()
			}
			return m, nil

		case "up", "k":
			if m.detailFocused {
				m.detailViewport.LineUp(1)
				return m, nil
			}
			var cmd tea.Cmd
			m.listView, cmd = m.listView.Update(msg)
			m.syncDetail()
			return m, cmd

		case "down", "j":
			if m.detailFocused {
				m.detailViewport.LineDown(1)
				return m, nil
			}
			var cmd tea.Cmd
			m.listView, cmd = m.listView.Update(msg)
			m.syncDetail()
			return m, cmd
		}
	}

	return m, nil
}

// syncDetail refreshes the viewport when the list selection changes.
func (m *Model) syncDetail() {
	idx := m.listView.Index()
	if idx == m.lastIndex {
		return
	}
	m.lastIndex = idx
	if item, ok := m.selectedItem(); ok {
		m.setDetailContent(item)
		m.detailViewport.GotoTop()
	}
}

// selectedItem returns the currently selected report item.
func (m Model) selectedItem() (Item, bool) {
	if len(m.listView.Items()) == 0 {
		return Item{}, false
	}
	item, ok := m.listView.SelectedItem().(Item)
	return item, ok
}

// Start opens the triage browser over a run's reports and blocks until the
// user quits.
func Start(job string, reports []*contracts.FailureReport) error {
	p := tea.NewProgram(NewModel(job, reports), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
