package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// listRenderingOverhead accounts for padding added by bubbles/list and
	// the panel border around it.
	listRenderingOverhead = 10

	ageWidth = 4
)

// Delegate renders report items as table rows.
type Delegate struct {
	BuildWidth int
	styles     *StyleConfig
	now        func() time.Time
}

// NewDelegate creates a new report table delegate with default styles.
func NewDelegate() Delegate {
	return Delegate{
		BuildWidth: 2,
		styles:     DefaultStyles(),
		now:        time.Now,
	}
}

// SetColumnWidths sizes the build column from the largest build number.
func (d *Delegate) SetColumnWidths(maxBuild int) {
	d.BuildWidth = len(fmt.Sprintf("%d", maxBuild))
	if d.BuildWidth < 2 {
		d.BuildWidth = 2
	}
}

// Height returns the height of a list item.
func (d Delegate) Height() int { return 1 }

// Spacing returns spacing between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles item updates.
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Render renders one report row: build number, age and pattern summary.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	buildCol := fmt.Sprintf("#%*d", d.BuildWidth, entry.Report.BuildNumber)
	ageCol := TruncateAndPad(entry.Age(d.now()), ageWidth, false)

	// Fixed columns: "#" + build digits + age + two " │ " separators.
	fixedWidth := 1 + d.BuildWidth + ageWidth + 6
	availableWidth := m.Width() - fixedWidth - listRenderingOverhead

	var summary string
	if availableWidth > 0 {
		summary = TruncateAndPad(entry.CategorySummary(), availableWidth, true)
	}

	line := fmt.Sprintf("%s │ %s │ %s", buildCol, ageCol, summary)

	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if isSelected {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}

	fmt.Fprint(w, style.Render(line))
}
