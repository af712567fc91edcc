package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// panelDimensions holds the calculated layout sizes.
type panelDimensions struct {
	availableHeight int
	leftPanelWidth  int
	rightPanelWidth int
}

// calculateDimensions computes pane sizes from the terminal dimensions.
// The list pane takes 40% of the width, the detail pane the rest.
func (m Model) calculateDimensions() panelDimensions {
	headerHeight := lipgloss.Height(m.renderTitle())
	// title + help line (1) + column header row (1) + panel borders (2)
	availableHeight := m.height - headerHeight - 1 - 1 - 2

	leftPanelWidth := int(float64(m.width) * 0.4)
	rightPanelWidth := m.width - leftPanelWidth

	return panelDimensions{
		availableHeight: availableHeight,
		leftPanelWidth:  leftPanelWidth,
		rightPanelWidth: rightPanelWidth,
	}
}

// View renders the complete browser layout.
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	title := m.renderTitle()

	if len(m.items) == 0 {
		empty := lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			PaddingTop(2).
			Foreground(m.styles.TextSecondary).
			Render("No failure reports to browse.")
		return lipgloss.JoinVertical(lipgloss.Left, title, empty)
	}

	dims := m.calculateDimensions()

	leftPanel := m.renderListPanel(dims.leftPanelWidth, dims.availableHeight)
	rightPanel := m.renderDetailPanel(dims.rightPanelWidth, dims.availableHeight)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, title, mainContent, m.renderHelpText())
}

// renderTitle renders the top status line.
func (m Model) renderTitle() string {
	return m.styles.TitleStyle().Render(
		fmt.Sprintf("🔧 failsift │ %s │ %d report(s)", m.job, len(m.items)))
}

// renderHelpText renders context-aware help at the bottom.
func (m Model) renderHelpText() string {
	keyStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary)

	var helpText string
	if m.detailFocused {
		helpText = fmt.Sprintf("%s: Scroll %s %s: Half page %s %s: Top/Bottom %s %s: List %s %s: Quit",
			keyStyle.Render("j/k"), sepStyle.Render("•"),
			keyStyle.Render("d/u"), sepStyle.Render("•"),
			keyStyle.Render("g/G"), sepStyle.Render("•"),
			keyStyle.Render("Tab"), sepStyle.Render("•"),
			keyStyle.Render("q"))
	} else {
		helpText = fmt.Sprintf("%s: Nav %s %s: Detail %s %s: Scroll detail %s %s: Quit",
			keyStyle.Render("j/k"), sepStyle.Render("•"),
			keyStyle.Render("Tab"), sepStyle.Render("•"),
			keyStyle.Render("d/u"), sepStyle.Render("•"),
			keyStyle.Render("q"))
	}

	return m.styles.HelpStyle().Render(helpText)
}

// renderListPanel renders the left pane with the report list.
func (m Model) renderListPanel(width, height int) string {
	listPanel := m.styles.PanelStyle().
		Width(width - 2).
		Height(height).
		Render(m.listView.View())

	buildHeader := fmt.Sprintf("%*s", m.delegate.BuildWidth+1, "Bld")
	headerText := fmt.Sprintf("%s │ %-*s │ Patterns", buildHeader, ageWidth, "Age")
	headerRow := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Width(width-2).
		Padding(0, 1).
		Render(Truncate(headerText, width-4, true))

	return lipgloss.JoinVertical(lipgloss.Left, headerRow, listPanel)
}

// renderDetailPanel renders the right pane with the selected report.
func (m Model) renderDetailPanel(width, height int) string {
	item, ok := m.selectedItem()
	if !ok {
		placeholderRow := lipgloss.NewStyle().
			Foreground(m.styles.TextSecondary).
			Padding(0, 1).
			Render(" ")

		empty := m.styles.PanelStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(m.styles.TextSecondary).
			Faint(true).
			Render("Navigate the list to view a report")

		return lipgloss.JoinVertical(lipgloss.Left, placeholderRow, empty)
	}

	headerRow := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Padding(0, 1).
		Render(fmt.Sprintf("Build %s │ fingerprint %s", item.BuildLabel(), item.Report.Fingerprint))

	borderColor := m.styles.BorderColor
	if m.detailFocused {
		borderColor = m.styles.AccentBlue
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Height(height).
		Render(m.detailViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, headerRow, panel)
}

// setDetailContent fills the viewport with the selected report, wrapping
// long lines to the viewport width.
func (m *Model) setDetailContent(item Item) {
	maxWidth := m.detailViewport.Width - 2
	if maxWidth < 20 {
		maxWidth = 20
	}

	var content strings.Builder
	for _, line := range strings.Split(item.Report.ReportText, "\n") {
		if VisualWidth(line) > maxWidth {
			line = Wrap(line, maxWidth)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}
	m.detailViewport.SetContent(content.String())
}

// resizeComponents applies the current terminal size to both panes.
func (m *Model) resizeComponents() {
	dims := m.calculateDimensions()

	m.listView.SetSize(dims.leftPanelWidth-2, dims.availableHeight)

	m.detailViewport.Width = dims.rightPanelWidth - 2
	m.detailViewport.Height = dims.availableHeight - 1

	if item, ok := m.selectedItem(); ok {
		m.setDetailContent(item)
	}
}
