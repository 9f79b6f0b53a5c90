// internal/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/ollamadash/internal/refresh"
)

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("245"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	statusInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	staleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	dialogTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

// tabTitles indexes display names by tab.
var tabTitles = []string{"Models [1]", "Running [2]", "Search [3]"}

// View renders the dashboard.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.dialog != dialogNone {
		return m.dialogView()
	}

	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")
	b.WriteString(m.contentView())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

// tabBar renders the tab strip.
func (m *Model) tabBar() string {
	parts := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if tab(i) == m.activeTab {
			parts[i] = activeTabStyle.Render(title)
		} else {
			parts[i] = tabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// contentView renders the active tab's table plus any per-tab chrome.
func (m *Model) contentView() string {
	switch m.activeTab {
	case tabSearch:
		return m.filterInput.View() + "\n" + m.searchTable.View()
	case tabRunning:
		header := statusInfoStyle.Render(fmt.Sprintf("Auto-refresh every %s", m.cfg.PSRefreshInterval()))
		return header + "\n" + m.runningTable.View()
	default:
		return m.modelsTable.View()
	}
}

// statusBar renders loading indicators, staleness marks and the dismissible
// notification line.
func (m *Model) statusBar() string {
	snap := m.snaps[m.activeTab.source()]

	var parts []string
	if !m.adapterOK {
		parts = append(parts, statusErrStyle.Render("ollama unavailable"))
	}
	if snap.Phase == refresh.InFlight {
		parts = append(parts, m.spinner.View()+" Loading...")
	}
	if snap.FromCache {
		parts = append(parts, staleStyle.Render("cached"))
	}
	parts = append(parts, statusInfoStyle.Render(m.countLine(snap)))

	if m.statusMsg != "" {
		style := statusInfoStyle
		if m.statusErr {
			style = statusErrStyle
		}
		parts = append(parts, style.Render(m.statusMsg+"  [esc to dismiss]"))
	}
	return strings.Join(parts, "  ")
}

// countLine summarizes the active tab's row count.
func (m *Model) countLine(snap refresh.Snapshot) string {
	n := len(m.activeTable().Rows())
	switch m.activeTab {
	case tabRunning:
		if n == 0 {
			return "No models running"
		}
		return fmt.Sprintf("%d running", n)
	case tabSearch:
		if m.filterInput.Value() != "" {
			return fmt.Sprintf("%d models (filtered)", n)
		}
		return fmt.Sprintf("%d models", n)
	default:
		return fmt.Sprintf("%d models", n)
	}
}

// helpLine lists the keys available in the current context.
func (m *Model) helpLine() string {
	switch m.activeTab {
	case tabRunning:
		return "r refresh • s stop • 1/2/3 tabs • q quit"
	case tabSearch:
		return "r refresh • enter pull • / filter • 1/2/3 tabs • q quit"
	default:
		return "r refresh • enter info • d delete • 1/2/3 tabs • q quit"
	}
}

// dialogView renders the open modal centered in the window.
func (m *Model) dialogView() string {
	var body string

	switch m.dialog {
	case dialogConfirm:
		body = dialogTitleStyle.Render(m.confirmText) + "\n" +
			helpStyle.Render("y/enter confirm • n/esc cancel")

	case dialogInfo:
		content := m.infoView.View()
		if m.infoLoading {
			content = m.spinner.View() + " Loading..."
		}
		body = dialogTitleStyle.Render("Model: "+m.infoTitle) + "\n" +
			content + "\n" +
			helpStyle.Render("esc close")

	case dialogTags:
		if m.tags == nil {
			body = dialogTitleStyle.Render("Versions of "+m.tagsModel) + "\n" +
				m.spinner.View() + " Loading tags..."
		} else {
			body = dialogTitleStyle.Render("Select version for "+m.tagsModel) + "\n" +
				m.tagsTable.View() + "\n" +
				helpStyle.Render("enter select • esc cancel")
		}

	case dialogPull:
		bar := ""
		if m.pullPercent >= 0 {
			bar = m.pullBar.ViewAs(m.pullPercent/100) + "\n"
		}
		keys := "esc cancel"
		if m.pullDone {
			keys = "esc close"
		}
		body = dialogTitleStyle.Render("Pulling "+pullRef(m.pullModel, m.pullTag)) + "\n" +
			bar +
			m.pullStatus + "\n" +
			helpStyle.Render(keys)
	}

	box := dialogStyle.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// resize propagates the window size to every component.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true

	tableHeight := height - 8
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.modelsTable.SetWidth(width - 2)
	m.modelsTable.SetHeight(tableHeight)
	m.runningTable.SetWidth(width - 2)
	m.runningTable.SetHeight(tableHeight - 1)
	m.searchTable.SetWidth(width - 2)
	m.searchTable.SetHeight(tableHeight - 1)
	m.filterInput.Width = width - 6

	m.infoView.Width = min(width-10, 90)
	m.infoView.Height = max(height-10, 5)
	m.pullBar.Width = min(width-14, 56)
}
