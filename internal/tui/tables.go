// internal/tui/tables.go
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/ollamadash/internal/ollamacli"
	"github.com/mwiater/ollamadash/internal/refresh"
	"github.com/mwiater/ollamadash/internal/registry"
	"github.com/mwiater/ollamadash/internal/util"
)

func modelsColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 28},
		{Title: "ID", Width: 14},
		{Title: "Size", Width: 10},
		{Title: "Modified", Width: 20},
	}
}

func runningColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 28},
		{Title: "ID", Width: 14},
		{Title: "Size", Width: 10},
		{Title: "Processor", Width: 14},
		{Title: "Until", Width: 22},
	}
}

func searchColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Sizes", Width: 18},
		{Title: "Description", Width: 46},
	}
}

func tagsColumns() []table.Column {
	return []table.Column{
		{Title: "Tag", Width: 24},
		{Title: "Size", Width: 12},
	}
}

// newTable builds a focused table with the shared dashboard styling.
func newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)
	return t
}

// applySnapshot rebuilds the table rows backing one source. Failed snapshots
// fall back to the last-known-good data so a transient error never blanks a
// populated view.
func (m *Model) applySnapshot(source refresh.Source, snap refresh.Snapshot) {
	m.snaps[source] = snap

	data := snap.Data
	if snap.Phase == refresh.Failed {
		data = snap.LastGood
	}

	switch source {
	case refresh.SourceModels:
		models, _ := data.([]ollamacli.Model)
		rows := make([]table.Row, 0, len(models))
		for _, mod := range models {
			rows = append(rows, table.Row{mod.Name, mod.ID, mod.Size, mod.Modified})
		}
		m.modelsTable.SetRows(rows)

	case refresh.SourceRunning:
		running, _ := data.([]ollamacli.RunningModel)
		rows := make([]table.Row, 0, len(running))
		for _, proc := range running {
			rows = append(rows, table.Row{proc.Name, proc.ID, proc.Size, proc.Processor, proc.Until})
		}
		m.runningTable.SetRows(rows)

	case refresh.SourceCatalog:
		m.catalog, _ = data.([]registry.RemoteModel)
		m.applyCatalogFilter()
	}
}

// applyCatalogFilter rebuilds the search table from the catalog, restricted to
// names containing the current filter text.
func (m *Model) applyCatalogFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	rows := make([]table.Row, 0, len(m.catalog))
	for _, rm := range m.catalog {
		if needle != "" && !strings.Contains(strings.ToLower(rm.Name), needle) {
			continue
		}
		rows = append(rows, table.Row{rm.Name, rm.Sizes, util.TruncateRunes(rm.Description, 46)})
	}
	m.searchTable.SetRows(rows)
	if len(rows) > 0 {
		m.searchTable.SetCursor(0)
	}
}

// activeTable returns the table for the current tab.
func (m *Model) activeTable() *table.Model {
	switch m.activeTab {
	case tabRunning:
		return &m.runningTable
	case tabSearch:
		return &m.searchTable
	default:
		return &m.modelsTable
	}
}

// selectedName returns the model name under the cursor of the active table.
func (m *Model) selectedName() string {
	row := m.activeTable().SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
