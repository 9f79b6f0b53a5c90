// internal/tui/tui.go
// Package tui implements the interactive dashboard: three tabs (local models,
// running processes, registry search) over the refresh coordinator, with modal
// dialogs for confirmation, model info, tag selection and pull progress. All
// UI state lives on the single Model struct; background completions arrive as
// messages through the Bubble Tea loop, never as callbacks.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/ollamadash/internal/appconfig"
	"github.com/mwiater/ollamadash/internal/cache"
	"github.com/mwiater/ollamadash/internal/ollamacli"
	"github.com/mwiater/ollamadash/internal/refresh"
	"github.com/mwiater/ollamadash/internal/registry"
)

// Adapter is the slice of the process adapter the shell drives directly.
// Listing goes through the refresh coordinator instead.
type Adapter interface {
	CheckAvailable(ctx context.Context) error
	ShowModel(ctx context.Context, name string) (string, error)
	DeleteModel(ctx context.Context, name string) error
	StopModel(ctx context.Context, name string) error
	Pull(ctx context.Context, name, tag string) (<-chan ollamacli.PullEvent, error)
}

// tab identifies one of the dashboard views.
type tab int

const (
	tabModels tab = iota
	tabRunning
	tabSearch
)

// source maps a tab to the coordinator feed backing it.
func (t tab) source() refresh.Source {
	switch t {
	case tabRunning:
		return refresh.SourceRunning
	case tabSearch:
		return refresh.SourceCatalog
	default:
		return refresh.SourceModels
	}
}

// dialogKind is the currently open modal, if any. Each dialog produces exactly
// one terminal result which is handled inline in Update.
type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogConfirm
	dialogInfo
	dialogTags
	dialogPull
)

// confirmAction is the operation a confirmation dialog guards.
type confirmAction int

const (
	actionDelete confirmAction = iota
	actionStop
	actionPull
)

// Model is the complete UI state of the dashboard.
type Model struct {
	cfg     *appconfig.Config
	adapter Adapter
	coord   *refresh.Coordinator

	activeTab tab
	width     int
	height    int
	ready     bool

	modelsTable  table.Model
	runningTable table.Model
	searchTable  table.Model

	filterInput textinput.Model
	filtering   bool
	catalog     []registry.RemoteModel

	snaps map[refresh.Source]refresh.Snapshot

	spinner   spinner.Model
	statusMsg string
	statusErr bool
	adapterOK bool

	dialog        dialogKind
	confirmText   string
	confirmDo     confirmAction
	confirmTarget string
	confirmTag    string

	infoTitle   string
	infoView    viewport.Model
	infoLoading bool

	tagsTable table.Model
	tagsModel string
	tags      []registry.ModelTag

	pullModel   string
	pullTag     string
	pullBar     progress.Model
	pullStatus  string
	pullPercent float64
	pullDone    bool
	pullErr     error
	pullCancel  context.CancelFunc
	pullEvents  <-chan ollamacli.PullEvent
}

// newModel creates the initial dashboard state.
func newModel(cfg *appconfig.Config, adapter Adapter, coord *refresh.Coordinator) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	filter := textinput.New()
	filter.Placeholder = "Type to filter models... [/]"
	filter.CharLimit = 64

	return &Model{
		cfg:          cfg,
		adapter:      adapter,
		coord:        coord,
		activeTab:    tabModels,
		modelsTable:  newTable(modelsColumns()),
		runningTable: newTable(runningColumns()),
		searchTable:  newTable(searchColumns()),
		tagsTable:    newTable(tagsColumns()),
		filterInput:  filter,
		snaps:        make(map[refresh.Source]refresh.Snapshot),
		spinner:      s,
		pullBar:      progress.New(progress.WithDefaultGradient()),
		infoView:     viewport.New(60, 20),
		adapterOK:    true,
		pullPercent:  -1,
	}
}

// Init requests the initial model inventory and verifies the adapter binary.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		checkAdapterCmd(m.adapter),
		requestCmd(m.coord, refresh.SourceModels, false),
		requestCmd(m.coord, refresh.SourceRunning, false),
	)
}

// Start wires the adapter, scraper, cache and coordinator together and runs
// the dashboard until quit. Background fetches abandoned at shutdown are
// discarded by the coordinator, so exit never blocks on I/O.
func Start(cfg *appconfig.Config) error {
	adapter := ollamacli.New(cfg.Binary())
	scraper := registry.New(cfg.Registry(), cfg.HTTPTimeout())
	store := cache.New(cfg.CachePath(), cfg.CacheTTL())

	var p *tea.Program
	coord := refresh.New(adapter, scraper, store, refresh.Options{
		TTL:          cfg.CacheTTL(),
		PollInterval: cfg.PSRefreshInterval(),
		Notify: func(ev refresh.Event) {
			p.Send(ev)
		},
	})
	defer coord.Close()

	m := newModel(cfg, adapter, coord)
	p = tea.NewProgram(m, tea.WithAltScreen())
	coord.StartPolling()

	_, err := p.Run()
	return err
}
