// internal/tui/update.go
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/ollamadash/internal/ollamacli"
	"github.com/mwiater/ollamadash/internal/refresh"
	"github.com/mwiater/ollamadash/internal/registry"
	"github.com/mwiater/ollamadash/internal/util"
)

// adapterCheckMsg reports whether the ollama binary is usable.
type adapterCheckMsg struct{ err error }

// infoMsg carries the `ollama show` text for the info dialog.
type infoMsg struct {
	name string
	text string
	err  error
}

// tagsMsg carries the fetched version tags for the selection dialog.
type tagsMsg struct {
	model string
	tags  []registry.ModelTag
	err   error
}

// actionDoneMsg reports the outcome of a delete or stop operation.
type actionDoneMsg struct {
	verb string
	name string
	err  error
}

// pullStartedMsg carries the progress stream of a freshly launched pull.
type pullStartedMsg struct {
	events <-chan ollamacli.PullEvent
	cancel context.CancelFunc
	err    error
}

// pullProgressMsg is one event received from the pull stream. open is false
// once the stream has closed.
type pullProgressMsg struct {
	event ollamacli.PullEvent
	open  bool
}

// checkAdapterCmd verifies the external binary in the background.
func checkAdapterCmd(adapter Adapter) tea.Cmd {
	return func() tea.Msg {
		return adapterCheckMsg{err: adapter.CheckAvailable(context.Background())}
	}
}

// requestCmd asks the coordinator for a source refresh. Completion arrives
// later as a refresh.Event, so no message is produced here.
func requestCmd(coord *refresh.Coordinator, source refresh.Source, force bool) tea.Cmd {
	return func() tea.Msg {
		coord.Request(source, force)
		return nil
	}
}

// showModelCmd loads the detail text for the info dialog.
func (m *Model) showModelCmd(name string) tea.Cmd {
	return func() tea.Msg {
		text, err := m.adapter.ShowModel(context.Background(), name)
		return infoMsg{name: name, text: text, err: err}
	}
}

// fetchTagsCmd loads the version tags for one model via the coordinator's
// cache-backed lookup.
func (m *Model) fetchTagsCmd(name string) tea.Cmd {
	return func() tea.Msg {
		tags, err := m.coord.Tags(context.Background(), name)
		return tagsMsg{model: name, tags: tags, err: err}
	}
}

// deleteModelCmd removes a local model.
func (m *Model) deleteModelCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{verb: "delete", name: name, err: m.adapter.DeleteModel(context.Background(), name)}
	}
}

// stopModelCmd unloads a running model.
func (m *Model) stopModelCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{verb: "stop", name: name, err: m.adapter.StopModel(context.Background(), name)}
	}
}

// startPullCmd launches the pull process and hands its event stream back.
func (m *Model) startPullCmd(name, tag string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		events, err := m.adapter.Pull(ctx, name, tag)
		if err != nil {
			cancel()
			return pullStartedMsg{err: err}
		}
		return pullStartedMsg{events: events, cancel: cancel}
	}
}

// awaitPullEventCmd receives the next progress event from the stream.
func awaitPullEventCmd(events <-chan ollamacli.PullEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return pullProgressMsg{event: ev, open: ok}
	}
}

// Update is the central message handler for the dashboard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refresh.Event:
		m.applySnapshot(msg.Source, msg.Snapshot)
		if msg.Snapshot.Phase == refresh.Failed {
			m.setStatus(describeFailure(msg.Source, msg.Snapshot), true)
		}
		return m, nil

	case adapterCheckMsg:
		m.adapterOK = msg.err == nil
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("ollama unavailable: %v (registry browsing still works)", msg.err), true)
		}
		return m, nil

	case infoMsg:
		if m.dialog != dialogInfo || msg.name != m.infoTitle {
			return m, nil
		}
		m.infoLoading = false
		if msg.err != nil {
			m.infoView.SetContent(fmt.Sprintf("Error: %v", msg.err))
		} else {
			m.infoView.SetContent(util.WrapToWidth(msg.text, m.infoView.Width))
		}
		return m, nil

	case tagsMsg:
		if m.dialog != dialogTags || msg.model != m.tagsModel {
			return m, nil
		}
		if msg.err != nil {
			m.dialog = dialogNone
			m.setStatus(fmt.Sprintf("could not load tags for %s: %v", msg.model, msg.err), true)
			return m, nil
		}
		m.tags = msg.tags
		rows := make([]table.Row, 0, len(msg.tags))
		for _, t := range msg.tags {
			rows = append(rows, table.Row{tagSuffix(t.Tag), t.Size})
		}
		m.tagsTable.SetRows(rows)
		m.tagsTable.SetCursor(0)
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("%s %s failed: %v", msg.verb, msg.name, msg.err), true)
			return m, nil
		}
		switch msg.verb {
		case "delete":
			m.setStatus(fmt.Sprintf("Deleted %s", msg.name), false)
			return m, requestCmd(m.coord, refresh.SourceModels, true)
		case "stop":
			m.setStatus(fmt.Sprintf("Stopped %s", msg.name), false)
			return m, requestCmd(m.coord, refresh.SourceRunning, true)
		}
		return m, nil

	case pullStartedMsg:
		if m.dialog != dialogPull {
			// Dialog already dismissed: abandon the stream.
			if msg.cancel != nil {
				msg.cancel()
			}
			return m, nil
		}
		if msg.err != nil {
			m.pullDone = true
			m.pullErr = msg.err
			m.pullStatus = fmt.Sprintf("Failed to start: %v", msg.err)
			return m, nil
		}
		m.pullEvents = msg.events
		m.pullCancel = msg.cancel
		m.pullStatus = "Starting..."
		return m, awaitPullEventCmd(msg.events)

	case pullProgressMsg:
		return m.updatePull(msg)

	case tea.KeyMsg:
		if m.dialog != dialogNone {
			return m.updateDialog(msg)
		}
		return m.updateMain(msg)
	}

	// Remaining messages (mouse, blink, ...) go to the focused component.
	return m.updateFocused(msg)
}

// updatePull advances the pull-progress dialog by one stream event.
func (m *Model) updatePull(msg pullProgressMsg) (tea.Model, tea.Cmd) {
	if m.dialog != dialogPull {
		return m, nil
	}
	if !msg.open {
		// Stream closed without a terminal event: treated as cancelled.
		return m, nil
	}

	ev := msg.event
	if ev.Done {
		m.pullDone = true
		if ev.Err != nil {
			m.pullErr = ev.Err
			m.pullStatus = fmt.Sprintf("Error: %v", ev.Err)
			// Dialog stays open so the failure is visible.
			return m, awaitPullEventCmd(m.pullEvents)
		}
		m.pullPercent = 100
		m.closePullDialog()
		m.activeTab = tabModels
		m.setStatus(fmt.Sprintf("Pulled %s", pullRef(m.pullModel, m.pullTag)), false)
		return m, requestCmd(m.coord, refresh.SourceModels, true)
	}

	if ev.Status != "" {
		m.pullStatus = ev.Status
	}
	if ev.Percent >= 0 {
		m.pullPercent = ev.Percent
	}
	return m, awaitPullEventCmd(m.pullEvents)
}

// updateMain handles keys while no dialog is open.
func (m *Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.updateFilter(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1":
		return m, m.switchTab(tabModels)
	case "2":
		return m, m.switchTab(tabRunning)
	case "3":
		return m, m.switchTab(tabSearch)
	case "left":
		return m, m.switchTab((m.activeTab + 2) % 3)
	case "right":
		return m, m.switchTab((m.activeTab + 1) % 3)

	case "r":
		m.setStatus("Refreshing...", false)
		return m, requestCmd(m.coord, m.activeTab.source(), true)

	case "/":
		if m.activeTab == tabSearch {
			m.filtering = true
			return m, m.filterInput.Focus()
		}

	case "d":
		if m.activeTab == tabModels {
			if name := m.selectedName(); name != "" {
				m.openConfirm(actionDelete, name, "", fmt.Sprintf("Delete model %q?", name))
			}
			return m, nil
		}

	case "s":
		if m.activeTab == tabRunning {
			if name := m.selectedName(); name != "" {
				m.openConfirm(actionStop, name, "", fmt.Sprintf("Stop model %q?", name))
			}
			return m, nil
		}

	case "enter":
		switch m.activeTab {
		case tabModels:
			if name := m.selectedName(); name != "" {
				m.dialog = dialogInfo
				m.infoTitle = name
				m.infoLoading = true
				m.infoView.SetContent("")
				m.infoView.GotoTop()
				return m, m.showModelCmd(name)
			}
		case tabSearch:
			if name := m.selectedName(); name != "" {
				m.dialog = dialogTags
				m.tagsModel = name
				m.tags = nil
				m.tagsTable.SetRows(nil)
				return m, m.fetchTagsCmd(name)
			}
		}
		return m, nil

	case "esc":
		m.clearStatus()
		return m, nil
	}

	var cmd tea.Cmd
	active := m.activeTable()
	*active, cmd = active.Update(msg)
	return m, cmd
}

// updateFilter handles keys while the search filter input is focused.
func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyCatalogFilter()
	return m, cmd
}

// updateDialog handles keys while a modal dialog is open.
func (m *Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.dialog {
	case dialogConfirm:
		switch msg.String() {
		case "y", "enter":
			return m.confirmAccepted()
		case "n", "esc":
			m.dialog = dialogNone
			return m, nil
		}
		return m, nil

	case dialogInfo:
		switch msg.String() {
		case "esc", "q", "enter":
			m.dialog = dialogNone
			return m, nil
		}
		var cmd tea.Cmd
		m.infoView, cmd = m.infoView.Update(msg)
		return m, cmd

	case dialogTags:
		switch msg.String() {
		case "esc":
			m.dialog = dialogNone
			return m, nil
		case "enter":
			if len(m.tags) == 0 {
				return m, nil
			}
			idx := m.tagsTable.Cursor()
			if idx < 0 || idx >= len(m.tags) {
				return m, nil
			}
			full := m.tags[idx].Tag
			tag := tagSuffix(full)
			m.openConfirm(actionPull, m.tagsModel, tag, fmt.Sprintf("Pull %s?", pullRef(m.tagsModel, tag)))
			return m, nil
		}
		var cmd tea.Cmd
		m.tagsTable, cmd = m.tagsTable.Update(msg)
		return m, cmd

	case dialogPull:
		if !m.pullDone {
			switch msg.String() {
			case "esc", "c":
				if m.pullCancel != nil {
					m.pullCancel()
				}
				m.closePullDialog()
				m.setStatus(fmt.Sprintf("Cancelled pull of %s", pullRef(m.pullModel, m.pullTag)), false)
			}
			return m, nil
		}
		switch msg.String() {
		case "esc", "enter", "q":
			m.closePullDialog()
		}
		return m, nil
	}

	m.dialog = dialogNone
	return m, nil
}

// confirmAccepted executes the operation a confirmation dialog guarded.
func (m *Model) confirmAccepted() (tea.Model, tea.Cmd) {
	name, tag := m.confirmTarget, m.confirmTag
	m.dialog = dialogNone

	switch m.confirmDo {
	case actionDelete:
		m.setStatus(fmt.Sprintf("Deleting %s...", name), false)
		return m, m.deleteModelCmd(name)
	case actionStop:
		m.setStatus(fmt.Sprintf("Stopping %s...", name), false)
		return m, m.stopModelCmd(name)
	case actionPull:
		m.dialog = dialogPull
		m.pullModel = name
		m.pullTag = tag
		m.pullStatus = "Starting..."
		m.pullPercent = -1
		m.pullDone = false
		m.pullErr = nil
		return m, m.startPullCmd(name, tag)
	}
	return m, nil
}

// updateFocused forwards non-key messages to the component that owns them.
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.dialog == dialogInfo:
		m.infoView, cmd = m.infoView.Update(msg)
	case m.dialog == dialogTags:
		m.tagsTable, cmd = m.tagsTable.Update(msg)
	case m.filtering:
		m.filterInput, cmd = m.filterInput.Update(msg)
	default:
		active := m.activeTable()
		*active, cmd = active.Update(msg)
	}
	return m, cmd
}

// switchTab activates a tab and requests its backing source, serving cached
// data immediately and refreshing only when stale.
func (m *Model) switchTab(t tab) tea.Cmd {
	m.activeTab = t
	m.filtering = false
	m.filterInput.Blur()
	return requestCmd(m.coord, t.source(), false)
}

// openConfirm arms the confirmation dialog.
func (m *Model) openConfirm(do confirmAction, target, tag, text string) {
	m.dialog = dialogConfirm
	m.confirmDo = do
	m.confirmTarget = target
	m.confirmTag = tag
	m.confirmText = text
}

// closePullDialog tears down pull dialog state. The producer goroutine stops
// once its context is cancelled or the terminal event is consumed.
func (m *Model) closePullDialog() {
	m.dialog = dialogNone
	m.pullCancel = nil
	m.pullEvents = nil
}

// setStatus shows a dismissible status-line notification.
func (m *Model) setStatus(text string, isErr bool) {
	m.statusMsg = text
	m.statusErr = isErr
}

// clearStatus dismisses the status-line notification.
func (m *Model) clearStatus() {
	m.statusMsg = ""
	m.statusErr = false
}

// describeFailure renders a background fetch failure for the status line,
// noting when stale data remains on screen.
func describeFailure(source refresh.Source, snap refresh.Snapshot) string {
	msg := fmt.Sprintf("%s refresh failed: %v", source, snap.Err)
	if snap.LastGood != nil {
		msg += " (showing last known data)"
	}
	return msg
}

// tagSuffix shortens "llama3:8b" to "8b" for display; the full tag is kept
// for the actual pull.
func tagSuffix(full string) string {
	if i := strings.Index(full, ":"); i >= 0 {
		return full[i+1:]
	}
	return full
}

// pullRef joins a model name and tag into the reference passed to the puller.
func pullRef(name, tag string) string {
	if tag == "" {
		return name
	}
	return name + ":" + tag
}
