package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/layercake-project/layercake/pkg/executor"
	"github.com/layercake-project/layercake/pkg/repository"
)

// Styles for the live execution view.
var (
	tuiTitleStyle   = lipgloss.NewStyle().Bold(true)
	tuiPendingStyle = lipgloss.NewStyle().Foreground(colorGray)
	tuiRunningStyle = lipgloss.NewStyle().Foreground(colorYellow)
	tuiDoneStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	tuiErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	tuiSkipStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// nodeRow is one Plan DAG node's live status, rendered as a single
// line in [executionModel.View].
type nodeRow struct {
	id        string
	status    repository.Status
	nodeCount int
	edgeCount int
	err       error
}

// executionModel is a bubbletea model that renders an [*executor.ExecutionHandle]'s
// progress events as they arrive, used by `plan execute --watch` in
// place of the plain line-per-event logger output.
type executionModel struct {
	events <-chan executor.ProgressEvent
	rows   map[string]nodeRow
	order  []string
	done   bool
	failed int
}

func newExecutionModel(h *executor.ExecutionHandle) executionModel {
	return executionModel{
		events: h.Events(),
		rows:   make(map[string]nodeRow),
	}
}

// progressMsg wraps one event read off the handle's channel.
type progressMsg struct {
	ev executor.ProgressEvent
	ok bool
}

func waitForEvent(events <-chan executor.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return progressMsg{ev: ev, ok: ok}
	}
}

func (m executionModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m executionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if !msg.ok {
			m.done = true
			return m, tea.Quit
		}
		ev := msg.ev
		if _, seen := m.rows[ev.DAGNodeID]; !seen {
			m.order = append(m.order, ev.DAGNodeID)
		}
		if ev.Status == repository.StatusError {
			m.failed++
		}
		m.rows[ev.DAGNodeID] = nodeRow{
			id: ev.DAGNodeID, status: ev.Status,
			nodeCount: ev.NodeCount, edgeCount: ev.EdgeCount, err: ev.Err,
		}
		return m, waitForEvent(m.events)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m executionModel) View() string {
	var b strings.Builder
	b.WriteString(tuiTitleStyle.Render("Executing Plan DAG"))
	b.WriteString("\n\n")

	ids := append([]string(nil), m.order...)
	sort.Strings(ids)
	for _, id := range ids {
		r := m.rows[id]
		b.WriteString(renderRow(r))
		b.WriteString("\n")
	}

	if m.done {
		if m.failed > 0 {
			b.WriteString("\n" + tuiErrorStyle.Render(fmt.Sprintf("%d node(s) failed", m.failed)))
		} else {
			b.WriteString("\n" + tuiDoneStyle.Render("done"))
		}
	}
	return b.String()
}

func renderRow(r nodeRow) string {
	switch r.status {
	case repository.StatusCompleted:
		return tuiDoneStyle.Render(fmt.Sprintf("✓ %s (%d nodes, %d edges)", r.id, r.nodeCount, r.edgeCount))
	case repository.StatusError:
		return tuiErrorStyle.Render(fmt.Sprintf("✗ %s: %v", r.id, r.err))
	case repository.StatusSkipped:
		return tuiSkipStyle.Render(fmt.Sprintf("- %s skipped", r.id))
	case repository.StatusRunning:
		return tuiRunningStyle.Render(fmt.Sprintf("… %s", r.id))
	default:
		return tuiPendingStyle.Render(fmt.Sprintf("  %s", r.id))
	}
}

// runExecutionTUI drives h to completion through a bubbletea program,
// returning once the handle's event channel closes.
func runExecutionTUI(h *executor.ExecutionHandle) error {
	p := tea.NewProgram(newExecutionModel(h))
	_, err := p.Run()
	return err
}
