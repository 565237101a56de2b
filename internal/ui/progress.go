package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"vtlint/internal/runner"
)

// recentLimit bounds the list of finished files kept on screen.
const recentLimit = 8

type progressModel struct {
	title    string
	events   <-chan runner.Event
	spinner  spinner.Model
	prog     progress.Model
	total    int
	finished int
	errors   int
	warnings int
	checking []string
	recent   []fileItem
	width    int
	done     bool
	cancel   func()
	stopping bool
}

type fileItem struct {
	path     string
	status   runner.Status
	errors   int
	warnings int
}

type eventMsg runner.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders lint progress
// for files, fed by events until the channel is closed. The terminal is in
// raw mode while it runs, so ctrl+c arrives as a key and is turned into a
// call to cancel.
func NewProgressModel(title string, files []string, events <-chan runner.Event, cancel func()) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   len(files),
		width:   80,
		cancel:  cancel,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(runner.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// keep draining events until the runner closes the channel
		if msg.Type == tea.KeyCtrlC && !m.stopping {
			m.stopping = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.finished, m.total)
	switch {
	case m.done:
		header = "done: " + header
	case m.stopping:
		header = m.spinner.View() + " stopping: " + header
	default:
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(styleStatus(runner.StatusError).Render(fmt.Sprintf("  %d errors", m.errors)))
	b.WriteString(styleStatus(runner.StatusQueued).Render(fmt.Sprintf("  %d warnings", m.warnings)))
	b.WriteString("\n\n")

	statusWidth := 10
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, item := range m.recent {
		label := string(item.status)
		if item.errors > 0 {
			label = fmt.Sprintf("%d err", item.errors)
		}
		fmt.Fprintf(&b, "  %s %s\n", styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, label)), truncate(item.path, nameWidth))
	}
	for _, path := range m.checking {
		fmt.Fprintf(&b, "  %s %s\n", styleStatus(runner.StatusChecking).Render(fmt.Sprintf("%*s", statusWidth, runner.StatusChecking)), truncate(path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev runner.Event) tea.Cmd {
	switch ev.Status {
	case runner.StatusQueued:
		return nil
	case runner.StatusChecking:
		m.checking = append(m.checking, ev.File)
		return nil
	}

	for i, path := range m.checking {
		if path == ev.File {
			m.checking = append(m.checking[:i], m.checking[i+1:]...)
			break
		}
	}
	m.finished++
	m.errors += ev.Errors
	m.warnings += ev.Warnings
	m.recent = append(m.recent, fileItem{path: ev.File, status: ev.Status, errors: ev.Errors, warnings: ev.Warnings})
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}
	if m.total == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.finished) / float64(m.total))
}

func styleStatus(status runner.Status) lipgloss.Style {
	switch status {
	case runner.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case runner.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case runner.StatusChecking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// keep the file name, drop the leading directories
	return "..." + runewidth.TruncateLeft(value, runewidth.StringWidth(value)-width+3, "")
}
