// Package ui renders a live view of `sjtc build`.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sjtc/internal/driver"
)

// stageInfo is the row label and the share of a file's work finished once
// the stage has started.
type stageInfo struct {
	label  string
	weight float64
}

var stages = map[driver.Stage]stageInfo{
	driver.StageExpand:   {"expanding", 0.1},
	driver.StageTokenize: {"tokenizing", 0.3},
	driver.StageEmit:     {"emitting", 0.5},
	driver.StageValidate: {"checking", 0.7},
	driver.StageWrite:    {"writing", 0.9},
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

const labelWidth = 12

type row struct {
	file    string
	status  driver.Status
	stage   driver.Stage
	elapsed time.Duration
}

func (r row) label() string {
	switch r.status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	}
	return stages[r.stage].label
}

func (r row) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spin    spinner.Model
	bar     progress.Model
	rows    []row
	byFile  map[string]int
	failed  int
	settled int
	width   int
	closed  bool
}

type eventMsg driver.Event

// closedMsg reports that the event channel was closed.
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows one row per file
// and quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(workingStyle)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:   make([]row, len(files)),
		byFile: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = row{file: f, status: driver.StatusQueued}
		m.byFile[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next)
}

// next blocks until the build reports another event.
func (m *progressModel) next() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return closedMsg{}
	}
	return eventMsg(ev)
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next)
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records ev on its row. Events for unknown files are ignored.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byFile[ev.File]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	if ev.Status == driver.StatusWorking {
		if _, known := stages[ev.Stage]; !known {
			return nil
		}
		r.stage = ev.Stage
	}
	if !r.finished() && (ev.Status == driver.StatusDone || ev.Status == driver.StatusError) {
		m.settled++
		if ev.Status == driver.StatusError {
			m.failed++
		}
	}
	r.status = ev.Status
	r.elapsed = ev.Elapsed
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		if r.finished() {
			sum++
			continue
		}
		sum += stages[r.stage].weight
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) header() string {
	if !m.closed {
		return fmt.Sprintf("%s %s [%d/%d]", m.spin.View(), m.title, m.settled, len(m.rows))
	}
	h := "done: " + m.title
	if m.failed > 0 {
		h += fmt.Sprintf(" (%d failed)", m.failed)
	}
	return h
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-labelWidth-14, 20)
	for _, r := range m.rows {
		label := styleFor(r.status).Render(fmt.Sprintf("%*s", labelWidth, r.label()))
		fmt.Fprintf(&b, "  %s %s", label, truncate(r.file, nameWidth))
		if r.finished() && r.elapsed > 0 {
			b.WriteString(dimStyle.Render(" " + r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func styleFor(s driver.Status) lipgloss.Style {
	switch s {
	case driver.StatusQueued:
		return queuedStyle
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return errorStyle
	}
	return workingStyle
}

// truncate clips value to width terminal cells with a "..." tail.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
