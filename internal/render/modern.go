package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/hSaria/cping/internal/cping"
)

// refreshInterval is how often the modern renderer redraws its table; it
// does not affect probing, only how often the screen is refreshed.
const refreshInterval = 250 * time.Millisecond

// tickMsg drives the periodic redraw.
type tickMsg time.Time

// Modern is the full-screen renderer (spec.md §6), built on bubbletea,
// lipgloss and bubbles/spinner the way the teacher's internal/tui does,
// laying out one table row per host via tablewriter. Sparkline glyphs and
// natural sort ordering are out of scope (spec.md §1); rows are in the
// order hosts were given and latency is rendered as a plain number.
type Modern struct {
	hosts   []Host
	styles  Styles
	spinner spinner.Model
	width   int
	quit    bool
}

// NewModern returns a Modern renderer for hosts.
func NewModern(hosts []Host) *Modern {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &Modern{hosts: hosts, styles: DefaultStyles(), spinner: s, width: 100}
}

// Run blocks until the user quits (q/ctrl+c/esc) or ctx is cancelled.
func (m *Modern) Run(ctx context.Context) error {
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Modern) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// Update implements tea.Model.
func (m *Modern) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tickCmd()
	}

	return m, nil
}

// View implements tea.Model.
func (m *Modern) View() string {
	if m.quit {
		return ""
	}

	title := m.styles.Title.Render("cping")

	anyRunning := false
	for _, h := range m.hosts {
		if h.IsRunning() {
			anyRunning = true
			break
		}
	}

	status := m.styles.Subtle.Render("stopped")
	if anyRunning {
		status = m.spinner.View() + " probing"
	}

	return title + "  " + status + "\n\n" + m.table() + "\n" + m.styles.Subtle.Render("press q to quit")
}

func (m *Modern) table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Host", "Status", "Min", "Avg", "Max", "StDev", "Loss"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, h := range m.hosts {
		table.Append(m.row(h))
	}

	table.Render()
	return buf.String()
}

func (m *Modern) row(h Host) []string {
	if status := h.Status(); status != "" {
		return []string{h.String(), m.styles.Down.Render(status), "-", "-", "-", "-", "-"}
	}

	results := h.Results()
	statusCol := m.styles.Subtle.Render("waiting")
	if len(results) > 0 {
		last := results[len(results)-1]
		statusCol = m.latencyCell(last)
	}

	summary := h.ResultsSummary()
	return []string{
		h.String(),
		statusCol,
		formatMs(summary.Min),
		formatMs(summary.Avg),
		formatMs(summary.Max),
		formatMs(summary.Stdev),
		formatPercent(summary.Loss),
	}
}

func (m *Modern) latencyCell(r cping.Result) string {
	switch {
	case r.Latency == cping.TimeoutLatency:
		return m.styles.Down.Render("timeout")
	case r.Error:
		return m.styles.Error.Render(fmt.Sprintf("%.3f ms", r.Latency*1000))
	default:
		return m.styles.Up.Render(fmt.Sprintf("%.3f ms", r.Latency*1000))
	}
}

func formatMs(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
