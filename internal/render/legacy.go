package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/hSaria/cping/internal/cping"
)

// colorScheme mirrors the teacher's output.ColorScheme, recolored for
// per-probe latency rather than per-hop RTT.
type colorScheme struct {
	Up      *color.Color
	Down    *color.Color
	Error   *color.Color
	Address *color.Color
}

func defaultColorScheme() *colorScheme {
	return &colorScheme{
		Up:      color.New(color.FgGreen),
		Down:    color.New(color.FgRed, color.Bold),
		Error:   color.New(color.FgYellow),
		Address: color.New(color.FgWhite, color.Bold),
	}
}

// Legacy is the line-oriented renderer (spec.md §6): one line per host per
// Render call, colored by outcome, in the style of the teacher's
// internal/output/text.go.
type Legacy struct {
	hosts  []Host
	out    io.Writer
	colors *colorScheme
}

// NewLegacy returns a Legacy renderer for hosts, writing to out. colors
// disables ANSI coloring when false (e.g. output redirected to a file).
func NewLegacy(hosts []Host, out io.Writer, colors bool) *Legacy {
	l := &Legacy{hosts: hosts, out: out}
	if colors {
		l.colors = defaultColorScheme()
	}
	return l
}

// Render prints one line per host reflecting its current state.
func (l *Legacy) Render() {
	for _, h := range l.hosts {
		fmt.Fprintln(l.out, l.line(h))
	}
}

// Run renders every interval until ctx is cancelled.
func (l *Legacy) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.Render()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Render()
		}
	}
}

func (l *Legacy) line(h Host) string {
	addr := h.String()
	if l.colors != nil {
		addr = l.colors.Address.Sprint(addr)
	}

	if status := h.Status(); status != "" {
		return fmt.Sprintf("%-30s  %s", addr, l.paint(l.colors.nonNilDown(), status))
	}

	results := h.Results()
	if len(results) == 0 {
		return fmt.Sprintf("%-30s  waiting...", addr)
	}

	last := results[len(results)-1]
	return fmt.Sprintf("%-30s  %s  %s", addr, l.latency(last), l.summary(h.ResultsSummary()))
}

func (l *Legacy) latency(r cping.Result) string {
	switch {
	case r.Latency == cping.TimeoutLatency:
		return l.paint(l.colors.nonNilDown(), "timeout")
	case r.Error:
		return l.paint(l.colors.nonNilError(), fmt.Sprintf("%.3f ms (error)", r.Latency*1000))
	default:
		return l.paint(l.colors.nonNilUp(), fmt.Sprintf("%.3f ms", r.Latency*1000))
	}
}

func (l *Legacy) summary(s cping.Summary) string {
	if s.Loss == nil {
		return ""
	}

	loss := fmt.Sprintf("loss=%.0f%%", *s.Loss*100)
	if s.Avg == nil {
		return loss
	}
	return fmt.Sprintf("min=%.3f avg=%.3f max=%.3f %s", *s.Min, *s.Avg, *s.Max, loss)
}

// paint applies c to s if c is non-nil, else (colors disabled) returns s.
func (l *Legacy) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// nonNilUp/nonNilDown/nonNilError guard against a nil *colorScheme (colors
// disabled) without every call site needing its own nil check.
func (c *colorScheme) nonNilUp() *color.Color {
	if c == nil {
		return nil
	}
	return c.Up
}

func (c *colorScheme) nonNilDown() *color.Color {
	if c == nil {
		return nil
	}
	return c.Down
}

func (c *colorScheme) nonNilError() *color.Color {
	if c == nil {
		return nil
	}
	return c.Error
}
