// Package tui hosts effects in a Bubble Tea program.
// It maps terminal mouse and keys to pointer events, drives the frame
// clock, and renders the effect's cell buffer with lipgloss.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one animation frame. The tag identifies the
// model whose clock sent it, so a stale tick cannot start a second clock.
type TickMsg struct {
	Time time.Time
	tag  int64
}

var lastTickTag atomic.Int64

// newTickTag returns a tag unique to this process.
func newTickTag() int64 {
	return lastTickTag.Add(1)
}

// frameInterval returns the simulated time covered by one frame.
func frameInterval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Second / time.Duration(tickRate)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, tag int64) tea.Cmd {
	return tea.Tick(frameInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg{Time: t, tag: tag}
	})
}
