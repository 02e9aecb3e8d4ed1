package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/registry"
	"github.com/vovakirdan/tui-cosmos/internal/storage"
)

// LocalUser is recorded for sessions run in the local terminal.
const LocalUser = "local"

// statusSource is implemented by effects that expose pointer state.
type statusSource interface {
	Paused() bool
	Dragging() bool
	Scale() float64
}

// Options configures a Model.
type Options struct {
	Store    *storage.Store     // Session telemetry; nil disables saving
	Logger   *log.Logger        // Host logger; nil discards
	User     string             // Recorded with the session
	Renderer *lipgloss.Renderer // Output renderer; nil uses the local terminal
	Embedded bool               // Back returns to a host menu instead of quitting
}

// Model is the Bubble Tea model for running one effect.
type Model struct {
	effect  registry.Effect
	screen  *core.Screen
	config  core.RuntimeConfig
	opts    Options
	keys    KeyMap
	help    help.Model
	painter *Painter
	tickTag int64
	started time.Time

	quitting   bool
	backToMenu bool
	saved      bool
}

// NewModel creates a new Bubble Tea model for the given effect.
// cfg holds the full terminal size; one row is kept for the footer.
func NewModel(effect registry.Effect, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.User == "" {
		opts.User = LocalUser
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		effect:  effect,
		config:  cfg,
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    h,
		painter: NewPainter(opts.Renderer),
		tickTag: newTickTag(),
	}
	m.screen = core.NewScreen(m.effectSize())
	return m
}

// footerHeight returns the rows taken by the help footer.
func (m Model) footerHeight() int {
	if !m.help.ShowAll {
		return 1
	}
	rows := 1
	for _, col := range m.keys.FullHelp() {
		rows = core.Max(rows, len(col))
	}
	return rows
}

// effectSize returns the cell area given to the effect.
func (m Model) effectSize() (int, int) {
	return m.config.ScreenW, core.Max(m.config.ScreenH-m.footerHeight(), 1)
}

// effectConfig returns the runtime config seen by the effect.
func (m Model) effectConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenW, cfg.ScreenH = m.effectSize()
	return cfg
}

// Init lays out the effect and starts the frame clock.
func (m Model) Init() tea.Cmd {
	m.effect.Reset(m.effectConfig())
	return tickCmd(m.config.TickRate, m.tickTag)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.tag != m.tickTag || m.quitting || m.backToMenu {
			return m, nil
		}
		if m.started.IsZero() {
			m.started = msg.Time
		}
		m.effect.Step(frameInterval(m.config.TickRate))
		return m, tickCmd(m.config.TickRate, m.tickTag)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		if err := m.saveScreenshot(); err != nil {
			m.opts.Logger.Warn("screenshot failed", "error", err)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.finish()
		m.backToMenu = true
		if m.opts.Embedded {
			return m, nil
		}
		return m, tea.Quit
	}

	switch a := m.keys.Action(msg); a {
	case core.ActionQuit:
		m.finish()
		m.quitting = true
		return m, tea.Quit
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
	case core.ActionNone:
	default:
		m.effect.Do(a)
	}
	return m, nil
}

// handleMouse converts a terminal mouse event to container pixels.
// Presses on the footer are ignored; releases always end a drag.
func (m Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.effect.Do(core.ActionZoomIn)
		return
	case tea.MouseButtonWheelDown:
		m.effect.Do(core.ActionZoomOut)
		return
	}

	pos := m.config.CellToPx(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionRelease:
		m.effect.Handle(core.InputEvent{Type: core.EventPointerUp, Pos: pos})
	case tea.MouseActionMotion:
		m.effect.Handle(core.InputEvent{Type: core.EventPointerMove, Pos: pos})
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.screen.InBounds(msg.X, msg.Y) {
			return
		}
		m.effect.Handle(core.InputEvent{Type: core.EventPointerDown, Pos: pos})
	}
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if msg.Width == m.config.ScreenW && msg.Height == m.config.ScreenH {
		return m, nil
	}
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.relayout()
	return m, nil
}

// relayout resizes the buffer now; the effect rebuilds after its debounce.
func (m *Model) relayout() {
	w, h := m.effectSize()
	if w == m.screen.Width() && h == m.screen.Height() {
		return
	}
	m.screen.Resize(w, h)
	m.effect.Resize(w, h)
}

// finish records the session and releases the effect. Safe to call twice.
func (m *Model) finish() {
	if m.saved {
		return
	}
	m.saved = true
	sess := m.Session()
	m.effect.Close()

	if m.opts.Store == nil || sess.Frames == 0 {
		return
	}
	if _, err := m.opts.Store.SaveSession(sess); err != nil {
		m.opts.Logger.Warn("could not save session", "effect", sess.EffectID, "error", err)
	}
}

// Session returns the telemetry of the run so far.
func (m Model) Session() storage.Session {
	st := m.effect.Stats()
	var d time.Duration
	if !m.started.IsZero() {
		d = time.Since(m.started)
	}
	return storage.Session{
		EffectID:      m.effect.ID(),
		User:          m.opts.User,
		Duration:      d,
		Frames:        st.Frames,
		CometsSpawned: st.CometsSpawned,
		Explosions:    st.Explosions,
		PeakScale:     st.PeakScale,
	}
}

// saveScreenshot saves the current frame as plain text.
func (m *Model) saveScreenshot() error {
	m.screen.Clear()
	m.effect.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".cosmos", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.effect.ID(), timestamp))
	return os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current frame and the footer.
func (m Model) View() string {
	if m.quitting || (m.backToMenu && !m.opts.Embedded) {
		return ""
	}

	m.screen.Clear()
	m.effect.Render(m.screen)
	if src, ok := m.effect.(statusSource); ok && src.Paused() {
		m.screen.DrawTextCentered(m.screen.Height()-1, "p a u s e d", core.ColorGray)
	}

	var b strings.Builder
	b.WriteString(m.painter.RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

// footer renders key help on the left and pointer state on the right.
func (m Model) footer() string {
	dim := m.painter.Style().Foreground(lipgloss.Color("241"))
	left := dim.Render(m.help.View(m.keys))
	right := dim.Render(m.status())

	gap := m.config.ScreenW - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 || m.help.ShowAll {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// status describes pause, drag, and zoom state.
func (m Model) status() string {
	src, ok := m.effect.(statusSource)
	if !ok {
		return m.effect.Title()
	}
	parts := []string{m.effect.Title()}
	if src.Paused() {
		parts = append(parts, "paused")
	}
	if src.Dragging() {
		parts = append(parts, "grabbing")
	}
	parts = append(parts, fmt.Sprintf("x%.2f", src.Scale()))
	return strings.Join(parts, " · ")
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Config returns the terminal config, updated by resizes.
func (m Model) Config() core.RuntimeConfig {
	return m.config
}

// RunResult reports how an effect run ended.
type RunResult struct {
	BackToMenu bool
	Config     core.RuntimeConfig
}

// Run starts a Bubble Tea program for the effect in the local terminal.
func Run(effect registry.Effect, cfg core.RuntimeConfig, opts Options) (RunResult, error) {
	model := NewModel(effect, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return RunResult{Config: cfg}, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return RunResult{Config: cfg}, nil
	}
	m.finish()
	return RunResult{BackToMenu: m.BackToMenu(), Config: m.Config()}, nil
}
