package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/qdrive/internal/core"
	"github.com/vovakirdan/qdrive/internal/playback"
)

// statusRows is the number of terminal rows below the playfield.
const statusRows = 1

// Status row styles.
var (
	playingStyle = cellStyle(core.ColorGreen, core.ColorDefault)
	pausedStyle  = cellStyle(core.ColorYellow, core.ColorDefault)
	statusStyle  = cellStyle(core.ColorGray, core.ColorDefault)
)

// Model is the Bubble Tea model that plays back a trained policy.
type Model struct {
	session  *playback.Session
	screen   *core.Screen
	frame    playback.Frame
	keys     PlaybackKeyMap
	help     help.Model
	fps      int
	paused   bool
	status   bool // Show episode and decision details in the status row
	quitting bool
}

// NewModel creates a playback model for the terminal described by rc.
// A zero TickRate falls back to the session's playback rate.
func NewModel(session *playback.Session, rc core.RuntimeConfig) Model {
	fps := rc.TickRate
	if fps <= 0 {
		fps = session.Config().Playback.FPS
	}
	h := help.New()
	h.Width = rc.ScreenW
	return Model{
		session: session,
		screen:  core.NewScreen(rc.ScreenW, core.Max(rc.ScreenH-statusRows, 0)),
		frame:   session.Frame(),
		keys:    DefaultPlaybackKeyMap(),
		help:    h,
		fps:     fps,
		status:  true,
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, core.Max(msg.Height-statusRows, 0))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Help):
		m.status = !m.status
	}
	return m, nil
}

// handleTick advances playback by one frame unless paused.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if !m.paused {
		m.frame = m.session.Step()
	}
	return m, tickCmd(m.fps)
}

// View renders the current frame to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawFrame(m.screen, m.frame)
	return RenderScreen(m.screen, m.frame.Background) + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	if !m.status {
		return statusStyle.Render(m.help.View(m.keys))
	}
	state := playingStyle.Render("playing")
	if m.paused {
		state = pausedStyle.Render("paused")
	}
	return statusStyle.Render(fmt.Sprintf("episode %d  ", m.frame.Episode)) + state +
		statusStyle.Render(fmt.Sprintf("  action %s (%s)  states %d  ",
			m.frame.Decision.Action, m.frame.Decision.Source, m.frame.States,
		)) + statusStyle.Render(m.help.View(m.keys))
}

// Frame returns the most recently played frame.
func (m Model) Frame() playback.Frame {
	return m.frame
}

// Paused reports whether playback is paused.
func (m Model) Paused() bool {
	return m.paused
}

// Run starts a local Bubble Tea program for the session and blocks until the
// window is closed.
func Run(session *playback.Session, rc core.RuntimeConfig) error {
	model := NewModel(session, rc)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: playback: %w", err)
	}
	return nil
}
