package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/qdrive/internal/storage"
)

// Run browser layout constants
const (
	runIDWidth = 8 // Shortened UUID shown in the list
	chromeRows = 8 // Title, help and borders around the table
)

// RunSource is the read side of the run log.
type RunSource interface {
	RecentRuns(limit int) ([]storage.Run, error)
	RunEpisodes(runID string) ([]storage.EpisodeRecord, error)
}

// RunsKeyMap defines the key bindings for the run browser.
type RunsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Quit},
	}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "episodes"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel is the Bubble Tea model for browsing recorded training runs.
// It shows recent runs and, on selection, the episodes of one run.
type RunsModel struct {
	source   RunSource
	limit    int
	runs     []storage.Run
	episodes []storage.EpisodeRecord
	selected *storage.Run // Run whose episodes are shown, nil in the run list
	table    table.Model
	help     help.Model
	keys     RunsKeyMap
	width    int
	height   int
	err      error
	quitting bool
}

// NewRunsModel creates a run browser and loads the most recent runs.
func NewRunsModel(source RunSource, limit, width, height int) RunsModel {
	h := help.New()
	h.Width = width

	m := RunsModel{
		source: source,
		limit:  limit,
		keys:   DefaultRunsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.runs, m.err = source.RecentRuns(limit)
	m.table = m.runTable()
	return m
}

func (m *RunsModel) newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chromeRows, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// runTable builds the run list table.
func (m *RunsModel) runTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: runIDWidth},
		{Title: "Seed", Width: 20},
		{Title: "Episodes", Width: 8},
		{Title: "States", Width: 8},
		{Title: "Best", Width: 8},
		{Title: "Date", Width: 16},
	}
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = RunRow(r)
	}
	return m.newTable(columns, rows)
}

// episodeTable builds the episode table for the selected run.
func (m *RunsModel) episodeTable() table.Model {
	columns := []table.Column{
		{Title: "Episode", Width: 8},
		{Title: "Reward", Width: 10},
		{Title: "Steps", Width: 8},
		{Title: "Epsilon", Width: 8},
		{Title: "Survival", Width: 10},
	}
	rows := make([]table.Row, len(m.episodes))
	for i, e := range m.episodes {
		rows[i] = EpisodeRow(e)
	}
	return m.newTable(columns, rows)
}

// RunRow formats a run for display.
func RunRow(r storage.Run) table.Row {
	id := r.ID
	if len(id) > runIDWidth {
		id = id[:runIDWidth]
	}
	date := ""
	if !r.CreatedAt.IsZero() {
		date = r.CreatedAt.Format("Jan 02 15:04")
	}
	return table.Row{
		id,
		fmt.Sprintf("%d", r.Seed),
		fmt.Sprintf("%d", r.Episodes),
		fmt.Sprintf("%d", r.States),
		fmt.Sprintf("%.0f", r.BestReward),
		date,
	}
}

// EpisodeRow formats an episode for display.
func EpisodeRow(e storage.EpisodeRecord) table.Row {
	return table.Row{
		fmt.Sprintf("%d", e.Episode),
		fmt.Sprintf("%.0f", e.TotalReward),
		fmt.Sprintf("%d", e.Steps),
		fmt.Sprintf("%.2f", e.Epsilon),
		fmt.Sprintf("%.1fs", e.Survival),
	}
}

// Init initializes the run browser.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.selected == nil {
				m.quitting = true
				return m, tea.Quit
			}
			m.selected = nil
			m.episodes = nil
			m.table = m.runTable()
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.selected != nil || len(m.runs) == 0 {
				return m, nil
			}
			run := m.runs[m.table.Cursor()]
			m.selected = &run
			m.episodes, m.err = m.source.RunEpisodes(run.ID)
			m.table = m.episodeTable()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.selected == nil {
			m.table = m.runTable()
		} else {
			m.table = m.episodeTable()
		}
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the run browser.
func (m RunsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "TRAINING RUNS"
	if m.selected != nil {
		title = fmt.Sprintf("RUN %s - seed %d", m.selected.ID, m.selected.Seed)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boxStyle.Render(m.tableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// tableContent renders the table, an error, or an empty message.
func (m RunsModel) tableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not load runs:\n" + m.err.Error())
	case m.selected == nil && len(m.runs) == 0:
		return emptyStyle.Render("No runs recorded yet.\nTrain with --db to start a run log.")
	case m.selected != nil && len(m.episodes) == 0:
		return emptyStyle.Render("This run has no recorded episodes.")
	}
	return m.table.View()
}

// Selected returns the run whose episodes are displayed, or nil.
func (m RunsModel) Selected() *storage.Run {
	return m.selected
}

// RunRuns runs the run browser until the user quits.
func RunRuns(source RunSource, limit, width, height int) error {
	p := tea.NewProgram(
		NewRunsModel(source, limit, width, height),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: run browser: %w", err)
	}
	return nil
}
