// Package tui is the read-only terminal browser of class rankings.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// chrome is the number of lines around the table: title, subtitle, help.
const chrome = 6

var columns = []table.Column{
	{Title: "Rank", Width: 4},
	{Title: "Name", Width: 24},
	{Title: "ID", Width: 6},
	{Title: "Average", Width: 8},
	{Title: "Grade", Width: 5},
}

// Model holds the browser state.
type Model struct {
	book     *gradebook.Weighted
	theme    themes.Theme
	help     help.Model
	keymap   KeyMap
	table    table.Model
	width    int
	height   int
	weighted bool
	quitting bool
}

// New creates the browser over book.
func New(book *gradebook.Weighted, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(book, cfg)
}

func newModel(book *gradebook.Weighted, cfg Config) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	styles.Cell = cfg.Theme.Cell
	t.SetStyles(styles)

	m := Model{
		book:     book,
		theme:    cfg.Theme,
		help:     help.New(),
		keymap:   DefaultKeyMap(),
		table:    t,
		weighted: cfg.Weighted,
		width:    cfg.Width,
		height:   cfg.Height,
	}
	m.handleResize()
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit), key.Matches(msg, m.keymap.ForceQuit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.ToggleWeighted):
			m.weighted = !m.weighted
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := "Rankings (Regular)"
	if m.weighted {
		title = "Rankings (Weighted)"
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n")
	if len(m.table.Rows()) == 0 {
		b.WriteString(m.theme.Subtitle.Render("No students to rank."))
	} else {
		b.WriteString(m.theme.BorderedBox.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(m.theme.Subtitle.Render(m.summary()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

// Weighted reports whether the weighted ranking is shown.
func (m Model) Weighted() bool {
	return m.weighted
}

// Selected returns the student id on the highlighted row.
func (m Model) Selected() (int, bool) {
	row := m.table.SelectedRow()
	if row == nil {
		return 0, false
	}
	id, err := strconv.Atoi(row[2])
	if err != nil {
		return 0, false
	}
	return id, true
}

func (m *Model) refresh() {
	var rankings []gradebook.Ranking
	if m.book != nil {
		if m.weighted {
			rankings = m.book.RankByWeightedAverage()
		} else {
			rankings = m.book.RankByAverage()
		}
	}

	rows := make([]table.Row, 0, len(rankings))
	for _, r := range rankings {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Rank),
			r.Name,
			strconv.Itoa(r.ID),
			fmt.Sprintf("%.2f", r.Average),
			string(r.Letter),
		})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(0)
	}
}

func (m *Model) handleResize() {
	height := m.height - chrome
	if height < 3 {
		height = 3
	}
	m.table.SetHeight(height)
	m.help.Width = m.width
}

func (m Model) summary() string {
	stats := m.book.Statistics()
	return fmt.Sprintf("%d students · class average %.2f", stats.StudentCount, stats.ClassAverage)
}
