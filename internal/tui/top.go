// Package tui renders a live leaderboard in the terminal, refreshed by
// polling the game API.
package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xoldn/intuition/internal/leaderboard"
)

// Fetcher retrieves the current leaderboard. The HTTP client satisfies it in
// production; tests substitute a canned one.
type Fetcher interface {
	Leaderboard() ([]leaderboard.Entry, error)
}

// APIFetcher polls the game server's /leaderboard endpoint.
type APIFetcher struct {
	BaseURL string
	Client  *http.Client
}

func (f *APIFetcher) Leaderboard() ([]leaderboard.Entry, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	resp, err := client.Get(f.BaseURL + "/leaderboard")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard request failed: %s", resp.Status)
	}

	var entries []leaderboard.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding leaderboard: %w", err)
	}
	return entries, nil
}

type tickMsg time.Time

type entriesMsg []leaderboard.Entry

type errMsg struct{ err error }

// TopModel is the Bubble Tea model for the leaderboard viewer.
type TopModel struct {
	fetcher  Fetcher
	interval time.Duration

	table   table.Model
	lastErr error
	updated time.Time

	styles topStyles
}

type topStyles struct {
	Title  lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

func NewTopModel(fetcher Fetcher, interval time.Duration) *TopModel {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 24},
		{Title: "Correct", Width: 8},
		{Title: "Wrong", Width: 8},
		{Title: "Score", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Bold(true)
	t.SetStyles(s)

	return &TopModel{
		fetcher:  fetcher,
		interval: interval,
		table:    t,
		styles: topStyles{
			Title: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1).
				Bold(true),
			Status: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#626262")),
			Error: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B")).
				Bold(true),
		},
	}
}

func (m *TopModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

func (m *TopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "r":
			return m, m.fetch()
		}

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case entriesMsg:
		m.lastErr = nil
		m.updated = time.Now()
		m.table.SetRows(toRows(msg))
		return m, nil

	case errMsg:
		m.lastErr = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *TopModel) View() string {
	var b []string
	b = append(b, m.styles.Title.Render("Intuition Leaderboard"))
	b = append(b, m.table.View())

	if m.lastErr != nil {
		b = append(b, m.styles.Error.Render("error: "+m.lastErr.Error()))
	} else if !m.updated.IsZero() {
		b = append(b, m.styles.Status.Render("updated "+m.updated.Format("15:04:05")+" · q to quit, r to refresh"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, b...) + "\n"
}

func (m *TopModel) fetch() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.fetcher.Leaderboard()
		if err != nil {
			return errMsg{err: err}
		}
		return entriesMsg(entries)
	}
}

func (m *TopModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func toRows(entries []leaderboard.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			e.DisplayName,
			strconv.Itoa(e.Correct),
			strconv.Itoa(e.Wrong),
			strconv.Itoa(e.Score),
		}
	}
	return rows
}
