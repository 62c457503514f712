package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoldn/intuition/internal/leaderboard"
)

type cannedFetcher struct {
	entries []leaderboard.Entry
	err     error
}

func (f *cannedFetcher) Leaderboard() ([]leaderboard.Entry, error) {
	return f.entries, f.err
}

func TestFetchPopulatesTable(t *testing.T) {
	t.Parallel()

	fetcher := &cannedFetcher{entries: []leaderboard.Entry{
		{DisplayName: "alice", Correct: 9, Wrong: 2, Score: 7},
		{DisplayName: "bob", Correct: 4, Wrong: 1, Score: 3},
	}}
	m := NewTopModel(fetcher, time.Second)

	msg := m.fetch()()
	updated, _ := m.Update(msg)
	view := updated.View()

	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "bob")
	assert.Contains(t, view, "Intuition Leaderboard")
}

func TestFetchErrorShownInView(t *testing.T) {
	t.Parallel()

	fetcher := &cannedFetcher{err: errors.New("connection refused")}
	m := NewTopModel(fetcher, time.Second)

	msg := m.fetch()()
	updated, _ := m.Update(msg)

	assert.Contains(t, updated.View(), "connection refused")
}

func TestErrorClearedOnNextSuccess(t *testing.T) {
	t.Parallel()

	fetcher := &cannedFetcher{err: errors.New("connection refused")}
	m := NewTopModel(fetcher, time.Second)

	updated, _ := m.Update(m.fetch()())

	fetcher.err = nil
	fetcher.entries = []leaderboard.Entry{{DisplayName: "alice", Score: 1}}
	model := updated.(*TopModel)
	updated, _ = model.Update(model.fetch()())

	assert.NotContains(t, updated.View(), "connection refused")
	assert.Contains(t, updated.View(), "alice")
}

func TestQuitKeys(t *testing.T) {
	t.Parallel()

	m := NewTopModel(&cannedFetcher{}, time.Second)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
}

func TestAPIFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/leaderboard", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]leaderboard.Entry{
			{DisplayName: "alice", Correct: 5, Wrong: 1, Score: 4},
		})
	}))
	defer srv.Close()

	fetcher := &APIFetcher{BaseURL: srv.URL}
	entries, err := fetcher.Leaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].DisplayName)
	assert.Equal(t, 4, entries[0].Score)
}

func TestAPIFetcherServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	fetcher := &APIFetcher{BaseURL: srv.URL}
	_, err := fetcher.Leaderboard()
	require.Error(t, err)
}
