package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoldn/intuition/internal/ledger"
)

func TestTopFiltersByMinAttempts(t *testing.T) {
	records := []ledger.Record{
		{PlayerID: "a", DisplayName: "A", Correct: 5, Wrong: 5},
		{PlayerID: "b", DisplayName: "B", Correct: 1, Wrong: 0},
		{PlayerID: "c", DisplayName: "C", Correct: 0, Wrong: 2},
	}

	top := Top(records, 10, 2)
	require.Len(t, top, 2)
	for _, r := range top {
		assert.GreaterOrEqual(t, r.Attempts(), 2)
	}
}

func TestTopSortsDescendingByScore(t *testing.T) {
	records := []ledger.Record{
		{PlayerID: "a", Correct: 1, Wrong: 4},
		{PlayerID: "b", Correct: 9, Wrong: 1},
		{PlayerID: "c", Correct: 4, Wrong: 2},
	}

	top := Top(records, 10, 1)
	require.Len(t, top, 3)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Score(), top[i].Score())
	}
	assert.Equal(t, "b", top[0].PlayerID)
}

func TestTopTruncatesToN(t *testing.T) {
	records := []ledger.Record{
		{PlayerID: "a", Correct: 3},
		{PlayerID: "b", Correct: 2},
		{PlayerID: "c", Correct: 1},
	}

	top := Top(records, 2, 1)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].PlayerID)
	assert.Equal(t, "b", top[1].PlayerID)
}

func TestTopTiesKeepInputOrder(t *testing.T) {
	records := []ledger.Record{
		{PlayerID: "first", Correct: 2, Wrong: 1},
		{PlayerID: "second", Correct: 3, Wrong: 2},
	}

	top := Top(records, 10, 1)
	require.Len(t, top, 2)
	assert.Equal(t, "first", top[0].PlayerID)
	assert.Equal(t, "second", top[1].PlayerID)
}

func TestTopEmptyInput(t *testing.T) {
	assert.Empty(t, Top(nil, 5, 1))
}

func TestEntries(t *testing.T) {
	entries := Entries([]ledger.Record{
		{PlayerID: "a", DisplayName: "Alice", Correct: 4, Wrong: 1},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, Entry{DisplayName: "Alice", Correct: 4, Wrong: 1, Score: 3}, entries[0])
}
