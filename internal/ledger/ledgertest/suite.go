// Package ledgertest runs the Store contract against any implementation.
// Both the in-memory and SQLite stores must pass the same suite.
package ledgertest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoldn/intuition/internal/ledger"
)

// Factory returns a fresh, empty store. The suite opens one per subtest, so
// implementations backed by shared state must isolate each call.
type Factory func(t *testing.T) ledger.Store

// Run exercises the full Store contract against the implementation under
// test.
func Run(t *testing.T, open Factory) {
	ctx := context.Background()

	t.Run("record outcome creates and increments", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
		require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", false))
		require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", false))

		r, err := s.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, r.Correct)
		assert.Equal(t, 2, r.Wrong)
		assert.Equal(t, 3, r.Attempts())
		assert.Equal(t, -1, r.Score())
	})

	t.Run("display name last write wins", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.RecordOutcome(ctx, "u1", "Old", true))
		require.NoError(t, s.RecordOutcome(ctx, "u1", "New", true))

		r, err := s.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "New", r.DisplayName)
	})

	t.Run("empty display name keeps stored one", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
		require.NoError(t, s.RecordOutcome(ctx, "u1", "", false))

		r, err := s.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", r.DisplayName)
	})

	t.Run("unknown player gets zero record", func(t *testing.T) {
		s := open(t)
		r, err := s.Get(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, ledger.DefaultDisplayName, r.DisplayName)
		assert.Equal(t, 0, r.Attempts())
	})

	t.Run("set display name is a no-op for unknown players", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetDisplayName(ctx, "ghost", "Boo"))

		r, err := s.Get(ctx, "ghost")
		require.NoError(t, err)
		assert.Equal(t, ledger.DefaultDisplayName, r.DisplayName)
		assert.Equal(t, 0, r.Attempts())
	})

	t.Run("set display name keeps counters", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
		require.NoError(t, s.SetDisplayName(ctx, "u1", "Alicia"))

		r, err := s.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Alicia", r.DisplayName)
		assert.Equal(t, 1, r.Correct)
	})

	t.Run("set totals overwrites", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
		require.NoError(t, s.SetTotals(ctx, "u1", "Alice", 7, 3))

		r, err := s.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 7, r.Correct)
		assert.Equal(t, 3, r.Wrong)
	})

	t.Run("leaderboard filters ranks and truncates", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetTotals(ctx, "a", "A", 2, 0))  // score 2
		require.NoError(t, s.SetTotals(ctx, "b", "B", 9, 1))  // score 8
		require.NoError(t, s.SetTotals(ctx, "c", "C", 1, 0))  // 1 attempt, filtered
		require.NoError(t, s.SetTotals(ctx, "d", "D", 5, 1))  // score 4
		require.NoError(t, s.SetTotals(ctx, "e", "E", 0, 10)) // score -10

		records, err := s.Leaderboard(ctx, 3, 2)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "b", records[0].PlayerID)
		assert.Equal(t, "d", records[1].PlayerID)
		assert.Equal(t, "a", records[2].PlayerID)
	})

	t.Run("leaderboard empty store", func(t *testing.T) {
		s := open(t)
		records, err := s.Leaderboard(ctx, 5, 1)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
