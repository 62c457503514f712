package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoldn/intuition/internal/ledger"
	"github.com/xoldn/intuition/internal/ledger/ledgertest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	t.Parallel()
	ledgertest.Run(t, func(t *testing.T) ledger.Store {
		return openTestStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()
	_, err := Open("  ")
	require.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordOutcome(context.Background(), "u1", "Alice", true))
	require.NoError(t, s.Close())

	// Reopening must keep data and not re-run migrations destructively.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	r, err := s.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Correct)
}

func TestRecordOutcomeCreatesAndIncrements(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", false))
	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Correct)
	assert.Equal(t, 1, r.Wrong)
	assert.Equal(t, "Alice", r.DisplayName)
}

func TestRecordOutcomeRequiresPlayerID(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	err := s.RecordOutcome(context.Background(), " ", "Alice", true)
	require.Error(t, err)
}

func TestRecordOutcomeNameSemantics(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	// First outcome with no name falls back to the default.
	require.NoError(t, s.RecordOutcome(ctx, "u1", "", false))
	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultDisplayName, r.DisplayName)

	// A non-empty name wins; a later empty one keeps it.
	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
	require.NoError(t, s.RecordOutcome(ctx, "u1", "", true))
	r, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", r.DisplayName)
	assert.Equal(t, 2, r.Correct)
	assert.Equal(t, 1, r.Wrong)
}

func TestGetUnknownPlayerReturnsZeroRecord(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	r, err := s.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", r.PlayerID)
	assert.Equal(t, ledger.DefaultDisplayName, r.DisplayName)
	assert.Equal(t, 0, r.Attempts())
}

func TestSetDisplayName(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	// No-op for unknown players.
	require.NoError(t, s.SetDisplayName(ctx, "ghost", "Boo"))
	r, err := s.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Attempts())
	assert.Equal(t, ledger.DefaultDisplayName, r.DisplayName)

	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
	require.NoError(t, s.SetDisplayName(ctx, "u1", "Alicia"))
	r, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", r.DisplayName)
}

func TestSetTotalsRejectsNegativeCounters(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	err := s.SetTotals(context.Background(), "u1", "Alice", -1, 0)
	require.Error(t, err)
}

func TestSetTotalsUpserts(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTotals(ctx, "u1", "Alice", 5, 2))
	require.NoError(t, s.SetTotals(ctx, "u1", "Alicia", 6, 2))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", r.DisplayName)
	assert.Equal(t, 6, r.Correct)
	assert.Equal(t, 2, r.Wrong)
}

func TestLeaderboardFilterOrderAndLimit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTotals(ctx, "low", "Low", 1, 0))   // below threshold
	require.NoError(t, s.SetTotals(ctx, "mid", "Mid", 4, 1))   // score 3
	require.NoError(t, s.SetTotals(ctx, "top", "Top", 9, 1))   // score 8
	require.NoError(t, s.SetTotals(ctx, "neg", "Neg", 2, 6))   // score -4
	require.NoError(t, s.SetTotals(ctx, "tied", "Tied", 5, 2)) // score 3, after mid

	records, err := s.Leaderboard(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "top", records[0].PlayerID)
	assert.Equal(t, "mid", records[1].PlayerID)
	assert.Equal(t, "tied", records[2].PlayerID)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.Attempts(), 2)
	}
}

func TestLeaderboardRejectsNonPositiveSize(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.Leaderboard(context.Background(), 0, 1)
	require.Error(t, err)
}

func TestConcurrentIncrementsSamePlayer(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	const workers = 10
	const perWorker = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				assert.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", j%2 == 0))
			}
		}()
	}
	wg.Wait()

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, r.Attempts())
	assert.Equal(t, workers*perWorker/2, r.Correct)
}
