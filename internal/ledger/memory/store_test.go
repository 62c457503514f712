package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoldn/intuition/internal/ledger"
	"github.com/xoldn/intuition/internal/ledger/ledgertest"
)

func TestStoreContract(t *testing.T) {
	t.Parallel()
	ledgertest.Run(t, func(t *testing.T) ledger.Store {
		return New()
	})
}

func TestRecordOutcomeCreatesRecord(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", r.DisplayName)
	assert.Equal(t, 1, r.Correct)
	assert.Equal(t, 0, r.Wrong)
}

func TestRecordOutcomeIncrements(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", false))
	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", false))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Correct)
	assert.Equal(t, 2, r.Wrong)
	assert.Equal(t, 3, r.Attempts())
}

func TestRecordOutcomeDisplayNameLastWriteWins(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	require.NoError(t, s.RecordOutcome(ctx, "u1", "Old", true))
	require.NoError(t, s.RecordOutcome(ctx, "u1", "New", true))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "New", r.DisplayName)
}

func TestRecordOutcomeEmptyNameKeepsExisting(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
	require.NoError(t, s.RecordOutcome(ctx, "u1", "", false))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", r.DisplayName)
}

func TestGetUnknownPlayerReturnsZeroRecord(t *testing.T) {
	t.Parallel()
	s := New()

	r, err := s.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultDisplayName, r.DisplayName)
	assert.Equal(t, 0, r.Correct)
	assert.Equal(t, 0, r.Wrong)
}

func TestSetDisplayNameIgnoresUnknownPlayer(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDisplayName(ctx, "ghost", "Boo"))

	r, err := s.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultDisplayName, r.DisplayName)
	assert.Equal(t, 0, r.Attempts())
}

func TestSetDisplayNameUpdatesExisting(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	require.NoError(t, s.RecordOutcome(ctx, "u1", "Alice", true))
	require.NoError(t, s.SetDisplayName(ctx, "u1", "Alicia"))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", r.DisplayName)
	assert.Equal(t, 1, r.Correct)
}

func TestSetTotals(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetTotals(ctx, "u1", "Alice", 7, 3))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, r.Correct)
	assert.Equal(t, 3, r.Wrong)
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetTotals(ctx, "a", "A", 2, 0))
	require.NoError(t, s.SetTotals(ctx, "b", "B", 9, 1))
	require.NoError(t, s.SetTotals(ctx, "c", "C", 1, 0)) // below min attempts

	records, err := s.Leaderboard(ctx, 5, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].PlayerID)
	assert.Equal(t, "a", records[1].PlayerID)
}

func TestConcurrentIncrementsSamePlayer(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	const workers = 20
	const perWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				err := s.RecordOutcome(ctx, "u1", fmt.Sprintf("name-%d", n), j%2 == 0)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, r.Attempts())
}
