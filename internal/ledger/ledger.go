// Package ledger defines the durable per-player score store: cumulative
// correct/incorrect counters and a display name, keyed by player ID.
package ledger

import (
	"context"
	"errors"
)

// DefaultDisplayName is used for players that have never reported a name.
const DefaultDisplayName = "Player"

// ErrUnavailable wraps store I/O failures. The caller's round may already
// have been consumed when this surfaces; the lost increment is accepted.
var ErrUnavailable = errors.New("score store unavailable")

// Record is one player's cumulative score. Counters never decrease; a record
// is created on the first resolved round and persists indefinitely.
type Record struct {
	PlayerID    string
	DisplayName string
	Correct     int
	Wrong       int
}

// Attempts returns the number of resolved rounds counted for the player.
func (r Record) Attempts() int {
	return r.Correct + r.Wrong
}

// Score is the leaderboard ranking value.
func (r Record) Score() int {
	return r.Correct - r.Wrong
}

// Store persists score records. Implementations must serialize same-key
// read-modify-write so concurrent resolutions for one player never lose an
// increment; different keys may proceed in parallel.
type Store interface {
	// RecordOutcome increments the matching counter, creating the record on
	// first use. A non-empty displayName overwrites the stored name (last
	// write wins); an empty one keeps the existing name. This is the only
	// mutation path used by round resolution.
	RecordOutcome(ctx context.Context, playerID, displayName string, wasCorrect bool) error

	// Get returns the player's record, or a zero record with the default
	// display name when the player has never scored. Absence is not an error.
	Get(ctx context.Context, playerID string) (Record, error)

	// SetDisplayName updates the stored name for an existing record and is a
	// no-op for unknown players: records only come into being via scoring.
	SetDisplayName(ctx context.Context, playerID, displayName string) error

	// SetTotals overwrites a record with absolute counters. Counters are
	// server-authoritative in normal operation; this exists for imports and
	// test fixtures, not for the request path.
	SetTotals(ctx context.Context, playerID, displayName string, correct, wrong int) error

	// Leaderboard returns up to n records with at least minAttempts resolved
	// rounds, descending by score. Tie order follows storage order and is not
	// part of the contract.
	Leaderboard(ctx context.Context, n, minAttempts int) ([]Record, error)

	Close() error
}
