// Package leaderboard derives the ranked view over the score ledger.
package leaderboard

import (
	"sort"

	"github.com/xoldn/intuition/internal/ledger"
)

// Entry is one leaderboard row. Field names match the original game client.
type Entry struct {
	DisplayName string `json:"username"`
	Correct     int    `json:"correct"`
	Wrong       int    `json:"wrong"`
	Score       int    `json:"score"`
}

// Top filters records below minAttempts, sorts the rest descending by score
// and truncates to n. The sort is stable, so ties keep the input order, but
// callers must not rely on tie order. Pure function of its input snapshot.
func Top(records []ledger.Record, n, minAttempts int) []ledger.Record {
	eligible := make([]ledger.Record, 0, len(records))
	for _, r := range records {
		if r.Attempts() >= minAttempts {
			eligible = append(eligible, r)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score() > eligible[j].Score()
	})

	if n > 0 && len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}

// Entries converts ranked records into wire entries.
func Entries(records []ledger.Record) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{
			DisplayName: r.DisplayName,
			Correct:     r.Correct,
			Wrong:       r.Wrong,
			Score:       r.Score(),
		}
	}
	return entries
}
