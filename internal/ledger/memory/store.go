// Package memory provides an in-memory score store for tests and ephemeral
// runs. Scores are lost on restart.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/xoldn/intuition/internal/leaderboard"
	"github.com/xoldn/intuition/internal/ledger"
)

// Store keeps records in a mutex-guarded map. The map lock serializes every
// read-modify-write, so same-key increments cannot race.
type Store struct {
	mu      sync.Mutex
	records map[string]ledger.Record
	order   []string // insertion order, used as the leaderboard tiebreak
}

func New() *Store {
	return &Store{records: make(map[string]ledger.Record)}
}

func (s *Store) RecordOutcome(ctx context.Context, playerID, displayName string, wasCorrect bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[playerID]
	if !ok {
		r = ledger.Record{PlayerID: playerID, DisplayName: ledger.DefaultDisplayName}
		s.order = append(s.order, playerID)
	}
	if name := strings.TrimSpace(displayName); name != "" {
		r.DisplayName = name
	}
	if wasCorrect {
		r.Correct++
	} else {
		r.Wrong++
	}
	s.records[playerID] = r
	return nil
}

func (s *Store) Get(ctx context.Context, playerID string) (ledger.Record, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.records[playerID]; ok {
		return r, nil
	}
	return ledger.Record{PlayerID: playerID, DisplayName: ledger.DefaultDisplayName}, nil
}

func (s *Store) SetDisplayName(ctx context.Context, playerID, displayName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.records[playerID]; ok {
		r.DisplayName = name
		s.records[playerID] = r
	}
	return nil
}

func (s *Store) SetTotals(ctx context.Context, playerID, displayName string, correct, wrong int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = ledger.DefaultDisplayName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[playerID]; !ok {
		s.order = append(s.order, playerID)
	}
	s.records[playerID] = ledger.Record{
		PlayerID:    playerID,
		DisplayName: name,
		Correct:     correct,
		Wrong:       wrong,
	}
	return nil
}

func (s *Store) Leaderboard(ctx context.Context, n, minAttempts int) ([]ledger.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	snapshot := make([]ledger.Record, 0, len(s.records))
	for _, id := range s.order {
		snapshot = append(snapshot, s.records[id])
	}
	s.mu.Unlock()

	return leaderboard.Top(snapshot, n, minAttempts), nil
}

func (s *Store) Close() error {
	return nil
}

var _ ledger.Store = (*Store)(nil)
