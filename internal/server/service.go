package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/xoldn/intuition/internal/leaderboard"
	"github.com/xoldn/intuition/internal/ledger"
	"github.com/xoldn/intuition/internal/outcome"
	"github.com/xoldn/intuition/internal/session"
)

// ErrInvalidInput indicates a missing or malformed required field. The
// request is rejected and no state is mutated.
var ErrInvalidInput = errors.New("invalid input")

// Broadcaster pushes leaderboard snapshots to connected spectators.
type Broadcaster interface {
	BroadcastLeaderboard([]leaderboard.Entry)
}

// Service composes the round session manager and the score ledger into the
// round resolution protocol: start, guess, stats, leaderboard.
type Service struct {
	sessions    *session.Manager
	store       ledger.Store
	broadcaster Broadcaster
	logger      *log.Logger

	topSize     int
	minAttempts int
}

// NewService wires the protocol. broadcaster may be nil when no live feed is
// attached. topSize and minAttempts are the leaderboard defaults applied when
// a caller does not supply its own bounds.
func NewService(sessions *session.Manager, store ledger.Store, broadcaster Broadcaster, topSize, minAttempts int, logger *log.Logger) *Service {
	return &Service{
		sessions:    sessions,
		store:       store,
		broadcaster: broadcaster,
		logger:      logger.WithPrefix("game"),
		topSize:     topSize,
		minAttempts: minAttempts,
	}
}

// StartRound commits a fresh hidden color for the player, abandoning any
// unresolved round.
func (s *Service) StartRound(playerID string) error {
	if playerID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	s.sessions.Start(playerID)
	return nil
}

// CheckGuess resolves the player's open round and records the outcome in the
// ledger before returning, so a success response is never sent for a score
// that was not persisted. The session is consumed either way: a ledger
// failure after resolution loses that one increment rather than allowing a
// second guess at a revealed color.
func (s *Service) CheckGuess(ctx context.Context, playerID, displayName, guess string) (session.Result, error) {
	if playerID == "" || guess == "" {
		return session.Result{}, fmt.Errorf("%w: user_id and guess are required", ErrInvalidInput)
	}
	color, err := outcome.Parse(guess)
	if err != nil {
		return session.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	res, err := s.sessions.Resolve(playerID, color)
	if err != nil {
		return session.Result{}, err
	}

	if err := s.store.RecordOutcome(ctx, playerID, displayName, res.Correct); err != nil {
		s.logger.Error("outcome not recorded", "player", playerID, "error", err)
		return session.Result{}, err
	}

	s.logger.Debug("round resolved", "player", playerID, "correct", res.Correct)
	s.notifySpectators(ctx)
	return res, nil
}

// SaveScore updates the player's display name. Counters are never taken from
// the client; they are computed server-side by CheckGuess only.
func (s *Service) SaveScore(ctx context.Context, playerID, displayName string) error {
	if playerID == "" || displayName == "" {
		return fmt.Errorf("%w: user_id and username are required", ErrInvalidInput)
	}
	return s.store.SetDisplayName(ctx, playerID, displayName)
}

// Stats returns the player's cumulative record, zeroed for unknown players.
func (s *Service) Stats(ctx context.Context, playerID string) (ledger.Record, error) {
	return s.store.Get(ctx, playerID)
}

// Leaderboard returns the ranked entries. Non-positive bounds fall back to
// the configured defaults.
func (s *Service) Leaderboard(ctx context.Context, n, minAttempts int) ([]leaderboard.Entry, error) {
	if n <= 0 {
		n = s.topSize
	}
	if minAttempts <= 0 {
		minAttempts = s.minAttempts
	}
	records, err := s.store.Leaderboard(ctx, n, minAttempts)
	if err != nil {
		return nil, err
	}
	return leaderboard.Entries(records), nil
}

// OpenRounds reports the number of unresolved rounds, for monitoring.
func (s *Service) OpenRounds() int {
	return s.sessions.Len()
}

func (s *Service) notifySpectators(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	entries, err := s.Leaderboard(ctx, s.topSize, s.minAttempts)
	if err != nil {
		s.logger.Warn("leaderboard snapshot for broadcast failed", "error", err)
		return
	}
	s.broadcaster.BroadcastLeaderboard(entries)
}
