// Package session manages the per-player round state: the color committed at
// round start, held until the player guesses or the round expires.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/xoldn/intuition/internal/outcome"
)

// ErrNoActiveRound indicates a guess arrived with no open round for the
// player: never started, already resolved, or expired.
var ErrNoActiveRound = errors.New("no active round for this player")

type round struct {
	color     outcome.Color
	createdAt time.Time
}

// Manager owns the in-memory round map. At most one open round exists per
// player; starting a new round overwrites an unresolved one, and a round is
// consumed by exactly one resolve. Rounds are not persisted across restarts.
type Manager struct {
	mu     sync.Mutex
	rounds map[string]round

	drawer        outcome.Drawer
	clock         quartz.Clock
	ttl           time.Duration
	sweepInterval time.Duration
	logger        *log.Logger
}

// Result is the reveal returned by a successful resolve.
type Result struct {
	Correct bool
	Color   outcome.Color
}

// NewManager creates a round manager. Rounds older than ttl are treated as
// abandoned; the sweep loop started by Run removes them every sweepInterval.
func NewManager(drawer outcome.Drawer, clock quartz.Clock, ttl, sweepInterval time.Duration, logger *log.Logger) *Manager {
	return &Manager{
		rounds:        make(map[string]round),
		drawer:        drawer,
		clock:         clock,
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        logger.WithPrefix("session"),
	}
}

// Start draws a fresh color and opens a round for the player, overwriting any
// prior unresolved round. Repeated calls always succeed; last write wins.
func (m *Manager) Start(playerID string) {
	color := m.drawer.Draw()
	now := m.clock.Now()

	m.mu.Lock()
	m.rounds[playerID] = round{color: color, createdAt: now}
	m.mu.Unlock()

	m.logger.Debug("round started", "player", playerID)
}

// Resolve consumes the player's open round and compares the guess against the
// committed color. The round is deleted before returning, so a retried guess
// after a successful resolve fails with ErrNoActiveRound instead of counting
// twice. A round past its TTL is treated as already gone even if the sweeper
// has not run yet.
func (m *Manager) Resolve(playerID string, guess outcome.Color) (Result, error) {
	now := m.clock.Now()

	m.mu.Lock()
	r, ok := m.rounds[playerID]
	if ok {
		delete(m.rounds, playerID)
	}
	m.mu.Unlock()

	if !ok || now.Sub(r.createdAt) > m.ttl {
		return Result{}, ErrNoActiveRound
	}

	return Result{Correct: guess == r.color, Color: r.color}, nil
}

// SweepExpired removes every round older than the TTL and reports how many
// were removed. Expired rounds are not refundable.
func (m *Manager) SweepExpired() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, r := range m.rounds {
		if now.Sub(r.createdAt) > m.ttl {
			delete(m.rounds, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired rounds on a ticker until ctx is cancelled. This bounds
// memory growth from players who start a round and never guess.
func (m *Manager) Run(ctx context.Context) error {
	m.logger.Info("sweep loop started", "ttl", m.ttl, "interval", m.sweepInterval)

	waiter := m.clock.TickerFunc(ctx, m.sweepInterval, func() error {
		if removed := m.SweepExpired(); removed > 0 {
			m.logger.Debug("expired rounds removed", "count", removed, "open", m.Len())
		}
		return nil
	}, "sweep")

	err := waiter.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Len returns the number of open rounds.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rounds)
}
