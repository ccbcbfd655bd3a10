// Package session owns all ephemeral per-user state for Habit Pulse: the
// pending multi-step interaction, the stats view position, and the
// duplicate-callback guard.
//
// State is partitioned by user identity; concurrent calls for different
// users never interfere. Calls for the same user follow last-write-wins,
// which the transport's per-chat ordering makes safe in practice. Entries
// are never evicted: long-lived deployments keep one entry per distinct
// user, matching the behavior this was built against.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/habitpulse/habitpulse/internal/calendar"
	"github.com/habitpulse/habitpulse/internal/models"
)

// DuplicateCallbackWindow is how long an identical callback from the same
// user is suppressed. A UX guard against double-tapped buttons, not a
// concurrency control: correctness relies on the terminal existence and
// duplicate-day checks in the flows.
const DuplicateCallbackWindow = time.Second

type callbackStamp struct {
	data string
	at   time.Time
}

// Manager holds per-user session state behind accessor methods.
type Manager struct {
	mu           sync.RWMutex
	pending      map[int64]models.PendingInteraction
	stats        map[int64]models.StatsView
	lastCallback map[int64]callbackStamp
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		pending:      make(map[int64]models.PendingInteraction),
		stats:        make(map[int64]models.StatsView),
		lastCallback: make(map[int64]callbackStamp),
	}
}

// SetPending stores the pending interaction for a user, superseding any
// previous one.
func (m *Manager) SetPending(userID int64, p models.PendingInteraction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[userID] = p
	slog.Debug("session.SetPending", "userID", userID, "kind", p.Kind)
}

// Pending returns the user's pending interaction, if any.
func (m *Manager) Pending(userID int64) (models.PendingInteraction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pending[userID]
	return p, ok
}

// ClearPending removes the user's pending interaction. Clearing an absent
// entry is a no-op.
func (m *Manager) ClearPending(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, userID)
	slog.Debug("session.ClearPending", "userID", userID)
}

// StatsView returns the user's stats view position, lazily initialized to
// the current month with all habits selected.
func (m *Manager) StatsView(userID int64, now time.Time) models.StatsView {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.stats[userID]; ok {
		return v
	}
	cur := calendar.MonthOf(now)
	v := models.StatsView{Year: cur.Year, Month: cur.M, AllHabits: true}
	m.stats[userID] = v
	slog.Debug("session.StatsView initialized", "userID", userID, "year", v.Year, "month", v.Month)
	return v
}

// SetStatsView overwrites the user's stats view position.
func (m *Manager) SetStatsView(userID int64, v models.StatsView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[userID] = v
	slog.Debug("session.SetStatsView", "userID", userID, "year", v.Year, "month", v.Month, "all", v.AllHabits)
}

// SuppressDuplicateCallback records a callback arrival and reports whether
// an identical one from the same user landed within the suppression window.
// The first occurrence always returns false.
func (m *Manager) SuppressDuplicateCallback(userID int64, data string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.lastCallback[userID]
	m.lastCallback[userID] = callbackStamp{data: data, at: now}
	if ok && last.data == data && now.Sub(last.at) < DuplicateCallbackWindow {
		slog.Debug("session.SuppressDuplicateCallback suppressed", "userID", userID, "data", data)
		return true
	}
	return false
}
