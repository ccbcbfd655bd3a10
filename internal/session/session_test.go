package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/models"
)

func TestPendingLifecycle(t *testing.T) {
	m := NewManager()

	if _, ok := m.Pending(1); ok {
		t.Fatal("expected no pending interaction for fresh user")
	}

	m.SetPending(1, models.PendingInteraction{Kind: models.PendingHabitName})
	p, ok := m.Pending(1)
	if !ok || p.Kind != models.PendingHabitName {
		t.Fatalf("Pending = %+v, %v; want AWAITING_HABIT_NAME", p, ok)
	}

	// A new interaction supersedes the previous one.
	habitID := uuid.New()
	m.SetPending(1, models.PendingInteraction{Kind: models.PendingLogCustomDate, HabitID: habitID})
	p, _ = m.Pending(1)
	if p.Kind != models.PendingLogCustomDate || p.HabitID != habitID {
		t.Fatalf("superseded pending = %+v", p)
	}

	m.ClearPending(1)
	if _, ok := m.Pending(1); ok {
		t.Fatal("expected pending cleared")
	}

	// Clearing an absent entry is a no-op.
	m.ClearPending(42)
}

func TestPendingIsolatedPerUser(t *testing.T) {
	m := NewManager()
	m.SetPending(1, models.PendingInteraction{Kind: models.PendingHabitName})
	m.SetPending(2, models.PendingInteraction{Kind: models.PendingMonthlyTarget, HabitName: "Run"})

	p1, _ := m.Pending(1)
	p2, _ := m.Pending(2)
	if p1.Kind != models.PendingHabitName || p2.Kind != models.PendingMonthlyTarget {
		t.Fatalf("cross-user interference: %+v / %+v", p1, p2)
	}

	m.ClearPending(1)
	if _, ok := m.Pending(2); !ok {
		t.Fatal("clearing user 1 must not touch user 2")
	}
}

func TestStatsViewLazyDefault(t *testing.T) {
	m := NewManager()
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	v := m.StatsView(7, now)
	if v.Year != 2026 || v.Month != 8 || !v.AllHabits {
		t.Fatalf("default view = %+v, want Sep 2026 all habits", v)
	}

	id := uuid.New()
	m.SetStatsView(7, models.StatsView{Year: 2025, Month: 11, HabitID: id})
	v = m.StatsView(7, now)
	if v.Year != 2025 || v.Month != 11 || v.AllHabits || v.HabitID != id {
		t.Fatalf("stored view = %+v", v)
	}
}

func TestSuppressDuplicateCallback(t *testing.T) {
	m := NewManager()
	base := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	if m.SuppressDuplicateCallback(1, "set_month_target_x", base) {
		t.Fatal("first callback must not be suppressed")
	}
	if !m.SuppressDuplicateCallback(1, "set_month_target_x", base.Add(300*time.Millisecond)) {
		t.Fatal("identical callback within the window must be suppressed")
	}
	if m.SuppressDuplicateCallback(1, "set_month_target_x", base.Add(2*time.Second)) {
		t.Fatal("identical callback after the window must pass")
	}
	if m.SuppressDuplicateCallback(1, "set_year_target_x", base.Add(2100*time.Millisecond)) {
		t.Fatal("different callback data must pass")
	}
	if m.SuppressDuplicateCallback(2, "set_year_target_x", base.Add(2200*time.Millisecond)) {
		t.Fatal("same data from a different user must pass")
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetPending(id, models.PendingInteraction{Kind: models.PendingHabitName})
			m.Pending(id)
			m.StatsView(id, time.Now())
			m.SuppressDuplicateCallback(id, "x", time.Now())
			m.ClearPending(id)
		}(int64(i))
	}
	wg.Wait()
}
