package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/habitpulse/habitpulse/internal/models"
)

func TestLogTodayTwiceRejectsSecond(t *testing.T) {
	b, msg, st := newTestBot()
	user := seedUser(t, st, 100)
	habit := seedHabit(t, st, user.ID, "Run")
	ctx := context.Background()

	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogHabit, HabitID: habit.ID}.Encode()))
	if p, ok := b.sessions.Pending(100); !ok || p.Kind != models.PendingLogSelection {
		t.Fatalf("pending after selection = %+v", p)
	}
	if !strings.Contains(msg.lastEdited(t).Body, "When do you want") {
		t.Fatalf("date mode prompt = %q", msg.lastEdited(t).Body)
	}

	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogToday, HabitID: habit.ID}.Encode()))
	if got := msg.lastToast(t); got != tr(models.LocaleEN).LoggedToast {
		t.Fatalf("toast = %q", got)
	}
	completions, _ := st.ListCompletions(habit.ID)
	if len(completions) != 1 {
		t.Fatalf("completions = %d, want 1", len(completions))
	}

	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogToday, HabitID: habit.ID}.Encode()))
	if got := msg.lastToast(t); got != tr(models.LocaleEN).AlreadyToast {
		t.Fatalf("second toast = %q, want conflict", got)
	}
	completions, _ = st.ListCompletions(habit.ID)
	if len(completions) != 1 {
		t.Fatalf("completions after duplicate = %d, want 1", len(completions))
	}
}

func TestCustomDateRejectsImpossibleAndFutureDates(t *testing.T) {
	b, msg, st := newTestBot()
	user := seedUser(t, st, 100)
	habit := seedHabit(t, st, user.ID, "Run")
	ctx := context.Background()

	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogCustom, HabitID: habit.ID}.Encode()))
	if p, ok := b.sessions.Pending(100); !ok || p.Kind != models.PendingLogCustomDate {
		t.Fatalf("pending after custom = %+v", p)
	}

	en := tr(models.LocaleEN)
	for _, bad := range []string{"30.02.2026", "31.04.2026", "not a date", "15/08/2026"} {
		b.HandleUpdate(ctx, textUpdate(100, bad))
		if got := msg.lastSent(t).Body; got != en.InvalidDate {
			t.Fatalf("input %q: reply = %q, want invalid-date re-prompt", bad, got)
		}
		if _, ok := b.sessions.Pending(100); !ok {
			t.Fatalf("input %q: habit selection must survive re-prompt", bad)
		}
	}

	// The clock is pinned to 15 Aug 2026.
	b.HandleUpdate(ctx, textUpdate(100, "16.08.2026"))
	if got := msg.lastSent(t).Body; got != en.FutureDate {
		t.Fatalf("future reply = %q", got)
	}
	if _, ok := b.sessions.Pending(100); !ok {
		t.Fatal("future rejection must keep the pending state")
	}

	completions, _ := st.ListCompletions(habit.ID)
	if len(completions) != 0 {
		t.Fatalf("no completion may be committed, got %d", len(completions))
	}
}

func TestCustomDateTodayEqualsTodayShortcut(t *testing.T) {
	b, msg, st := newTestBot()
	user := seedUser(t, st, 100)
	habit := seedHabit(t, st, user.ID, "Run")
	ctx := context.Background()

	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogCustom, HabitID: habit.ID}.Encode()))
	b.HandleUpdate(ctx, textUpdate(100, "15.08.2026"))
	if !strings.Contains(msg.lastSent(t).Body, "Logged") {
		t.Fatalf("custom-date commit reply = %q", msg.lastSent(t).Body)
	}
	if _, ok := b.sessions.Pending(100); ok {
		t.Error("pending must be cleared after commit")
	}

	// The today shortcut now collides with the custom-date completion.
	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogToday, HabitID: habit.ID}.Encode()))
	if got := msg.lastToast(t); got != tr(models.LocaleEN).AlreadyToast {
		t.Fatalf("toast = %q, want conflict with custom-date log", got)
	}
	completions, _ := st.ListCompletions(habit.ID)
	if len(completions) != 1 {
		t.Fatalf("completions = %d, want 1", len(completions))
	}
}

func TestCustomDatePastDuplicateClearsFlow(t *testing.T) {
	b, msg, st := newTestBot()
	user := seedUser(t, st, 100)
	habit := seedHabit(t, st, user.ID, "Run")
	ctx := context.Background()

	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogCustom, HabitID: habit.ID}.Encode()))
	b.HandleUpdate(ctx, textUpdate(100, "01.08.2026"))

	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogCustom, HabitID: habit.ID}.Encode()))
	b.HandleUpdate(ctx, textUpdate(100, "01.08.2026"))
	if !strings.Contains(msg.lastSent(t).Body, "already logged") {
		t.Fatalf("duplicate reply = %q", msg.lastSent(t).Body)
	}
	if _, ok := b.sessions.Pending(100); ok {
		t.Error("duplicate-for-date must clear the pending state")
	}
}

func TestCustomDateCancel(t *testing.T) {
	b, msg, st := newTestBot()
	user := seedUser(t, st, 100)
	habit := seedHabit(t, st, user.ID, "Run")
	ctx := context.Background()

	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogCustom, HabitID: habit.ID}.Encode()))
	b.HandleUpdate(ctx, textUpdate(100, "Cancel"))

	if got := msg.lastSent(t).Body; got != tr(models.LocaleEN).LogCancelled {
		t.Fatalf("cancel reply = %q", got)
	}
	if _, ok := b.sessions.Pending(100); ok {
		t.Error("cancel must clear the pending state")
	}
	completions, _ := st.ListCompletions(habit.ID)
	if len(completions) != 0 {
		t.Error("cancel must not commit anything")
	}
}

func TestLogByTypedName(t *testing.T) {
	b, msg, st := newTestBot()
	user := seedUser(t, st, 100)
	habit := seedHabit(t, st, user.ID, "Run")
	ctx := context.Background()

	b.HandleUpdate(ctx, textUpdate(100, "/log_habit"))
	if p, ok := b.sessions.Pending(100); !ok || p.Kind != models.PendingLogHabitName {
		t.Fatalf("pending after /log_habit = %+v", p)
	}

	b.HandleUpdate(ctx, textUpdate(100, "run"))
	if !strings.Contains(msg.lastSent(t).Body, "Logged") {
		t.Fatalf("typed-name log reply = %q", msg.lastSent(t).Body)
	}
	completions, _ := st.ListCompletions(habit.ID)
	if len(completions) != 1 {
		t.Fatalf("completions = %d, want 1", len(completions))
	}
}

func TestLogByTypedNameUnknownHabit(t *testing.T) {
	b, msg, st := newTestBot()
	seedUser(t, st, 100)
	ctx := context.Background()

	b.HandleUpdate(ctx, textUpdate(100, "/log_habit"))
	if got := msg.lastSent(t).Body; got != tr(models.LocaleEN).NoEnabledHabits {
		t.Fatalf("reply = %q, want no-active-habits hint", got)
	}
}

func TestLogSelectionForDeletedHabit(t *testing.T) {
	b, msg, st := newTestBot()
	user := seedUser(t, st, 100)
	habit := seedHabit(t, st, user.ID, "Run")
	ctx := context.Background()

	if err := st.DeleteHabit(habit.ID); err != nil {
		t.Fatal(err)
	}
	b.HandleUpdate(ctx, callbackUpdate(100, Action{Kind: ActionLogHabit, HabitID: habit.ID}.Encode()))
	if got := msg.lastToast(t); got != tr(models.LocaleEN).HabitNotFound {
		t.Fatalf("toast = %q, want not-found", got)
	}
	if _, ok := b.sessions.Pending(100); ok {
		t.Error("no pending state may be created for a vanished habit")
	}
}
