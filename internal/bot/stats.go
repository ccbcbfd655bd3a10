package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitpulse/habitpulse/internal/calendar"
	"github.com/habitpulse/habitpulse/internal/models"
)

// statsDivider separates per-habit sections in the stats message.
const statsDivider = "─────\n\n"

// handleStats answers the stats command. With exactly one habit the view is
// rendered directly; otherwise the user picks a habit or "all" first.
func (b *Bot) handleStats(ctx context.Context, u models.Update) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUser(ctx, u)
	if err != nil || !ok {
		return err
	}

	habits, err := b.store.ListHabits(user.ID)
	if err != nil {
		return fmt.Errorf("failed to list habits for stats: %w", err)
	}
	if len(habits) == 0 {
		b.reply(ctx, u, s.NoHabitsYet)
		return nil
	}

	if len(habits) == 1 {
		view := b.sessions.StatsView(u.UserID, b.now())
		if !view.AllHabits && view.HabitID != habits[0].ID {
			// The stored filter points at a habit that no longer exists.
			view.AllHabits = true
			view.HabitID = uuid.Nil
			b.sessions.SetStatsView(u.UserID, view)
		}
		body, err := b.buildStatsMessage(habits, view, u.Locale())
		if err != nil {
			return err
		}
		b.send(ctx, models.Message{
			ChatID:  u.ChatID,
			Body:    body,
			HTML:    true,
			Buttons: b.navigationKeyboard(view, u.Locale()),
		})
		return nil
	}

	buttons := make([][]models.Button, 0, len(habits)+1)
	for _, h := range habits {
		buttons = append(buttons, []models.Button{{
			Label: h.Name,
			Data:  Action{Kind: ActionStatsHabit, HabitID: h.ID}.Encode(),
		}})
	}
	buttons = append(buttons, []models.Button{{
		Label: s.ButtonAllHabits,
		Data:  Action{Kind: ActionStatsHabit, AllHabits: true}.Encode(),
	}})
	b.send(ctx, models.Message{ChatID: u.ChatID, Body: s.SelectHabitStats, Buttons: buttons})
	return nil
}

// handleViewHabitStats jumps from the habit detail view into the stats view
// filtered to that habit, keeping the current month position.
func (b *Bot) handleViewHabitStats(ctx context.Context, u models.Update, action Action) error {
	view := b.sessions.StatsView(u.UserID, b.now())
	view.HabitID = action.HabitID
	view.AllHabits = false
	b.sessions.SetStatsView(u.UserID, view)
	return b.refreshStats(ctx, u, view)
}

// handleStatsNavigation applies a navigation or filter action and re-renders
// the stats message in place. Prev and next carry the explicit target month
// computed at render time, so replaying one is idempotent.
func (b *Bot) handleStatsNavigation(ctx context.Context, u models.Update, action Action) error {
	view := b.sessions.StatsView(u.UserID, b.now())

	switch action.Kind {
	case ActionStatsToday:
		cur := calendar.MonthOf(b.now())
		view.Year, view.Month = cur.Year, cur.M
	case ActionStatsPrev, ActionStatsNext:
		view.Year, view.Month = action.Year, action.Month
	case ActionStatsHabit:
		view.AllHabits = action.AllHabits
		view.HabitID = action.HabitID
	}
	b.sessions.SetStatsView(u.UserID, view)
	return b.refreshStats(ctx, u, view)
}

// refreshStats re-renders the full stats message for the current view and
// edits it into the originating message. An unchanged rendering is
// acknowledged as already-on-view, not treated as a failure.
func (b *Bot) refreshStats(ctx context.Context, u models.Update, view models.StatsView) error {
	s := tr(u.Locale())

	user, ok, err := b.requireUserCallback(ctx, u)
	if err != nil || !ok {
		return err
	}
	habits, err := b.store.ListHabits(user.ID)
	if err != nil {
		return fmt.Errorf("failed to list habits for stats refresh: %w", err)
	}
	if len(habits) == 0 {
		b.answer(ctx, u, s.NoHabitsYet)
		return nil
	}

	body, err := b.buildStatsMessage(habits, view, u.Locale())
	if err != nil {
		return err
	}

	err = b.msg.EditMessage(ctx, models.Message{
		ChatID:    u.ChatID,
		MessageID: u.MessageID,
		Body:      body,
		HTML:      true,
		Buttons:   b.navigationKeyboard(view, u.Locale()),
	})
	if errors.Is(err, models.ErrNotModified) {
		b.answer(ctx, u, s.AlreadyOnView)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to edit stats message: %w", err)
	}
	b.answer(ctx, u, "")
	return nil
}

// buildStatsMessage renders one calendar section per habit in view: the
// month grid inside a monospace block plus the month and year totals.
func (b *Bot) buildStatsMessage(habits []models.Habit, view models.StatsView, loc models.Locale) (string, error) {
	s := tr(loc)
	month := calendar.Month{Year: view.Year, M: view.Month}

	body := s.StatsHeader
	for _, habit := range habits {
		if !view.AllHabits && habit.ID != view.HabitID {
			continue
		}
		completions, err := b.store.ListCompletions(habit.ID)
		if err != nil {
			return "", fmt.Errorf("failed to list completions for stats: %w", err)
		}

		body += fmt.Sprintf("<b>%s:</b>\n", habit.Name)
		if len(completions) == 0 {
			body += s.NoLogsForHabit
			body += statsDivider
			continue
		}

		timestamps := make([]time.Time, 0, len(completions))
		for _, c := range completions {
			timestamps = append(timestamps, c.Timestamp)
		}
		stats := calendar.Render(timestamps, month, loc)

		body += "<pre>" + stats.Grid + "</pre>\n"
		body += fmt.Sprintf(s.TotalThisMonth, stats.MonthCount)
		body += fmt.Sprintf(s.TotalThisYear, stats.YearCount)
		body += statsDivider
	}
	return body, nil
}

// navigationKeyboard builds the prev/today/next row with the explicit
// adjacent months baked into the tokens.
func (b *Bot) navigationKeyboard(view models.StatsView, loc models.Locale) [][]models.Button {
	s := tr(loc)
	month := calendar.Month{Year: view.Year, M: view.Month}
	prev := month.Prev()
	next := month.Next()

	return [][]models.Button{{
		{Label: s.ButtonPrev, Data: Action{Kind: ActionStatsPrev, Year: prev.Year, Month: prev.M}.Encode()},
		{Label: s.ButtonNavToday, Data: Action{Kind: ActionStatsToday}.Encode()},
		{Label: s.ButtonNext, Data: Action{Kind: ActionStatsNext, Year: next.Year, Month: next.M}.Encode()},
	}}
}
