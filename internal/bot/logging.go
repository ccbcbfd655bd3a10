package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/calendar"
	"github.com/habitpulse/habitpulse/internal/models"
)

// cancelToken aborts the custom-date step without committing.
const cancelToken = "cancel"

// startLogHabit shows the enabled habits as buttons and, in parallel,
// accepts a typed habit name as the alternate entry point.
func (b *Bot) startLogHabit(ctx context.Context, u models.Update) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUser(ctx, u)
	if err != nil || !ok {
		return err
	}

	habits, err := b.store.ListEnabledHabits(user.ID)
	if err != nil {
		return fmt.Errorf("failed to list enabled habits: %w", err)
	}
	if len(habits) == 0 {
		b.reply(ctx, u, s.NoEnabledHabits)
		return nil
	}

	buttons := make([][]models.Button, 0, len(habits))
	for _, h := range habits {
		buttons = append(buttons, []models.Button{{
			Label: h.Name,
			Data:  Action{Kind: ActionLogHabit, HabitID: h.ID}.Encode(),
		}})
	}
	b.sessions.SetPending(u.UserID, models.PendingInteraction{Kind: models.PendingLogHabitName})
	b.send(ctx, models.Message{ChatID: u.ChatID, Body: s.SelectHabitToLog, Buttons: buttons})
	return nil
}

// handleLogHabitNameInput logs a habit picked by typed name for today,
// sharing the commit logic of the button path.
func (b *Bot) handleLogHabitNameInput(ctx context.Context, u models.Update, text string) error {
	s := tr(u.Locale())
	name := strings.TrimSpace(text)
	if name == "" {
		return nil
	}

	user, err := b.store.GetUserByTelegramID(u.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve user for log by name: %w", err)
	}
	if user == nil {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, s.UserNotFound)
		return nil
	}

	habit, err := b.store.GetHabitByName(user.ID, name)
	if err != nil {
		return fmt.Errorf("failed to look up habit by name: %w", err)
	}
	if habit == nil || !habit.Enabled {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, fmt.Sprintf(s.NamedHabitMissing, name))
		return nil
	}

	b.sessions.ClearPending(u.UserID)
	switch err := b.commitCompletion(user, habit, b.now()); {
	case errors.Is(err, models.ErrAlreadyLogged):
		b.reply(ctx, u, fmt.Sprintf(s.AlreadyLoggedToday, habit.Name))
	case err != nil:
		return err
	default:
		b.reply(ctx, u, fmt.Sprintf(s.LoggedToday, habit.Name))
	}
	return nil
}

// handleLogSelection reacts to a habit button in the logging keyboard by
// asking for the date mode.
func (b *Bot) handleLogSelection(ctx context.Context, u models.Update, action Action) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUserCallback(ctx, u)
	if err != nil || !ok {
		return err
	}
	habit, err := b.ownedHabit(user, action.HabitID)
	if err != nil {
		return fmt.Errorf("failed to load habit for logging: %w", err)
	}
	if habit == nil {
		b.answer(ctx, u, s.HabitNotFound)
		return nil
	}

	b.sessions.SetPending(u.UserID, models.PendingInteraction{
		Kind:    models.PendingLogSelection,
		HabitID: habit.ID,
	})

	b.answer(ctx, u, "")
	b.edit(ctx, models.Message{
		ChatID:    u.ChatID,
		MessageID: u.MessageID,
		Body:      fmt.Sprintf(s.WhenToLog, habit.Name),
		HTML:      true,
		Buttons: [][]models.Button{{
			{Label: s.ButtonToday, Data: Action{Kind: ActionLogToday, HabitID: habit.ID}.Encode()},
			{Label: s.ButtonCustomDate, Data: Action{Kind: ActionLogCustom, HabitID: habit.ID}.Encode()},
		}},
	})
	return nil
}

// handleLogToday commits a completion for the current UTC day.
func (b *Bot) handleLogToday(ctx context.Context, u models.Update, action Action) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUserCallback(ctx, u)
	if err != nil || !ok {
		return err
	}
	habit, err := b.ownedHabit(user, action.HabitID)
	if err != nil {
		return fmt.Errorf("failed to load habit for today log: %w", err)
	}
	if habit == nil {
		b.answer(ctx, u, s.HabitNotFound)
		return nil
	}

	b.sessions.ClearPending(u.UserID)
	switch err := b.commitCompletion(user, habit, b.now()); {
	case errors.Is(err, models.ErrAlreadyLogged):
		b.answer(ctx, u, s.AlreadyToast)
		b.edit(ctx, models.Message{
			ChatID:    u.ChatID,
			MessageID: u.MessageID,
			Body:      fmt.Sprintf(s.AlreadyLoggedToday, habit.Name),
		})
	case err != nil:
		return err
	default:
		b.answer(ctx, u, s.LoggedToast)
		b.edit(ctx, models.Message{
			ChatID:    u.ChatID,
			MessageID: u.MessageID,
			Body:      fmt.Sprintf(s.LoggedToday, habit.Name),
		})
	}
	return nil
}

// handleLogCustom switches the logging flow to the explicit-date step.
func (b *Bot) handleLogCustom(ctx context.Context, u models.Update, action Action) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUserCallback(ctx, u)
	if err != nil || !ok {
		return err
	}
	habit, err := b.ownedHabit(user, action.HabitID)
	if err != nil {
		return fmt.Errorf("failed to load habit for custom date: %w", err)
	}
	if habit == nil {
		b.answer(ctx, u, s.HabitNotFound)
		return nil
	}

	b.sessions.SetPending(u.UserID, models.PendingInteraction{
		Kind:    models.PendingLogCustomDate,
		HabitID: habit.ID,
	})

	b.answer(ctx, u, "")
	b.edit(ctx, models.Message{
		ChatID:    u.ChatID,
		MessageID: u.MessageID,
		Body:      fmt.Sprintf(s.EnterCustomDate, habit.Name),
		HTML:      true,
	})
	return nil
}

// handleCustomDateInput consumes the typed date. Malformed, impossible, and
// future dates re-prompt while keeping the habit selection; an already
// logged day and a vanished habit terminate the flow.
func (b *Bot) handleCustomDateInput(ctx context.Context, u models.Update, p models.PendingInteraction, text string) error {
	s := tr(u.Locale())

	if strings.EqualFold(strings.TrimSpace(text), cancelToken) {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, s.LogCancelled)
		return nil
	}

	user, err := b.store.GetUserByTelegramID(u.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve user for custom date: %w", err)
	}
	if user == nil {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, s.UserNotFound)
		return nil
	}

	habit, err := b.ownedHabit(user, p.HabitID)
	if err != nil {
		return fmt.Errorf("failed to reload habit for custom date: %w", err)
	}
	if habit == nil {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, s.HabitNotFound)
		return nil
	}

	day, err := b.loggableDay(strings.TrimSpace(text))
	switch {
	case errors.Is(err, models.ErrFutureDate):
		b.reply(ctx, u, s.FutureDate)
		return nil
	case err != nil:
		b.reply(ctx, u, s.InvalidDate)
		return nil
	}

	switch err := b.commitCompletion(user, habit, day); {
	case errors.Is(err, models.ErrAlreadyLogged):
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, fmt.Sprintf(s.AlreadyLoggedFor, habit.Name, calendar.FormatDay(day)))
	case err != nil:
		return err
	default:
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, fmt.Sprintf(s.LoggedFor, habit.Name, calendar.FormatDay(day)))
	}
	return nil
}

// loggableDay parses a typed DD.MM.YYYY date and rejects days after the
// current UTC day with models.ErrFutureDate.
func (b *Bot) loggableDay(text string) (time.Time, error) {
	day, err := calendar.ParseDay(text)
	if err != nil {
		return time.Time{}, err
	}
	if day.After(calendar.DayStart(b.now())) {
		return time.Time{}, models.ErrFutureDate
	}
	return day, nil
}

// commitCompletion enforces the one-per-day invariant and inserts the
// completion record ts falls on.
func (b *Bot) commitCompletion(user *models.User, habit *models.Habit, ts time.Time) error {
	exists, err := b.store.HasCompletionOnDay(habit.ID, calendar.DayStart(ts))
	if err != nil {
		return fmt.Errorf("failed to check completion for day: %w", err)
	}
	if exists {
		return models.ErrAlreadyLogged
	}
	record := models.CompletionRecord{
		ID:        uuid.New(),
		HabitID:   habit.ID,
		UserID:    user.ID,
		Timestamp: ts,
		CreatedAt: b.now(),
	}
	if err := b.store.AddCompletion(record); err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	slog.Info("Bot logged habit", "habitID", habit.ID, "day", calendar.FormatDay(ts))
	return nil
}
