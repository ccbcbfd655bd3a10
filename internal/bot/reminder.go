package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/habitpulse/habitpulse/internal/models"
)

// buildReminderMessage lists the habits to log, numbered, between the
// reminder header and footer.
func buildReminderMessage(s texts, habits []models.Habit, test bool) string {
	header := s.ReminderHeader
	if test {
		header = s.TestReminderHeader
	}
	body := header
	for i, h := range habits {
		body += fmt.Sprintf("%d. %s\n", i+1, h.Name)
	}
	return body + s.ReminderFooter
}

// SendDailyReminders sends the daily habit reminder to every user with at
// least one enabled habit. Per-user delivery failures are logged and do not
// stop the run; the scheduler invokes this once per day.
func (b *Bot) SendDailyReminders(ctx context.Context) error {
	users, err := b.store.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users for reminders: %w", err)
	}

	sent := 0
	for _, user := range users {
		habits, err := b.store.ListEnabledHabits(user.ID)
		if err != nil {
			slog.Error("Bot.SendDailyReminders failed to list habits", "error", err, "userID", user.ID)
			continue
		}
		if len(habits) == 0 {
			continue
		}

		body := buildReminderMessage(tr(user.Locale()), habits, false)
		if err := b.msg.SendMessage(ctx, models.Message{ChatID: user.TelegramID, Body: body}); err != nil {
			slog.Error("Bot.SendDailyReminders delivery failed", "error", err, "telegramID", user.TelegramID)
			continue
		}
		sent++
	}
	slog.Info("Bot.SendDailyReminders completed", "users", len(users), "sent", sent)
	return nil
}

// handleTestReminder fires the reminder for the calling user on demand.
func (b *Bot) handleTestReminder(ctx context.Context, u models.Update) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUser(ctx, u)
	if err != nil || !ok {
		return err
	}

	habits, err := b.store.ListEnabledHabits(user.ID)
	if err != nil {
		return fmt.Errorf("failed to list habits for test reminder: %w", err)
	}
	if len(habits) == 0 {
		b.reply(ctx, u, s.NoEnabledHabits)
		return nil
	}

	b.send(ctx, models.Message{
		ChatID: user.TelegramID,
		Body:   buildReminderMessage(s, habits, true),
	})
	b.reply(ctx, u, s.TestReminderSent)
	return nil
}
