package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/habitpulse/habitpulse/internal/models"
)

// handleSetTarget starts a single-step target edit from the habit detail
// view: prompt for the value and wait for the next text message.
func (b *Bot) handleSetTarget(ctx context.Context, u models.Update, action Action, period models.TargetPeriod) error {
	s := tr(u.Locale())

	user, ok, err := b.requireUserCallback(ctx, u)
	if err != nil || !ok {
		return err
	}
	habit, err := b.ownedHabit(user, action.HabitID)
	if err != nil {
		return fmt.Errorf("failed to load habit for target edit: %w", err)
	}
	if habit == nil {
		b.answer(ctx, u, s.HabitNotFound)
		return nil
	}

	kind := models.PendingMonthlyTargetEdit
	prompt := s.SetMonthlyAsk
	if period == models.TargetYearly {
		kind = models.PendingYearlyTargetEdit
		prompt = s.SetYearlyAsk
	}
	b.sessions.SetPending(u.UserID, models.PendingInteraction{Kind: kind, HabitID: habit.ID})

	b.answer(ctx, u, "")
	b.edit(ctx, models.Message{
		ChatID:    u.ChatID,
		MessageID: u.MessageID,
		Body:      fmt.Sprintf(prompt, habit.Name),
		HTML:      true,
	})
	return nil
}

// handleTargetEditInput consumes the target value. Zero removes the target;
// invalid input re-prompts in place. A habit deleted mid-flow terminates
// the edit with a not-found reply.
func (b *Bot) handleTargetEditInput(ctx context.Context, u models.Update, p models.PendingInteraction, period models.TargetPeriod, text string) error {
	s := tr(u.Locale())

	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value < 0 {
		b.reply(ctx, u, s.InvalidTargetEdit)
		return nil
	}

	user, err := b.store.GetUserByTelegramID(u.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve user for target edit: %w", err)
	}
	if user == nil {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, s.UserNotFound)
		return nil
	}

	habit, err := b.ownedHabit(user, p.HabitID)
	if err != nil {
		return fmt.Errorf("failed to reload habit for target edit: %w", err)
	}
	if habit == nil {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, s.HabitNotFound)
		return nil
	}

	var target *int
	if value > 0 {
		target = &value
	}
	if period == models.TargetMonthly {
		habit.TargetPerMonth = target
	} else {
		habit.TargetPerYear = target
	}
	habit.UpdatedAt = b.now()
	if err := b.store.UpdateHabit(*habit); err != nil {
		return fmt.Errorf("failed to update habit target: %w", err)
	}
	b.sessions.ClearPending(u.UserID)
	slog.Info("Bot updated habit target", "habitID", habit.ID, "period", period, "value", value)

	switch {
	case period == models.TargetMonthly && value == 0:
		b.reply(ctx, u, fmt.Sprintf(s.MonthlyTargetRemoved, habit.Name))
	case period == models.TargetMonthly:
		b.reply(ctx, u, fmt.Sprintf(s.MonthlyTargetSet, habit.Name, value))
	case value == 0:
		b.reply(ctx, u, fmt.Sprintf(s.YearlyTargetRemoved, habit.Name))
	default:
		b.reply(ctx, u, fmt.Sprintf(s.YearlyTargetSet, habit.Name, value))
	}
	return nil
}
