package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/models"
)

// skipToken opts out of a target during habit creation.
const skipToken = "skip"

// startAddHabit begins the creation flow: ask for the habit name and wait.
func (b *Bot) startAddHabit(ctx context.Context, u models.Update) error {
	if _, ok, err := b.requireUser(ctx, u); err != nil || !ok {
		return err
	}
	b.reply(ctx, u, tr(u.Locale()).EnterHabitName)
	b.sessions.SetPending(u.UserID, models.PendingInteraction{Kind: models.PendingHabitName})
	return nil
}

// handleHabitNameInput consumes the name step. A duplicate name terminates
// the flow with a conflict message instead of moving on to the targets.
func (b *Bot) handleHabitNameInput(ctx context.Context, u models.Update, text string) error {
	s := tr(u.Locale())
	name := normalizeHabitName(text)
	if name == "" {
		return nil
	}
	if len(name) > models.MaxHabitNameLength {
		b.reply(ctx, u, s.EnterHabitName)
		return nil
	}

	user, ok, err := b.requireUser(ctx, u)
	if err != nil || !ok {
		return err
	}

	existing, err := b.store.GetHabitByName(user.ID, name)
	if err != nil {
		return fmt.Errorf("failed to check habit name: %w", err)
	}
	if existing != nil {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, fmt.Sprintf(s.DuplicateHabit, name))
		return nil
	}

	b.sessions.SetPending(u.UserID, models.PendingInteraction{
		Kind:      models.PendingMonthlyTarget,
		HabitName: name,
	})
	b.reply(ctx, u, fmt.Sprintf(s.MonthlyTargetAsk, name))
	return nil
}

// handleMonthlyTargetInput consumes the monthly target step. Invalid input
// re-prompts without touching the pending state.
func (b *Bot) handleMonthlyTargetInput(ctx context.Context, u models.Update, p models.PendingInteraction, text string) error {
	s := tr(u.Locale())
	target, ok := parseCreationTarget(text)
	if !ok {
		b.reply(ctx, u, s.InvalidTargetValue)
		return nil
	}

	b.sessions.SetPending(u.UserID, models.PendingInteraction{
		Kind:          models.PendingYearlyTarget,
		HabitName:     p.HabitName,
		MonthlyTarget: target,
	})
	b.reply(ctx, u, fmt.Sprintf(s.YearlyTargetAsk, p.HabitName))
	return nil
}

// handleYearlyTargetInput consumes the final step and commits the habit.
func (b *Bot) handleYearlyTargetInput(ctx context.Context, u models.Update, p models.PendingInteraction, text string) error {
	s := tr(u.Locale())
	target, ok := parseCreationTarget(text)
	if !ok {
		b.reply(ctx, u, s.InvalidTargetValue)
		return nil
	}

	user, err := b.store.GetUserByTelegramID(u.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve user before habit commit: %w", err)
	}
	if user == nil {
		b.sessions.ClearPending(u.UserID)
		b.reply(ctx, u, s.RegisterFirst)
		return nil
	}

	now := b.now()
	habit := models.Habit{
		ID:             uuid.New(),
		UserID:         user.ID,
		Name:           p.HabitName,
		Enabled:        true,
		TargetPerMonth: p.MonthlyTarget,
		TargetPerYear:  target,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := b.store.CreateHabit(habit); err != nil {
		if errors.Is(err, models.ErrDuplicateHabit) {
			b.sessions.ClearPending(u.UserID)
			b.reply(ctx, u, fmt.Sprintf(s.DuplicateHabit, p.HabitName))
			return nil
		}
		return fmt.Errorf("failed to create habit: %w", err)
	}

	b.sessions.ClearPending(u.UserID)
	slog.Info("Bot created habit", "habitID", habit.ID, "userID", user.ID, "name", habit.Name)
	b.reply(ctx, u, habitCreatedMessage(s, habit.Name, habit.TargetPerMonth, habit.TargetPerYear))
	return nil
}

// parseCreationTarget interprets a creation target answer: the skip token
// yields no target, otherwise a strictly positive integer is required.
func parseCreationTarget(text string) (*int, bool) {
	input := strings.ToLower(strings.TrimSpace(text))
	if input == skipToken {
		return nil, true
	}
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 {
		return nil, false
	}
	return &n, true
}
