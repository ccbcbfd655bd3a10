package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/habitpulse/habitpulse/internal/calendar"
	"github.com/habitpulse/habitpulse/internal/models"
)

// handleViewHabits shows one button per habit leading to the detail view.
func (b *Bot) handleViewHabits(ctx context.Context, u models.Update) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUser(ctx, u)
	if err != nil || !ok {
		return err
	}

	habits, err := b.store.ListHabits(user.ID)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	if len(habits) == 0 {
		b.reply(ctx, u, s.NoHabitsYet)
		return nil
	}

	buttons := make([][]models.Button, 0, len(habits))
	for _, h := range habits {
		buttons = append(buttons, []models.Button{{
			Label: h.Name,
			Data:  Action{Kind: ActionViewHabit, HabitID: h.ID}.Encode(),
		}})
	}
	b.send(ctx, models.Message{ChatID: u.ChatID, Body: s.SelectHabitDetail, Buttons: buttons})
	return nil
}

// handleViewHabit edits the selection message into the habit detail view
// with the stats, target, and removal buttons.
func (b *Bot) handleViewHabit(ctx context.Context, u models.Update, action Action) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUserCallback(ctx, u)
	if err != nil || !ok {
		return err
	}
	habit, err := b.ownedHabit(user, action.HabitID)
	if err != nil {
		return fmt.Errorf("failed to load habit detail: %w", err)
	}
	if habit == nil {
		b.answer(ctx, u, s.HabitNotFound)
		return nil
	}

	completions, err := b.store.ListCompletions(habit.ID)
	if err != nil {
		return fmt.Errorf("failed to list completions for detail: %w", err)
	}
	lastLogged := s.DetailNever
	if len(completions) > 0 {
		lastLogged = calendar.FormatDay(completions[0].Timestamp)
	}

	perMonth := s.DetailNotSet
	if habit.TargetPerMonth != nil {
		perMonth = fmt.Sprintf("%d", *habit.TargetPerMonth)
	}
	perYear := s.DetailNotSet
	if habit.TargetPerYear != nil {
		perYear = fmt.Sprintf("%d", *habit.TargetPerYear)
	}

	body := fmt.Sprintf("<b>%s</b>\n\n", habit.Name)
	body += fmt.Sprintf("%s: %s\n", s.DetailCreated, calendar.FormatDay(habit.CreatedAt))
	body += fmt.Sprintf("%s: %s\n\n", s.DetailLastLogged, lastLogged)
	body += fmt.Sprintf("<b>%s:</b>\n", s.DetailTargets)
	body += fmt.Sprintf("%s: %s\n", s.DetailPerMonth, perMonth)
	body += fmt.Sprintf("%s: %s\n", s.DetailPerYear, perYear)

	b.answer(ctx, u, "")
	b.edit(ctx, models.Message{
		ChatID:    u.ChatID,
		MessageID: u.MessageID,
		Body:      body,
		HTML:      true,
		Buttons: [][]models.Button{
			{{Label: s.ButtonViewStats, Data: Action{Kind: ActionViewStats, HabitID: habit.ID}.Encode()}},
			{
				{Label: s.ButtonSetMonthly, Data: Action{Kind: ActionSetMonthlyTarget, HabitID: habit.ID}.Encode()},
				{Label: s.ButtonSetYearly, Data: Action{Kind: ActionSetYearlyTarget, HabitID: habit.ID}.Encode()},
			},
			{{Label: s.ButtonRemoveHabit, Data: Action{Kind: ActionRemoveHabit, HabitID: habit.ID}.Encode()}},
		},
	})
	return nil
}

// handleRemoveHabit deletes a habit with its completions and clears any
// pending flow that still references it.
func (b *Bot) handleRemoveHabit(ctx context.Context, u models.Update, action Action) error {
	s := tr(u.Locale())
	user, ok, err := b.requireUserCallback(ctx, u)
	if err != nil || !ok {
		return err
	}
	habit, err := b.ownedHabit(user, action.HabitID)
	if err != nil {
		return fmt.Errorf("failed to load habit for removal: %w", err)
	}
	if habit == nil {
		b.answer(ctx, u, s.HabitNotFound)
		return nil
	}

	if err := b.store.DeleteHabit(habit.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if p, ok := b.sessions.Pending(u.UserID); ok && p.HabitID == habit.ID {
		b.sessions.ClearPending(u.UserID)
	}
	slog.Info("Bot removed habit", "habitID", habit.ID, "userID", user.ID)

	b.answer(ctx, u, "")
	b.edit(ctx, models.Message{
		ChatID:    u.ChatID,
		MessageID: u.MessageID,
		Body:      fmt.Sprintf(s.HabitRemoved, habit.Name),
	})
	return nil
}
