package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/habitpulse/habitpulse/internal/models"
)

// command is a normalized text command, whether typed as a slash command or
// pressed as a menu button.
type command string

const (
	cmdStart        command = "start"
	cmdAddHabit     command = "add_habit"
	cmdViewHabits   command = "view_habits"
	cmdLogHabit     command = "log_habit"
	cmdStats        command = "stats"
	cmdTestReminder command = "test_reminder"
)

// commandForText maps slash commands and localized menu button labels to
// commands. Non-command text reports false.
func commandForText(text string, loc models.Locale) (command, bool) {
	switch text {
	case "/start":
		return cmdStart, true
	case "/add_habit":
		return cmdAddHabit, true
	case "/view_habits":
		return cmdViewHabits, true
	case "/log_habit":
		return cmdLogHabit, true
	case "/stats":
		return cmdStats, true
	case "/test_reminder":
		return cmdTestReminder, true
	}
	menu := tr(loc).Menu
	switch text {
	case menu.AddHabit:
		return cmdAddHabit, true
	case menu.ViewHabits:
		return cmdViewHabits, true
	case menu.LogHabit:
		return cmdLogHabit, true
	case menu.Stats:
		return cmdStats, true
	}
	return "", false
}

// handleText routes a free-text update. Commands run first and supersede any
// pending flow, so starting an unrelated command never leaves a stale flow
// consuming later input. Otherwise the user's single pending interaction, if
// any, consumes the text. Unrecognized text outside a flow is ignored.
func (b *Bot) handleText(ctx context.Context, u models.Update) error {
	if err := u.Validate(); errors.Is(err, models.ErrNoIdentity) {
		b.reply(ctx, u, tr(u.Locale()).UnableToIdentify)
		return nil
	}

	text := strings.TrimSpace(u.Text)
	if cmd, ok := commandForText(text, u.Locale()); ok {
		b.sessions.ClearPending(u.UserID)
		switch cmd {
		case cmdStart:
			return b.handleStart(ctx, u)
		case cmdAddHabit:
			return b.startAddHabit(ctx, u)
		case cmdViewHabits:
			return b.handleViewHabits(ctx, u)
		case cmdLogHabit:
			return b.startLogHabit(ctx, u)
		case cmdStats:
			return b.handleStats(ctx, u)
		case cmdTestReminder:
			return b.handleTestReminder(ctx, u)
		}
	}

	pending, ok := b.sessions.Pending(u.UserID)
	if !ok {
		slog.Debug("Bot.handleText no pending flow, ignoring", "userID", u.UserID)
		return nil
	}

	switch pending.Kind {
	case models.PendingHabitName:
		return b.handleHabitNameInput(ctx, u, text)
	case models.PendingMonthlyTarget:
		return b.handleMonthlyTargetInput(ctx, u, pending, text)
	case models.PendingYearlyTarget:
		return b.handleYearlyTargetInput(ctx, u, pending, text)
	case models.PendingMonthlyTargetEdit:
		return b.handleTargetEditInput(ctx, u, pending, models.TargetMonthly, text)
	case models.PendingYearlyTargetEdit:
		return b.handleTargetEditInput(ctx, u, pending, models.TargetYearly, text)
	case models.PendingLogHabitName:
		return b.handleLogHabitNameInput(ctx, u, text)
	case models.PendingLogSelection, models.PendingLogCustomDate:
		// A typed date while the date-mode buttons are still showing is
		// treated the same as after pressing Custom Date.
		return b.handleCustomDateInput(ctx, u, pending, text)
	default:
		slog.Error("Bot.handleText unknown pending kind", "userID", u.UserID, "kind", pending.Kind)
		b.sessions.ClearPending(u.UserID)
		return nil
	}
}

// handleCallback routes a button press. Target-edit buttons pass through the
// duplicate guard so a double tap issues a single prompt.
func (b *Bot) handleCallback(ctx context.Context, u models.Update) error {
	if err := u.Validate(); errors.Is(err, models.ErrNoIdentity) {
		b.answer(ctx, u, tr(u.Locale()).UnableToIdentify)
		return nil
	}

	action, err := DecodeAction(u.CallbackData)
	if err != nil {
		slog.Warn("Bot.handleCallback undecodable action", "error", err, "userID", u.UserID)
		b.answer(ctx, u, "")
		return nil
	}

	if action.Kind == ActionSetMonthlyTarget || action.Kind == ActionSetYearlyTarget {
		if b.sessions.SuppressDuplicateCallback(u.UserID, u.CallbackData, b.now()) {
			b.answer(ctx, u, "")
			return nil
		}
	}

	switch action.Kind {
	case ActionLogHabit:
		return b.handleLogSelection(ctx, u, action)
	case ActionLogToday:
		return b.handleLogToday(ctx, u, action)
	case ActionLogCustom:
		return b.handleLogCustom(ctx, u, action)
	case ActionViewHabit:
		return b.handleViewHabit(ctx, u, action)
	case ActionViewStats:
		return b.handleViewHabitStats(ctx, u, action)
	case ActionSetMonthlyTarget:
		return b.handleSetTarget(ctx, u, action, models.TargetMonthly)
	case ActionSetYearlyTarget:
		return b.handleSetTarget(ctx, u, action, models.TargetYearly)
	case ActionRemoveHabit:
		return b.handleRemoveHabit(ctx, u, action)
	case ActionStatsPrev, ActionStatsNext, ActionStatsToday, ActionStatsHabit:
		return b.handleStatsNavigation(ctx, u, action)
	default:
		b.answer(ctx, u, "")
		return nil
	}
}
