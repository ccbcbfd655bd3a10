// Package bot implements the conversational core of Habit Pulse: command
// handling, the per-user multi-step flows (habit creation, target editing,
// habit logging), the calendar stats view with month navigation, and the
// button-action router.
//
// All ephemeral flow state lives in the session manager, keyed by the
// transport user id. Handlers re-validate user and habit existence before
// every commit; a habit deleted mid-flow terminates the flow with a
// not-found reply instead of retrying.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/messaging"
	"github.com/habitpulse/habitpulse/internal/models"
	"github.com/habitpulse/habitpulse/internal/session"
	"github.com/habitpulse/habitpulse/internal/store"
)

// Bot wires the store, the messaging transport, and the session manager into
// one update handler.
type Bot struct {
	store    store.Store
	msg      messaging.Service
	sessions *session.Manager
	now      func() time.Time
}

// New creates a bot over the given collaborators.
func New(st store.Store, msgSvc messaging.Service, sessions *session.Manager) *Bot {
	return &Bot{
		store:    st,
		msg:      msgSvc,
		sessions: sessions,
		now:      time.Now,
	}
}

// Run consumes inbound updates until the context is cancelled or the
// transport closes its update channel.
func (b *Bot) Run(ctx context.Context) error {
	slog.Info("Bot.Run starting update loop")
	for {
		select {
		case <-ctx.Done():
			slog.Info("Bot.Run stopping", "reason", ctx.Err())
			return ctx.Err()
		case update, ok := <-b.msg.Updates():
			if !ok {
				slog.Info("Bot.Run update channel closed")
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate is the outermost dispatch boundary. Flow handlers deal with
// validation, conflict, and not-found conditions themselves; anything that
// escapes here is logged and answered with a generic apology.
func (b *Bot) HandleUpdate(ctx context.Context, u models.Update) {
	slog.Debug("Bot.HandleUpdate", "userID", u.UserID, "callback", u.IsCallback())

	var err error
	if u.IsCallback() {
		err = b.handleCallback(ctx, u)
	} else {
		err = b.handleText(ctx, u)
	}
	if err != nil {
		slog.Error("Bot.HandleUpdate failed", "error", err, "userID", u.UserID, "callback", u.IsCallback())
		b.reply(ctx, u, tr(u.Locale()).GenericError)
	}
}

// reply sends a plain message to the update's chat. Transport failures are
// logged, not propagated: there is nothing the flow can do about them.
func (b *Bot) reply(ctx context.Context, u models.Update, body string) {
	b.send(ctx, models.Message{ChatID: u.ChatID, Body: body})
}

func (b *Bot) send(ctx context.Context, msg models.Message) {
	if err := b.msg.SendMessage(ctx, msg); err != nil {
		slog.Error("Bot send failed", "error", err, "chatID", msg.ChatID)
	}
}

// edit replaces a previously sent message in place.
func (b *Bot) edit(ctx context.Context, msg models.Message) {
	if err := b.msg.EditMessage(ctx, msg); err != nil {
		slog.Error("Bot edit failed", "error", err, "chatID", msg.ChatID, "messageID", msg.MessageID)
	}
}

// answer acknowledges a callback query, optionally with a toast text.
func (b *Bot) answer(ctx context.Context, u models.Update, text string) {
	if err := b.msg.AnswerCallback(ctx, u.CallbackID, text); err != nil {
		slog.Error("Bot answer failed", "error", err, "callbackID", u.CallbackID)
	}
}

// requireUser resolves the registered user behind an update. When the user
// is unknown it replies with the registration hint and reports false.
func (b *Bot) requireUser(ctx context.Context, u models.Update) (*models.User, bool, error) {
	user, err := b.store.GetUserByTelegramID(u.UserID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		b.reply(ctx, u, tr(u.Locale()).RegisterFirst)
		return nil, false, nil
	}
	return user, true, nil
}

// requireUserCallback is the callback-side variant of requireUser: absence
// is acknowledged as a toast instead of a chat message.
func (b *Bot) requireUserCallback(ctx context.Context, u models.Update) (*models.User, bool, error) {
	user, err := b.store.GetUserByTelegramID(u.UserID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		b.answer(ctx, u, tr(u.Locale()).UserNotFound)
		return nil, false, nil
	}
	return user, true, nil
}

// ownedHabit fetches a habit and checks it belongs to the user. Missing and
// foreign habits both read as absent.
func (b *Bot) ownedHabit(user *models.User, habitID uuid.UUID) (*models.Habit, error) {
	habit, err := b.store.GetHabit(habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil || habit.UserID != user.ID {
		return nil, nil
	}
	return habit, nil
}

// normalizeHabitName produces the canonical stored form of a habit name:
// trimmed, first rune upper-cased, the rest lower-cased.
func normalizeHabitName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
