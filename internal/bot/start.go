package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/models"
)

// handleStart registers the user on first contact and shows the welcome
// message with the persistent menu keyboard.
func (b *Bot) handleStart(ctx context.Context, u models.Update) error {
	s := tr(u.Locale())

	user, err := b.store.GetUserByTelegramID(u.UserID)
	if err != nil {
		return fmt.Errorf("failed to look up user on start: %w", err)
	}
	if user == nil {
		now := b.now()
		created := models.User{
			ID:           uuid.New(),
			TelegramID:   u.UserID,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Username:     u.Username,
			LanguageCode: u.LanguageCode,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := b.store.CreateUser(created); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("Bot.handleStart registered new user", "telegramID", u.UserID)
	}

	displayName := u.FirstName
	if displayName == "" {
		displayName = "User"
	}

	menu := s.Menu
	b.send(ctx, models.Message{
		ChatID: u.ChatID,
		Body:   fmt.Sprintf(s.Welcome, displayName),
		Menu: [][]string{
			{menu.AddHabit, menu.ViewHabits},
			{menu.LogHabit, menu.Stats},
		},
	})
	return nil
}
