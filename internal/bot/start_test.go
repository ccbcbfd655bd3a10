package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/habitpulse/habitpulse/internal/models"
)

func TestStartRegistersUserOnce(t *testing.T) {
	b, msg, st := newTestBot()
	ctx := context.Background()

	update := textUpdate(100, "/start")
	update.FirstName = "Olena"
	update.LanguageCode = "en"

	b.HandleUpdate(ctx, update)
	user, err := st.GetUserByTelegramID(100)
	if err != nil || user == nil {
		t.Fatalf("user not registered: %v", err)
	}
	if user.FirstName != "Olena" {
		t.Errorf("FirstName = %q", user.FirstName)
	}

	sent := msg.lastSent(t)
	if !strings.Contains(sent.Body, "Welcome to Habit Pulse, Olena!") {
		t.Fatalf("welcome = %q", sent.Body)
	}
	if len(sent.Menu) != 2 || len(sent.Menu[0]) != 2 {
		t.Fatalf("menu keyboard layout = %+v", sent.Menu)
	}

	b.HandleUpdate(ctx, update)
	users, _ := st.ListUsers()
	if len(users) != 1 {
		t.Errorf("users after second /start = %d, want 1", len(users))
	}
}

func TestStartUkrainianLocale(t *testing.T) {
	b, msg, _ := newTestBot()
	ctx := context.Background()

	update := textUpdate(100, "/start")
	update.FirstName = "Olena"
	update.LanguageCode = "uk"

	b.HandleUpdate(ctx, update)
	sent := msg.lastSent(t)
	if !strings.Contains(sent.Body, "Вітаю в Habit Pulse") {
		t.Fatalf("welcome = %q, want Ukrainian", sent.Body)
	}
	if sent.Menu[0][0] != tr(models.LocaleUK).Menu.AddHabit {
		t.Errorf("menu = %+v, want Ukrainian labels", sent.Menu)
	}
}

func TestUnidentifiedUpdateGetsIdentityReply(t *testing.T) {
	b, msg, _ := newTestBot()

	b.HandleUpdate(context.Background(), models.Update{ChatID: 5, Text: "/stats"})
	if got := msg.lastSent(t).Body; got != tr(models.LocaleEN).UnableToIdentify {
		t.Fatalf("reply = %q", got)
	}
}
