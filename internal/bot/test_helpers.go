package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/models"
	"github.com/habitpulse/habitpulse/internal/session"
	"github.com/habitpulse/habitpulse/internal/store"
)

// fakeMessenger records outbound traffic for assertions in tests.
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []models.Message
	edited  []models.Message
	toasts  []string
	editErr error
	updates chan models.Update
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{updates: make(chan models.Update, 8)}
}

func (f *fakeMessenger) SendMessage(_ context.Context, msg models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMessenger) EditMessage(_ context.Context, msg models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edited = append(f.edited, msg)
	return nil
}

func (f *fakeMessenger) AnswerCallback(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toasts = append(f.toasts, text)
	return nil
}

func (f *fakeMessenger) Updates() <-chan models.Update { return f.updates }
func (f *fakeMessenger) Start(context.Context) error   { return nil }
func (f *fakeMessenger) Stop() error                   { return nil }

func (f *fakeMessenger) lastSent(t *testing.T) models.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("no messages sent")
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) lastEdited(t *testing.T) models.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edited) == 0 {
		t.Fatal("no messages edited")
	}
	return f.edited[len(f.edited)-1]
}

func (f *fakeMessenger) lastToast(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.toasts) == 0 {
		t.Fatal("no callbacks answered")
	}
	return f.toasts[len(f.toasts)-1]
}

func (f *fakeMessenger) editCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edited)
}

func (f *fakeMessenger) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// testNow is the fixed clock used by bot tests: 15 Aug 2026, mid-day UTC.
var testNow = time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)

func newTestBot() (*Bot, *fakeMessenger, *store.InMemoryStore) {
	st := store.NewInMemoryStore()
	msg := newFakeMessenger()
	b := New(st, msg, session.NewManager())
	b.now = func() time.Time { return testNow }
	return b, msg, st
}

func seedUser(t *testing.T, st store.Store, telegramID int64) models.User {
	t.Helper()
	user := models.User{
		ID:         uuid.New(),
		TelegramID: telegramID,
		FirstName:  "Olena",
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
	if err := st.CreateUser(user); err != nil {
		t.Fatalf("seedUser failed: %v", err)
	}
	return user
}

func seedHabit(t *testing.T, st store.Store, userID uuid.UUID, name string) models.Habit {
	t.Helper()
	habit := models.Habit{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Enabled:   true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := st.CreateHabit(habit); err != nil {
		t.Fatalf("seedHabit failed: %v", err)
	}
	return habit
}

func textUpdate(userID int64, text string) models.Update {
	return models.Update{UserID: userID, ChatID: userID, Text: text, Time: testNow.Unix()}
}

func callbackUpdate(userID int64, data string) models.Update {
	return models.Update{
		UserID:       userID,
		ChatID:       userID,
		MessageID:    77,
		CallbackID:   "cb",
		CallbackData: data,
		Time:         testNow.Unix(),
	}
}
