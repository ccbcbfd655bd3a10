package messaging

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/habitpulse/habitpulse/internal/models"
)

// fakeBotAPI captures the last Bot API call and returns a canned response.
// getMe is always answered so service construction succeeds.
type fakeBotAPI struct {
	server     *httptest.Server
	lastMethod string
	lastForm   url.Values
	respond    func(method string) string
}

func newFakeBotAPI(t *testing.T) *fakeBotAPI {
	t.Helper()
	f := &fakeBotAPI{
		respond: func(string) string {
			return `{"ok":true,"result":{"message_id":1,"chat":{"id":1},"date":1}}`
		},
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse request form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if method == "getMe" {
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"pulse","username":"habitpulsebot"}}`))
			return
		}
		f.lastMethod = method
		f.lastForm = r.PostForm
		w.Write([]byte(f.respond(method)))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestService(t *testing.T, f *fakeBotAPI) *TelegramService {
	t.Helper()
	svc, err := NewTelegramService(WithToken("test-token"), WithBaseURL(f.server.URL))
	if err != nil {
		t.Fatalf("NewTelegramService failed: %v", err)
	}
	return svc
}

func TestNewTelegramServiceRequiresToken(t *testing.T) {
	if _, err := NewTelegramService(); err == nil {
		t.Fatal("expected error when token is missing")
	}
}

func TestSendMessageWithInlineKeyboard(t *testing.T) {
	f := newFakeBotAPI(t)
	svc := newTestService(t, f)

	msg := models.Message{
		ChatID: 42,
		Body:   "Select a habit to log:",
		Buttons: [][]models.Button{
			{{Label: "Run", Data: "log_abc"}},
		},
	}
	if err := svc.SendMessage(context.Background(), msg); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if f.lastMethod != "sendMessage" {
		t.Errorf("method = %q, want sendMessage", f.lastMethod)
	}
	if got := f.lastForm.Get("text"); got != "Select a habit to log:" {
		t.Errorf("text = %q", got)
	}
	markup := f.lastForm.Get("reply_markup")
	if !strings.Contains(markup, "inline_keyboard") || !strings.Contains(markup, "log_abc") {
		t.Errorf("expected inline keyboard in reply_markup, got %q", markup)
	}
}

func TestSendMessageMenuKeyboard(t *testing.T) {
	f := newFakeBotAPI(t)
	svc := newTestService(t, f)

	msg := models.Message{
		ChatID: 42,
		Body:   "Welcome!",
		Menu:   [][]string{{"Add habit", "My habits"}},
	}
	if err := svc.SendMessage(context.Background(), msg); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	markup := f.lastForm.Get("reply_markup")
	if !strings.Contains(markup, "keyboard") || !strings.Contains(markup, "Add habit") {
		t.Errorf("expected reply keyboard in reply_markup, got %q", markup)
	}
}

func TestSendMessageHTMLParseMode(t *testing.T) {
	f := newFakeBotAPI(t)
	svc := newTestService(t, f)

	msg := models.Message{ChatID: 42, Body: "<b>Run</b>", HTML: true}
	if err := svc.SendMessage(context.Background(), msg); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if got := f.lastForm.Get("parse_mode"); got != "HTML" {
		t.Errorf("parse_mode = %q, want HTML", got)
	}
}

func TestEditMessageNotModified(t *testing.T) {
	f := newFakeBotAPI(t)
	f.respond = func(method string) string {
		return `{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`
	}
	svc := newTestService(t, f)

	err := svc.EditMessage(context.Background(), models.Message{ChatID: 42, MessageID: 7, Body: "same"})
	if !errors.Is(err, models.ErrNotModified) {
		t.Fatalf("err = %v, want ErrNotModified", err)
	}
	if f.lastMethod != "editMessageText" {
		t.Errorf("method = %q, want editMessageText", f.lastMethod)
	}
}

func TestAnswerCallback(t *testing.T) {
	f := newFakeBotAPI(t)
	f.respond = func(method string) string {
		return `{"ok":true,"result":true}`
	}
	svc := newTestService(t, f)

	if err := svc.AnswerCallback(context.Background(), "cb1", "Logged!"); err != nil {
		t.Fatalf("AnswerCallback failed: %v", err)
	}
	if f.lastMethod != "answerCallbackQuery" {
		t.Errorf("method = %q, want answerCallbackQuery", f.lastMethod)
	}
	if got := f.lastForm.Get("text"); got != "Logged!" {
		t.Errorf("text = %q, want Logged!", got)
	}
}

func TestSendMessageAfterStop(t *testing.T) {
	f := newFakeBotAPI(t)
	svc := newTestService(t, f)
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	err := svc.SendMessage(context.Background(), models.Message{ChatID: 1, Body: "x"})
	if !errors.Is(err, ErrServiceStopped) {
		t.Fatalf("err = %v, want ErrServiceStopped", err)
	}
}

func TestStopLeavesUpdatesChannelOpen(t *testing.T) {
	f := newFakeBotAPI(t)
	svc := newTestService(t, f)

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	// Stop must not close the channel; a consumer stays blocked until its
	// own context ends.
	select {
	case _, ok := <-svc.Updates():
		if !ok {
			t.Fatal("update channel must stay open after Stop")
		}
		t.Fatal("no update should be delivered after Stop")
	case <-time.After(50 * time.Millisecond):
	}

	// Stop is idempotent.
	if err := svc.Stop(); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
}

func TestConvertUpdateText(t *testing.T) {
	u := tgbotapi.Update{
		UpdateID: 10,
		Message: &tgbotapi.Message{
			MessageID: 5,
			From:      &tgbotapi.User{ID: 99, FirstName: "Olena", LanguageCode: "uk"},
			Chat:      &tgbotapi.Chat{ID: 99},
			Date:      1767225600,
			Text:      "Run",
		},
	}
	got, ok := convertUpdate(u)
	if !ok {
		t.Fatal("expected update to convert")
	}
	if got.UserID != 99 || got.ChatID != 99 || got.Text != "Run" || got.IsCallback() {
		t.Errorf("converted update = %+v", got)
	}
	if got.Locale() != models.LocaleUK {
		t.Errorf("locale = %v, want uk", got.Locale())
	}
}

func TestConvertUpdateCallback(t *testing.T) {
	u := tgbotapi.Update{
		UpdateID: 11,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			From:    &tgbotapi.User{ID: 99, FirstName: "Olena"},
			Message: &tgbotapi.Message{MessageID: 6, Chat: &tgbotapi.Chat{ID: 99}},
			Data:    "stats_today",
		},
	}
	got, ok := convertUpdate(u)
	if !ok {
		t.Fatal("expected update to convert")
	}
	if !got.IsCallback() || got.CallbackData != "stats_today" || got.MessageID != 6 || got.CallbackID != "cb1" {
		t.Errorf("converted update = %+v", got)
	}
}

func TestConvertUpdateIgnoresNonText(t *testing.T) {
	if _, ok := convertUpdate(tgbotapi.Update{UpdateID: 12}); ok {
		t.Fatal("empty update must be ignored")
	}
	u := tgbotapi.Update{
		UpdateID: 13,
		Message:  &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: 1}},
	}
	if _, ok := convertUpdate(u); ok {
		t.Fatal("non-text message must be ignored")
	}
}
