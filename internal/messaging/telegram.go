// Package messaging provides the Telegram transport.
//
// This file implements Service on top of the go-telegram-bot-api SDK with
// long polling.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/habitpulse/habitpulse/internal/models"
)

// Telegram transport configuration constants.
const (
	// DefaultAPIBaseURL is the Bot API host.
	DefaultAPIBaseURL = "https://api.telegram.org"
	// DefaultPollTimeout is the long-poll timeout passed to getUpdates.
	DefaultPollTimeout = 30 * time.Second
)

// Opts holds configuration options for the Telegram service.
type Opts struct {
	Token       string
	BaseURL     string
	PollTimeout time.Duration
	Client      tgbotapi.HTTPClient
}

// Option defines a configuration option for the Telegram service.
type Option func(*Opts)

// WithToken sets the bot token.
func WithToken(token string) Option {
	return func(o *Opts) {
		o.Token = token
	}
}

// WithBaseURL overrides the Bot API host, used in tests.
func WithBaseURL(url string) Option {
	return func(o *Opts) {
		o.BaseURL = url
	}
}

// WithPollTimeout sets the long-poll timeout.
func WithPollTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.PollTimeout = d
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c tgbotapi.HTTPClient) Option {
	return func(o *Opts) {
		o.Client = c
	}
}

// TelegramService implements Service over the Telegram Bot API SDK.
type TelegramService struct {
	bot         *tgbotapi.BotAPI
	pollTimeout time.Duration
	updates     chan models.Update
	done        chan struct{}
	mu          sync.RWMutex
	stopped     bool
}

// NewTelegramService creates a Telegram transport with the given options.
// It validates the token against the Bot API (getMe) during construction.
func NewTelegramService(opts ...Option) (*TelegramService, error) {
	cfg := Opts{
		BaseURL:     DefaultAPIBaseURL,
		PollTimeout: DefaultPollTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token not set")
	}

	// The SDK takes the endpoint as a format string filled with token and
	// method name.
	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/bot%s/%s"

	var bot *tgbotapi.BotAPI
	var err error
	if cfg.Client != nil {
		bot, err = tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, cfg.Client)
	} else {
		bot, err = tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, endpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	slog.Info("TelegramService connected", "username", bot.Self.UserName)

	return &TelegramService{
		bot:         bot,
		pollTimeout: cfg.PollTimeout,
		updates:     make(chan models.Update, DefaultChannelBufferSize),
		done:        make(chan struct{}),
	}, nil
}

// inlineKeyboard converts a button layout to the SDK's inline keyboard markup.
func inlineKeyboard(rows [][]models.Button) tgbotapi.InlineKeyboardMarkup {
	kb := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			r = append(r, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		kb = append(kb, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kb...)
}

// menuKeyboard converts a label layout to the SDK's reply keyboard markup.
func menuKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	kb := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			r = append(r, tgbotapi.NewKeyboardButton(label))
		}
		kb = append(kb, r)
	}
	return tgbotapi.NewReplyKeyboard(kb...)
}

// SendMessage sends a new message.
func (s *TelegramService) SendMessage(ctx context.Context, msg models.Message) error {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrServiceStopped
	}
	s.mu.RUnlock()

	out := tgbotapi.NewMessage(msg.ChatID, msg.Body)
	if msg.HTML {
		out.ParseMode = tgbotapi.ModeHTML
	}
	if len(msg.Buttons) > 0 {
		out.ReplyMarkup = inlineKeyboard(msg.Buttons)
	} else if len(msg.Menu) > 0 {
		out.ReplyMarkup = menuKeyboard(msg.Menu)
	}

	if _, err := s.bot.Send(out); err != nil {
		slog.Error("TelegramService SendMessage failed", "error", err, "chatID", msg.ChatID)
		return fmt.Errorf("sendMessage failed: %w", err)
	}
	slog.Debug("TelegramService SendMessage succeeded", "chatID", msg.ChatID)
	return nil
}

// EditMessage edits a previously sent message in place. A byte-identical
// replacement maps to models.ErrNotModified.
func (s *TelegramService) EditMessage(ctx context.Context, msg models.Message) error {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrServiceStopped
	}
	s.mu.RUnlock()

	edit := tgbotapi.NewEditMessageText(msg.ChatID, int(msg.MessageID), msg.Body)
	if msg.HTML {
		edit.ParseMode = tgbotapi.ModeHTML
	}
	if len(msg.Buttons) > 0 {
		kb := inlineKeyboard(msg.Buttons)
		edit.ReplyMarkup = &kb
	}

	if _, err := s.bot.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			slog.Debug("TelegramService EditMessage content unchanged", "chatID", msg.ChatID, "messageID", msg.MessageID)
			return models.ErrNotModified
		}
		slog.Error("TelegramService EditMessage failed", "error", err, "chatID", msg.ChatID, "messageID", msg.MessageID)
		return fmt.Errorf("editMessageText failed: %w", err)
	}
	slog.Debug("TelegramService EditMessage succeeded", "chatID", msg.ChatID, "messageID", msg.MessageID)
	return nil
}

// AnswerCallback acknowledges a callback query.
func (s *TelegramService) AnswerCallback(ctx context.Context, callbackID, text string) error {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrServiceStopped
	}
	s.mu.RUnlock()

	if _, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		slog.Error("TelegramService AnswerCallback failed", "error", err, "callbackID", callbackID)
		return fmt.Errorf("answerCallbackQuery failed: %w", err)
	}
	return nil
}

// Updates returns the channel of inbound updates.
func (s *TelegramService) Updates() <-chan models.Update {
	return s.updates
}

// Start begins long polling through the SDK and forwards converted updates.
func (s *TelegramService) Start(ctx context.Context) error {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrServiceStopped
	}
	s.mu.RUnlock()

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(s.pollTimeout.Seconds())
	cfg.AllowedUpdates = []string{"message", "callback_query"}
	ch := s.bot.GetUpdatesChan(cfg)

	slog.Info("TelegramService starting long poll", "timeout", s.pollTimeout)
	go s.forward(ctx, ch)
	return nil
}

// forward drains the SDK update channel into the transport-neutral one.
// The outbound channel is never closed; consumers exit via their context.
func (s *TelegramService) forward(ctx context.Context, ch tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case u, ok := <-ch:
			if !ok {
				return
			}
			update, ok := convertUpdate(u)
			if !ok {
				continue
			}
			select {
			case s.updates <- update:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}
}

// convertUpdate maps an SDK update to the transport-neutral form.
func convertUpdate(u tgbotapi.Update) (models.Update, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From == nil || cq.Message == nil {
			return models.Update{}, false
		}
		return models.Update{
			UserID:       cq.From.ID,
			ChatID:       cq.Message.Chat.ID,
			MessageID:    int64(cq.Message.MessageID),
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
			FirstName:    cq.From.FirstName,
			LastName:     cq.From.LastName,
			Username:     cq.From.UserName,
			LanguageCode: cq.From.LanguageCode,
			Time:         time.Now().Unix(),
		}, true
	case u.Message != nil && u.Message.Text != "":
		m := u.Message
		update := models.Update{
			ChatID:    m.Chat.ID,
			MessageID: int64(m.MessageID),
			Text:      m.Text,
			Time:      int64(m.Date),
		}
		if m.From != nil {
			update.UserID = m.From.ID
			update.FirstName = m.From.FirstName
			update.LastName = m.From.LastName
			update.Username = m.From.UserName
			update.LanguageCode = m.From.LanguageCode
		}
		return update, true
	default:
		return models.Update{}, false
	}
}

// Stop stops background processing. The update channel stays open so a
// consumer blocked on it is released by its own context, not a close.
func (s *TelegramService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	close(s.done)
	s.bot.StopReceivingUpdates()
	return nil
}
