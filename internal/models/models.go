// Package models defines the core data structures for Habit Pulse.
//
// It includes domain entities, transport message types, and shared error
// values used across modules.
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Locale selects the language for outbound messages and calendar tables.
type Locale string

const (
	// LocaleEN is the default English locale.
	LocaleEN Locale = "en"
	// LocaleUK is the Ukrainian locale.
	LocaleUK Locale = "uk"
)

// LocaleFromLanguageCode maps a transport language hint to a supported locale.
// Ukrainian when the code starts with "uk", otherwise English.
func LocaleFromLanguageCode(code string) Locale {
	if strings.HasPrefix(strings.ToLower(code), "uk") {
		return LocaleUK
	}
	return LocaleEN
}

// Validation constants for habit input.
const (
	// MaxHabitNameLength defines the maximum allowed length for a habit name.
	MaxHabitNameLength = 100
)

// Error variables for better error handling and testability.
var (
	ErrNoIdentity     = errors.New("no resolvable user identity on inbound event")
	ErrUserNotFound   = errors.New("user not found")
	ErrHabitNotFound  = errors.New("habit not found")
	ErrDuplicateHabit = errors.New("habit with this name already exists")
	ErrAlreadyLogged  = errors.New("habit already logged for this day")
	ErrInvalidInput   = errors.New("invalid input")
	ErrFutureDate     = errors.New("date is in the future")
	ErrNotModified    = errors.New("message content not modified")
	ErrEmptyHabitName = errors.New("habit name cannot be empty")
	ErrHabitNameLong  = errors.New("habit name exceeds maximum length")
)

// User represents a registered participant keyed by their transport identity.
type User struct {
	ID           uuid.UUID `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name,omitempty"`
	Username     string    `json:"username,omitempty"`
	LanguageCode string    `json:"language_code,omitempty"`
	ReminderHour int       `json:"reminder_hour"` // hour in UTC (0-23)
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Locale returns the user's locale derived from their language hint.
func (u *User) Locale() Locale {
	return LocaleFromLanguageCode(u.LanguageCode)
}

// Habit represents one tracked habit belonging to a single user.
// Name is stored in normalized form and is case-insensitively unique per user.
// Targets are optional; nil means no target is set.
type Habit struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Enabled        bool      `json:"enabled"`
	TargetPerMonth *int      `json:"target_per_month,omitempty"`
	TargetPerYear  *int      `json:"target_per_year,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks habit fields before persistence.
func (h *Habit) Validate() error {
	if h.Name == "" {
		return ErrEmptyHabitName
	}
	if len(h.Name) > MaxHabitNameLength {
		return ErrHabitNameLong
	}
	if h.TargetPerMonth != nil && *h.TargetPerMonth <= 0 {
		return ErrInvalidInput
	}
	if h.TargetPerYear != nil && *h.TargetPerYear <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// CompletionRecord marks one habit as performed on one calendar day.
// Timestamp carries day-level granularity; the day boundary is UTC midnight.
// At most one record exists per (habit, calendar day).
type CompletionRecord struct {
	ID        uuid.UUID `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	UserID    uuid.UUID `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// TargetPeriod identifies which habit target a flow is editing.
type TargetPeriod string

const (
	// TargetMonthly refers to the per-month target of a habit.
	TargetMonthly TargetPeriod = "month"
	// TargetYearly refers to the per-year target of a habit.
	TargetYearly TargetPeriod = "year"
)

// Update represents one inbound transport event: either a free-text message
// or a button press carrying an opaque action token. Exactly one of Text and
// CallbackData is non-empty.
type Update struct {
	UserID       int64  `json:"user_id"` // transport identity, 0 when unresolvable
	ChatID       int64  `json:"chat_id"`
	MessageID    int64  `json:"message_id"` // message the callback is attached to
	CallbackID   string `json:"callback_id,omitempty"`
	Text         string `json:"text,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	Time         int64  `json:"time"` // unix seconds
}

// IsCallback reports whether the update is a button press.
func (u *Update) IsCallback() bool {
	return u.CallbackData != ""
}

// Validate checks the update carries a resolvable sender identity.
func (u *Update) Validate() error {
	if u.UserID == 0 {
		return ErrNoIdentity
	}
	return nil
}

// Locale returns the locale derived from the update's language hint.
func (u *Update) Locale() Locale {
	return LocaleFromLanguageCode(u.LanguageCode)
}

// Button is one inline keyboard button: a label shown to the user and an
// opaque action token returned when pressed.
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Message represents outbound content: a new message or an in-place edit.
// MessageID is set only for edits. Buttons is an inline keyboard layout,
// Menu a persistent reply keyboard; at most one of the two is set.
type Message struct {
	ChatID    int64      `json:"chat_id"`
	MessageID int64      `json:"message_id,omitempty"`
	Body      string     `json:"body"`
	HTML      bool       `json:"html,omitempty"`
	Buttons   [][]Button `json:"buttons,omitempty"`
	Menu      [][]string `json:"menu,omitempty"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates a successful API operation.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates a failed API operation.
	APIStatusError APIStatus = "error"
)

// APIResponse is the envelope returned by every REST endpoint.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
