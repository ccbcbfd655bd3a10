// Package messaging provides the message transport abstraction for
// Habit Pulse.
//
// The bot core depends only on the Service interface; the concrete
// transport (Telegram Bot API long polling) lives behind it.
package messaging

import (
	"context"
	"errors"

	"github.com/habitpulse/habitpulse/internal/models"
)

// DefaultChannelBufferSize is the buffer size for the inbound update channel.
const DefaultChannelBufferSize = 100

// ErrServiceStopped is returned when an operation is attempted on a stopped service.
var ErrServiceStopped = errors.New("messaging service is stopped")

// Service defines a pluggable message delivery abstraction.
// It supports sending and editing messages and provides a channel of
// inbound updates (free text and button presses).
type Service interface {
	// SendMessage sends a new message. Buttons and Menu on the message
	// carry optional inline and reply keyboard layouts.
	SendMessage(ctx context.Context, msg models.Message) error

	// EditMessage replaces the content of a previously sent message in
	// place. When the replacement is byte-identical to the displayed
	// content it returns models.ErrNotModified, which is a distinct
	// acknowledgement rather than a failure.
	EditMessage(ctx context.Context, msg models.Message) error

	// AnswerCallback acknowledges a button press, optionally with a short
	// notification text.
	AnswerCallback(ctx context.Context, callbackID, text string) error

	// Updates returns the channel of inbound updates.
	Updates() <-chan models.Update

	// Start begins background processing (e.g., polling for updates).
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error
}
