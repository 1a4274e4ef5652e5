// Package notify defines how the application sends messages to people
// outside it, such as a patient's emergency contacts.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
)

// ErrNoRecipient is returned when a message has no usable destination.
var ErrNoRecipient = errors.New("no recipient")

// Receipt describes an accepted message.
type Receipt struct {
	// ID is the provider's message identifier, empty when the provider has none.
	ID string `json:"id,omitempty"`
	// Channel names the delivery channel, e.g. "whatsapp" or "log".
	Channel string `json:"channel"`
	// To is the normalised destination.
	To string `json:"to"`
}

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) (*Receipt, error)
}

// LogSender is used when no messaging provider is configured. It records
// the message in the log and reports success.
type LogSender struct {
	logger *slog.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates a LogSender. If logger is nil, a default logger will be used.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, to, body string) (*Receipt, error) {
	if to == "" {
		return nil, ErrNoRecipient
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("notification not sent, no provider configured",
		slog.Int("body_length", len(body)))
	return &Receipt{Channel: "log", To: to}, nil
}
