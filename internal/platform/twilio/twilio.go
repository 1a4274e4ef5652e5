// Package twilio sends WhatsApp messages through the Twilio REST API.
package twilio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/notify"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	twiliogo "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsappPrefix = "whatsapp:"

// messageCreator is the part of the Twilio API the sender uses. It is
// satisfied by *twilioApi.ApiService.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// WhatsAppSender implements notify.Sender over Twilio's WhatsApp channel.
type WhatsAppSender struct {
	api    messageCreator
	from   string
	logger *slog.Logger
}

var _ notify.Sender = (*WhatsAppSender)(nil)

// NewWhatsAppSender creates a sender from the notification config.
func NewWhatsAppSender(cfg config.NotifyConfig, logger *slog.Logger) (*WhatsAppSender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("account SID and auth token must be provided")
	}
	if cfg.WhatsAppFrom == "" {
		return nil, fmt.Errorf("whatsapp sender number must be provided")
	}

	client := twiliogo.NewRestClientWithParams(twiliogo.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return newWhatsAppSender(client.Api, cfg.WhatsAppFrom, logger), nil
}

func newWhatsAppSender(api messageCreator, from string, logger *slog.Logger) *WhatsAppSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &WhatsAppSender{
		api:    api,
		from:   Address(from),
		logger: logger.With(slog.String("component", "twilio_whatsapp")),
	}
}

// Address turns a phone number into a Twilio WhatsApp address,
// "whatsapp:+<digits>". It returns "" when the number has no digits.
func Address(phone string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), whatsappPrefix)
	digits := domain.PhoneDigits(phone)
	if digits == "" {
		return ""
	}
	return whatsappPrefix + "+" + digits
}

// Send implements notify.Sender. The Twilio client does not take a
// context, so cancellation is only checked before the call.
func (s *WhatsAppSender) Send(ctx context.Context, to, body string) (*notify.Receipt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	address := Address(to)
	if address == "" {
		return nil, notify.ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(address)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		log.Error("twilio message failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to send whatsapp message: %w", err)
	}

	receipt := &notify.Receipt{Channel: "whatsapp", To: address}
	if msg != nil && msg.Sid != nil {
		receipt.ID = *msg.Sid
	}
	log.Info("whatsapp message sent", slog.String("message_sid", receipt.ID))
	return receipt, nil
}
