package notify

import (
	"context"
	"strings"

	"github.com/revive-underground/smart-booking/internal/observability/metrics"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

// Service fans notifications out to the configured channels. Every method is
// best-effort: nothing here returns an error.
type Service struct {
	chat    ChatSender
	sms     SMSSender
	email   EmailSender
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewService creates a notification service. Any sender may be nil, in which
// case sends on that channel are skipped.
func NewService(chat ChatSender, sms SMSSender, email EmailSender, bm *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		chat:    chat,
		sms:     sms,
		email:   email,
		metrics: bm,
		logger:  logger,
	}
}

// Chat posts text to the operator chat.
func (s *Service) Chat(ctx context.Context, text string) Outcome {
	if s == nil || s.chat == nil {
		return s.record(skipped(ChannelChat, "chat sender not configured"))
	}
	return s.record(s.chat.SendMessage(ctx, text))
}

// SMS sends body to the given phone number.
func (s *Service) SMS(ctx context.Context, to, body string) Outcome {
	if s == nil || s.sms == nil {
		return s.record(skipped(ChannelSMS, "sms sender not configured"))
	}
	if strings.TrimSpace(to) == "" {
		return s.record(skipped(ChannelSMS, "no destination number"))
	}
	return s.record(s.sms.SendSMS(ctx, to, body))
}

// Email sends msg through the configured provider.
func (s *Service) Email(ctx context.Context, msg EmailMessage) Outcome {
	if s == nil || s.email == nil {
		return s.record(skipped(ChannelEmail, "email sender not configured"))
	}
	if strings.TrimSpace(msg.To) == "" {
		return s.record(skipped(ChannelEmail, "no recipient"))
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: email failed", "error", err, "to", msg.To)
		return s.record(failed(ChannelEmail, err))
	}
	return s.record(delivered(ChannelEmail, ""))
}

// EmailEnabled reports whether an email sender is wired.
func (s *Service) EmailEnabled() bool {
	return s != nil && s.email != nil
}

func (s *Service) record(o Outcome) Outcome {
	if s == nil {
		return o
	}
	s.metrics.ObserveNotification(string(o.Channel), o.Result())
	if !o.Delivered && !o.Skipped {
		s.logger.Warn("notify: send failed", "channel", o.Channel, "detail", o.Detail)
	}
	return o
}
