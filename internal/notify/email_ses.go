package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/revive-underground/smart-booking/pkg/logging"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig configures booking mail sent through SES.
type SESConfig struct {
	FromEmail string
	FromName  string
	// ReplyTo routes client replies to the front desk instead of the
	// sending address. Optional.
	ReplyTo string
	// ConfigurationSet enables SES event publishing. Optional.
	ConfigurationSet string
}

// SESSender delivers booking confirmations and follow-ups through SES v2.
type SESSender struct {
	client sesAPI
	from   mail.Address
	cfg    SESConfig
	logger *logging.Logger
}

func NewSESSender(client sesAPI, cfg SESConfig, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	name := strings.TrimSpace(cfg.FromName)
	if name == "" {
		name = DefaultFromName
	}
	return &SESSender{
		client: client,
		from:   mail.Address{Name: name, Address: strings.TrimSpace(cfg.FromEmail)},
		cfg:    cfg,
		logger: logger,
	}
}

var _ EmailSender = (*SESSender)(nil)

// Send delivers msg. A plain-text-only message also gets a minimal HTML part
// so clients render line breaks.
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return errors.New("notify: SES client not configured")
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("notify: email recipient required")
	}

	to := msg.To
	if name := strings.TrimSpace(msg.ToName); name != "" {
		to = (&mail.Address{Name: name, Address: msg.To}).String()
	}
	htmlBody := msg.HTML
	if htmlBody == "" && msg.Body != "" {
		htmlBody = plainToHTML(msg.Body)
	}

	body := &types.Body{}
	if msg.Body != "" {
		body.Text = sesContent(msg.Body)
	}
	if htmlBody != "" {
		body.Html = sesContent(htmlBody)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from.String()),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{Subject: sesContent(msg.Subject), Body: body},
		},
	}
	if reply := strings.TrimSpace(s.cfg.ReplyTo); reply != "" {
		input.ReplyToAddresses = []string{reply}
	}
	if set := strings.TrimSpace(s.cfg.ConfigurationSet); set != "" {
		input.ConfigurationSetName = aws.String(set)
	}
	if msg.Kind != "" {
		input.EmailTags = []types.MessageTag{{Name: aws.String("kind"), Value: aws.String(msg.Kind)}}
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("ses send failed", "error", err, "to", msg.To, "kind", msg.Kind)
		return fmt.Errorf("notify: SES send failed: %w", err)
	}
	s.logger.Info("email sent via ses", "to", msg.To, "kind", msg.Kind, "message_id", aws.ToString(out.MessageId))
	return nil
}

func sesContent(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}
