package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/revive-underground/smart-booking/pkg/logging"
)

const (
	defaultTwilioBaseURL = "https://api.twilio.com"
	twilioMaxAttempts    = 3
)

var errTwilioUnconfigured = errors.New("Twilio client is not initialized or FROM number is missing. Cannot send SMS.")

// SMSSender sends a plain-text SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) Outcome
}

// TwilioConfig holds the REST credentials and sender number.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
}

// TwilioSMSSender posts SMS messages using Twilio's REST API.
type TwilioSMSSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	backoff    func(attempt int) time.Duration
	logger     *logging.Logger
}

func NewTwilioSMSSender(cfg TwilioConfig, logger *logging.Logger) *TwilioSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}
	return &TwilioSMSSender{
		accountSID: strings.TrimSpace(cfg.AccountSID),
		authToken:  strings.TrimSpace(cfg.AuthToken),
		from:       strings.TrimSpace(cfg.FromNumber),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		backoff: func(int) time.Duration {
			return time.Duration(200+rand.Intn(300)) * time.Millisecond
		},
		logger: logger,
	}
}

var _ SMSSender = (*TwilioSMSSender)(nil)

func (s *TwilioSMSSender) Configured() bool {
	return s != nil && s.accountSID != "" && s.authToken != "" && s.from != ""
}

// SendSMS normalizes and validates the destination, then dispatches one SMS,
// retrying transient failures.
func (s *TwilioSMSSender) SendSMS(ctx context.Context, to, body string) Outcome {
	if !s.Configured() {
		if s != nil {
			s.logger.Error("twilio sms not sent", "error", errTwilioUnconfigured)
		}
		return failed(ChannelSMS, errTwilioUnconfigured)
	}

	normalized := NormalizePhone(to)
	if !ValidE164(normalized) {
		err := fmt.Errorf("Invalid 'to' phone number format provided: %q. Must be in E.164 format (e.g., +919876543210).", to)
		s.logger.Warn("twilio sms not sent", "error", err)
		return failed(ChannelSMS, err)
	}
	if strings.TrimSpace(body) == "" {
		return failed(ChannelSMS, errors.New("sms body required"))
	}

	ctx, span := notifyTracer.Start(ctx, "notify.twilio.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("revive.sms.to", normalized))

	payload := url.Values{}
	payload.Set("To", normalized)
	payload.Set("From", s.from)
	payload.Set("Body", body)
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)

	var lastErr error
send:
	for attempt := 1; attempt <= twilioMaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
		if err != nil {
			lastErr = err
			break
		}
		req.SetBasicAuth(s.accountSID, s.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				var parsed struct {
					SID string `json:"sid"`
				}
				_ = json.Unmarshal(respBody, &parsed)
				s.logger.Info("twilio sms sent", "to", normalized, "sid", parsed.SID)
				return delivered(ChannelSMS, parsed.SID)
			}
			lastErr = fmt.Errorf("twilio send failed: %s", formatTwilioError(resp.StatusCode, respBody))
			// Other 5xx responses may arrive after Twilio queued the message,
			// so retrying them could deliver the SMS twice.
			if !retryableTwilioStatus(resp.StatusCode) {
				break
			}
		}

		if attempt == twilioMaxAttempts {
			break
		}
		timer := time.NewTimer(s.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			lastErr = fmt.Errorf("twilio send aborted: %w (last error: %v)", ctx.Err(), lastErr)
			break send
		case <-timer.C:
		}
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	s.logger.Error("twilio sms failed", "error", lastErr, "to", normalized)
	return failed(ChannelSMS, lastErr)
}

func retryableTwilioStatus(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

type twilioAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func formatTwilioError(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	return fmt.Sprintf("status %d: %s", status, trimmed)
}
