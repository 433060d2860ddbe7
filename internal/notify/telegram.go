package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/revive-underground/smart-booking/pkg/logging"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

var notifyTracer = otel.Tracer("revive.internal.notify")

// ChatSender posts operator-facing messages to a single fixed destination.
type ChatSender interface {
	SendMessage(ctx context.Context, text string) Outcome
}

// TelegramConfig configures the bot destination.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	// BaseURL overrides the Bot API host (tests).
	BaseURL string
}

// TelegramSender sends Markdown messages through the Telegram Bot API.
type TelegramSender struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

func NewTelegramSender(cfg TelegramConfig, logger *logging.Logger) *TelegramSender {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTelegramBaseURL
	}
	return &TelegramSender{
		token:      strings.TrimSpace(cfg.BotToken),
		chatID:     strings.TrimSpace(cfg.ChatID),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

var _ ChatSender = (*TelegramSender)(nil)

// Configured reports whether both the bot token and chat id are set.
func (s *TelegramSender) Configured() bool {
	return s != nil && s.token != "" && s.chatID != ""
}

type telegramSendMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts text with Markdown parse mode. Text over the Bot API
// limit is clipped. Failures are logged and reported in the Outcome.
func (s *TelegramSender) SendMessage(ctx context.Context, text string) Outcome {
	if !s.Configured() {
		if s != nil {
			s.logger.Warn("telegram bot token or chat id not configured, skipping message")
		}
		return skipped(ChannelChat, "telegram not configured")
	}

	ctx, span := notifyTracer.Start(ctx, "notify.telegram.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	payload, err := json.Marshal(telegramSendMessage{ChatID: s.chatID, Text: Clip(text, MaxTelegramText), ParseMode: "Markdown"})
	if err != nil {
		return s.fail(span, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return s.fail(span, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.fail(span, fmt.Errorf("telegram request failed: %w", err))
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed telegramResponse
	_ = json.Unmarshal(body, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.OK {
		detail := parsed.Description
		if detail == "" {
			detail = strings.TrimSpace(string(body))
		}
		return s.fail(span, fmt.Errorf("telegram status %d: %s", resp.StatusCode, detail))
	}

	s.logger.Info("telegram message sent", "chat_id", s.chatID)
	return delivered(ChannelChat, "")
}

func (s *TelegramSender) fail(span trace.Span, err error) Outcome {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error("failed to send telegram message", "error", err)
	return failed(ChannelChat, err)
}
