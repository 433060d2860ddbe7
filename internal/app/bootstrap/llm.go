package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/revive-underground/smart-booking/internal/recommend"
)

// LLM provider names accepted in LLM_PROVIDER.
const (
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
	ProviderAuto    = "auto"
	ProviderNone    = "none"
)

// Gemini returns the shared Gemini client.
func (c *Clients) Gemini(ctx context.Context) (*recommend.GeminiLLMClient, error) {
	c.geminiOnce.Do(func() {
		c.gemini, c.geminiErr = recommend.NewGeminiLLMClient(ctx, c.cfg.GoogleAPIKey, c.cfg.GeminiModelID)
	})
	return c.gemini, c.geminiErr
}

// BuildLLMClient selects the text generation backend. It returns a nil
// client (and no error) when nothing is configured; the journey then answers
// with its fallback copy.
func BuildLLMClient(ctx context.Context, clients *Clients) (recommend.LLMClient, string, error) {
	cfg := clients.cfg
	logger := clients.logger
	provider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	hasGemini := strings.TrimSpace(cfg.GoogleAPIKey) != ""
	hasBedrock := strings.TrimSpace(cfg.BedrockModelID) != ""

	bedrock := func() (recommend.LLMClient, error) {
		awsCfg, err := clients.AWS(ctx)
		if err != nil {
			return nil, err
		}
		return recommend.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)), nil
	}

	switch provider {
	case ProviderNone:
		logger.Warn("llm disabled; recommendations will use fallback copy")
		return nil, ProviderNone, nil
	case ProviderGemini:
		client, err := clients.Gemini(ctx)
		if err != nil {
			return nil, "", err
		}
		return client, ProviderGemini, nil
	case ProviderBedrock:
		if !hasBedrock {
			return nil, "", fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		client, err := bedrock()
		if err != nil {
			return nil, "", err
		}
		return client, ProviderBedrock, nil
	case ProviderAuto, "":
		switch {
		case hasGemini && hasBedrock:
			primary, err := clients.Gemini(ctx)
			if err != nil {
				return nil, "", err
			}
			secondary, err := bedrock()
			if err != nil {
				logger.Warn("bedrock fallback unavailable; using gemini only", "error", err)
				return primary, ProviderGemini, nil
			}
			return recommend.NewFallbackLLMClient(primary, secondary, logger), "gemini+bedrock", nil
		case hasGemini:
			client, err := clients.Gemini(ctx)
			if err != nil {
				return nil, "", err
			}
			return client, ProviderGemini, nil
		case hasBedrock:
			client, err := bedrock()
			if err != nil {
				return nil, "", err
			}
			return client, ProviderBedrock, nil
		default:
			logger.Warn("no llm provider configured; recommendations will use fallback copy")
			return nil, ProviderNone, nil
		}
	default:
		return nil, "", fmt.Errorf("bootstrap: unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
