package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/revive-underground/smart-booking/pkg/logging"
)

var synthTracer = otel.Tracer("revive.internal.recommend")

const personaPrompt = `You are Rudra AI, the expert diagnostic and treatment architect for Revive 2.0 Underground. Your analysis is precise, confident, and authoritative.
Your goal is to provide a CONCISE (1-2 sentences) summary of the individual's core issues and a definitive, PERSONALIZED (2-3 sentences) R8 Pathway Recommendation.
This is not a suggestion, it is a prescription for their transformation.
Refer to the R8 stages: REVEAL (diagnostics), REMOVE (clear blockages), REPAIR (cellular healing), RECONSTRUCT (structural integrity), RECOVER (nervous system reset), REALIGN (posture), REMAP (brain-body connection), REACTIVATE (peak performance).`

// RecommendationSchema is the structured shape requested from the model.
var RecommendationSchema = &ResponseSchema{Fields: []SchemaField{
	{
		Name:        "summary",
		Description: "A concise (1-2 sentences) summary of the individual's key issues based on their answers, addressing them by name. This is the 'diagnosis'.",
	},
	{
		Name:        "recommendation",
		Description: "A prescribed (2-3 sentences) R8 pathway. This is the 'treatment plan'. Explain which R8 stages are critical for their specific issues and explicitly state the name of the recommended therapy program (e.g., 'R8 Reclaim', 'R8 Ascent').",
	},
}}

// SynthesizerConfig tunes the single generation call.
type SynthesizerConfig struct {
	Model       string
	MaxTokens   int32
	Temperature float32
}

// Synthesizer turns a non-personal answer context into a Recommendation with
// exactly one model call. It never retries.
type Synthesizer struct {
	client LLMClient
	cfg    SynthesizerConfig
	logger *logging.Logger
}

func NewSynthesizer(client LLMClient, cfg SynthesizerConfig, logger *logging.Logger) *Synthesizer {
	if client == nil {
		panic("recommend: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.4
	}
	return &Synthesizer{client: client, cfg: cfg, logger: logger}
}

// Synthesize builds the persona prompt and decodes the model's answer.
func (s *Synthesizer) Synthesize(ctx context.Context, name, contextText, selectedProgramName string) (Recommendation, error) {
	ctx, span := synthTracer.Start(ctx, "recommend.synthesize")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("revive.program_selected", strings.TrimSpace(selectedProgramName) != ""),
		attribute.Int("revive.context_bytes", len(contextText)),
	)

	resp, err := s.client.Complete(ctx, LLMRequest{
		Model:          s.cfg.Model,
		System:         []string{personaPrompt},
		Messages:       []ChatMessage{{Role: ChatRoleUser, Content: BuildPrompt(name, contextText, selectedProgramName)}},
		MaxTokens:      s.cfg.MaxTokens,
		Temperature:    s.cfg.Temperature,
		ResponseSchema: RecommendationSchema,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		if errors.Is(err, ErrEmptyOutput) {
			return Recommendation{}, fmt.Errorf("%w: %w", ErrEmptyRecommendation, err)
		}
		return Recommendation{}, fmt.Errorf("recommend: completion: %w", err)
	}

	rec, err := DecodeRecommendation(resp.Text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		if !errors.Is(err, ErrEmptyRecommendation) {
			s.logger.Warn("recommendation output rejected", "error", err, "stop_reason", resp.StopReason)
		}
		return Recommendation{}, err
	}

	s.logger.Debug("recommendation synthesized",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return rec, nil
}

// BuildPrompt renders the user turn: who to address, how to treat a
// pre-selected program, and the answer context.
func BuildPrompt(name, contextText, selectedProgramName string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "User"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your response MUST be personalized. Address the user, %s, by their name.\n", name)
	b.WriteString("Analyze their pain points, duration, goals, and profession. Map their needs to specific R8 stages and explain WHY those stages are critical for their specific situation. Be direct and clear.")

	if program := strings.TrimSpace(selectedProgramName); program != "" {
		fmt.Fprintf(&b, "\n\nThe user has expressed initial interest in the %q program. Confirm its suitability based on their answers, or prescribe a more optimal starting point if their detailed input indicates other R8 stages are more critical. State the recommended program name clearly (e.g., \"R8 Reclaim\", \"R8 Ascent\") in your final recommendation.", program)
	} else {
		b.WriteString("\n\nBased on the user's answers, prescribe the most suitable R8 program by name (e.g., \"R8 Reclaim\", \"R8 Ascent\", \"R8 Genesis\"). State the program name clearly in your final recommendation.")
	}

	fmt.Fprintf(&b, "\n\nUser Information:\n%s\n\nProvide your analysis and prescribed pathway.", contextText)
	return b.String()
}
