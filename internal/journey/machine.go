package journey

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/revive-underground/smart-booking/internal/observability/metrics"
	"github.com/revive-underground/smart-booking/internal/recommend"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

// Fallback copy shown when synthesis cannot produce a usable result.
const (
	EmptyResultSummary        = "Your information has been processed by Rudra AI."
	EmptyResultRecommendation = "Our expert team will review your details to construct a fully personalized R8 plan during your initial session. Please confirm your booking to proceed."
	FailureSummary            = "Rudra AI has processed your information."
	FailureRecommendation     = "There was an issue generating an instant AI recommendation. However, our expert team will personally review your needs. Please confirm your booking to proceed, and we will architect the optimal R8 pathway for you during your session."
)

// ErrSynthesizerUnavailable is reported when no synthesizer is wired.
var ErrSynthesizerUnavailable = errors.New("journey: synthesizer not configured")

// Synthesizer produces the summary and recommendation for a finished journey.
type Synthesizer interface {
	Synthesize(ctx context.Context, name, contextText, selectedProgramName string) (recommend.Recommendation, error)
}

// AdvanceRequest is one wizard round-trip. The caller owns the state.
type AdvanceRequest struct {
	CurrentQuestionID   string            `json:"currentQuestionId"`
	PreviousAnswers     map[string]string `json:"previousAnswers"`
	UserResponse        string            `json:"userResponse"`
	SelectedProgramName string            `json:"selectedProgramName,omitempty"`
}

// StepResult is IN_PROGRESS when NextQuestion is set and COMPLETE otherwise.
type StepResult struct {
	NextQuestion         *Question `json:"nextQuestion"`
	Summary              string    `json:"summary,omitempty"`
	Recommendation       string    `json:"recommendation,omitempty"`
	ConversationComplete bool      `json:"conversationComplete"`
	Fallback             bool      `json:"fallback,omitempty"`
}

// MachineOption customises a Machine.
type MachineOption func(*Machine)

// WithSynthesisTimeout bounds the synthesizer call. Zero disables the bound.
func WithSynthesisTimeout(d time.Duration) MachineOption {
	return func(m *Machine) { m.timeout = d }
}

func WithMetrics(bm *metrics.BookingMetrics) MachineOption {
	return func(m *Machine) { m.metrics = bm }
}

// Machine drives the booking journey over a validated registry.
type Machine struct {
	registry    *Registry
	synthesizer Synthesizer
	timeout     time.Duration
	metrics     *metrics.BookingMetrics
	logger      *logging.Logger
}

// NewMachine wires the state machine. A nil synthesizer makes every
// completion use the fallback copy.
func NewMachine(registry *Registry, synthesizer Synthesizer, logger *logging.Logger, opts ...MachineOption) *Machine {
	if registry == nil {
		panic("journey: registry cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	m := &Machine{
		registry:    registry,
		synthesizer: synthesizer,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Registry() *Registry {
	return m.registry
}

// Advance returns the next question, or on the terminal question the
// synthesized (or fallback) result. The only error is a *ConfigError.
func (m *Machine) Advance(ctx context.Context, req AdvanceRequest) (StepResult, error) {
	first := m.registry.First()
	if req.CurrentQuestionID == first.ID && len(req.PreviousAnswers) == 0 && req.UserResponse == "" {
		m.metrics.ObserveAdvance("question")
		return StepResult{NextQuestion: &first}, nil
	}

	current, ok := m.registry.Lookup(req.CurrentQuestionID)
	if !ok {
		m.metrics.ObserveAdvance("config_error")
		m.logger.Error("journey: unknown question id", "question_id", req.CurrentQuestionID)
		return StepResult{}, &ConfigError{
			QuestionID: req.CurrentQuestionID,
			Reason:     "question is not in the registry",
			Err:        ErrUnknownQuestion,
		}
	}

	if nextQ, ok := m.registry.Next(current.ID); ok {
		m.metrics.ObserveAdvance("question")
		return StepResult{NextQuestion: &nextQ}, nil
	}

	return m.complete(ctx, current, req), nil
}

func (m *Machine) complete(ctx context.Context, terminal Question, req AdvanceRequest) StepResult {
	answers := make(map[string]string, len(req.PreviousAnswers)+1)
	for id, answer := range req.PreviousAnswers {
		answers[id] = answer
	}
	answers[terminal.ID] = req.UserResponse

	name := strings.TrimSpace(answers[QuestionName])
	if name == "" {
		name = "User"
	}
	contextText := BuildContext(m.registry, answers)

	rec, err := m.synthesize(ctx, name, contextText, req.SelectedProgramName)
	if err != nil {
		m.metrics.ObserveAdvance("fallback")
		m.logger.Warn("journey: recommendation fallback", "error", err)
		if errors.Is(err, recommend.ErrEmptyRecommendation) {
			return StepResult{
				Summary:              EmptyResultSummary,
				Recommendation:       EmptyResultRecommendation,
				ConversationComplete: true,
				Fallback:             true,
			}
		}
		return StepResult{
			Summary:              FailureSummary,
			Recommendation:       FailureRecommendation,
			ConversationComplete: true,
			Fallback:             true,
		}
	}

	m.metrics.ObserveAdvance("complete")
	return StepResult{
		Summary:              rec.Summary,
		Recommendation:       rec.Recommendation,
		ConversationComplete: true,
	}
}

func (m *Machine) synthesize(ctx context.Context, name, contextText, program string) (rec recommend.Recommendation, err error) {
	if m.synthesizer == nil {
		return recommend.Recommendation{}, ErrSynthesizerUnavailable
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.metrics.ObserveSynthesis(status, time.Since(start).Seconds())
	}()

	rec, err = m.synthesizer.Synthesize(ctx, name, contextText, program)
	if err != nil {
		return recommend.Recommendation{}, err
	}
	if strings.TrimSpace(rec.Summary) == "" || strings.TrimSpace(rec.Recommendation) == "" {
		return recommend.Recommendation{}, recommend.ErrEmptyRecommendation
	}
	return rec, nil
}
