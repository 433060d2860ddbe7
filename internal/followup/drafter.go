// Package followup drafts operator follow-up messages for a stored booking.
package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/revive-underground/smart-booking/internal/appointments"
	"github.com/revive-underground/smart-booking/internal/recommend"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

var tracer = otel.Tracer("revive.internal.followup")

// ErrIncompleteDraft is returned when the model leaves any draft field blank.
var ErrIncompleteDraft = errors.New("followup: model returned an incomplete draft")

const systemPrompt = "You are an expert client onboarding assistant for Revive 2.0 Underground, a world-class fitness and therapy center. Your tone is professional, confident, and reassuring."

var draftSchema = &recommend.ResponseSchema{Fields: []recommend.SchemaField{
	{
		Name:        "smsMessage",
		Description: "A concise, confident, and welcoming SMS/WhatsApp message. Welcome the client to Revive 2.0 Underground. Briefly mention their primary issue (e.g., 'back pain') and confirm that their personalized R8 plan is being prepared. State a clear next step: 'Our team will call you shortly to schedule your first session.'",
	},
	{
		Name:        "emailSubject",
		Description: "A compelling and informative subject line. Example: 'Your Personalized R8 Pathway with Revive 2.0 Underground is Ready' or 'Next Steps for Your Transformation at Revive Underground'.",
	},
	{
		Name:        "emailBody",
		Description: "A detailed, well-structured, and professional plain-text email. It must: 1. Welcome the client by name. 2. Thank them for their inquiry. 3. Briefly recap their situation based on the AI summary. 4. Clearly state the recommended R8 stages from the AI recommendation and briefly explain the benefit. 5. State the clear next step (e.g., 'Our team will contact you shortly to schedule your session'). 6. End with a professional closing from 'The Revive 2.0 Underground Team'.",
	},
}}

// Draft is the SMS and email the operator can send.
type Draft struct {
	SMSMessage   string `json:"smsMessage"`
	EmailSubject string `json:"emailSubject"`
	EmailBody    string `json:"emailBody"`
}

type Drafter struct {
	client recommend.LLMClient
	model  string
	logger *logging.Logger
}

func NewDrafter(client recommend.LLMClient, model string, logger *logging.Logger) *Drafter {
	if client == nil {
		panic("followup: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Drafter{client: client, model: model, logger: logger}
}

// Draft asks the model for a confirmation-style SMS and email for rec.
func (d *Drafter) Draft(ctx context.Context, rec appointments.Record) (Draft, error) {
	ctx, span := tracer.Start(ctx, "followup.draft")
	defer span.End()

	resp, err := d.client.Complete(ctx, recommend.LLMRequest{
		Model:          d.model,
		System:         []string{systemPrompt},
		Messages:       []recommend.ChatMessage{{Role: recommend.ChatRoleUser, Content: buildPrompt(rec)}},
		MaxTokens:      1024,
		Temperature:    0.5,
		ResponseSchema: draftSchema,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return Draft{}, fmt.Errorf("followup: completion: %w", err)
	}

	var draft Draft
	if err := recommend.DecodeObject(resp.Text, &draft); err != nil {
		span.RecordError(err)
		d.logger.Warn("followup draft rejected", "error", err, "inquiry_id", rec.ID)
		return Draft{}, err
	}
	draft.SMSMessage = strings.TrimSpace(draft.SMSMessage)
	draft.EmailSubject = strings.TrimSpace(draft.EmailSubject)
	draft.EmailBody = strings.TrimSpace(draft.EmailBody)
	if draft.SMSMessage == "" || draft.EmailSubject == "" || draft.EmailBody == "" {
		span.SetStatus(codes.Error, "incomplete draft")
		return Draft{}, ErrIncompleteDraft
	}
	return draft, nil
}

func buildPrompt(rec appointments.Record) string {
	program := strings.TrimSpace(rec.ProgramName)
	if program == "" {
		program = appointments.DefaultProgramName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A client named %s has just completed a detailed smart booking inquiry. They are not asking for help; they have provided their details and are expecting confirmation and next steps.\n\n", rec.Name)
	b.WriteString("**Client Data:**\n")
	fmt.Fprintf(&b, "- Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "- Program of Interest: %s\n", program)
	fmt.Fprintf(&b, "- AI Summary of Client's Issues: %q\n", rec.AISummary)
	fmt.Fprintf(&b, "- AI Recommended R8 Pathway: %q\n\n", rec.AIRecommendation)
	b.WriteString("**Your Task:**\nDraft a personalized SMS message and a professional follow-up email to confirm receipt of their inquiry and outline the next steps.\n\n")
	b.WriteString("**CRITICAL INSTRUCTIONS:**\n")
	b.WriteString("- DO NOT ask \"how can we help?\" or ask for a call to \"discuss their issues\". They have already provided their issues.\n")
	b.WriteString("- The message MUST be a confirmation and a statement of the next action (e.g., \"Our team will be in touch shortly to schedule your session.\").\n")
	b.WriteString("- The tone should be welcoming and affirm that their journey is beginning.\n")
	b.WriteString("- Reference the specific insights from the AI analysis to make the messages feel personal and data-driven.")
	return b.String()
}
