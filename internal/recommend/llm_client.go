package recommend

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// SchemaField is one required string property of a structured response.
type SchemaField struct {
	Name        string
	Description string
}

// ResponseSchema asks the provider for a flat JSON object of string fields.
type ResponseSchema struct {
	Fields []SchemaField
}

type LLMRequest struct {
	Model          string
	System         []string
	Messages       []ChatMessage
	MaxTokens      int32
	Temperature    float32
	TopP           float32
	ResponseSchema *ResponseSchema
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
