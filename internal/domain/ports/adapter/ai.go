package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "model"/"assistant"
	Content string `json:"content"`
}

// Usage for a single chat call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatRequest is one conversational call: a fixed system instruction, the prior
// exchanges and the new prompt.
type ChatRequest struct {
	Model             string
	SystemInstruction string
	History           []Message
	Prompt            string
}

// AIServiceAdapter is the port for the conversational model.
type AIServiceAdapter interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// CountTokens returns prompt tokens for the request
	// (provider-specific counting; best-effort when exact isn't available).
	CountTokens(ctx context.Context, req ChatRequest) (int, error)

	// Chat returns the model's raw text and usage as reported by the provider.
	Chat(ctx context.Context, req ChatRequest) (string, Usage, error)
}
