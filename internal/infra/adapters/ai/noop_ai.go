package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"workshop-voice-assistant/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/dev testing.
// It echoes the user's message back as a well-formed reply.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

func (a *NoopAIAdapter) Name() string { return "noop" }

func (a *NoopAIAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (string, adapter.Usage, error) {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return "", adapter.Usage{}, ctx.Err()
	}
	utterance := req.Prompt
	if i := strings.Index(utterance, "\n"); i >= 0 {
		utterance = utterance[:i]
	}
	b, err := json.Marshal(map[string]string{"reply": "You said: " + strings.TrimPrefix(utterance, "User Message: ")})
	if err != nil {
		return "", adapter.Usage{}, err
	}
	return "```json\n" + string(b) + "\n```", adapter.Usage{}, nil
}

// CountTokens approximates four characters per token.
func (a *NoopAIAdapter) CountTokens(ctx context.Context, req adapter.ChatRequest) (int, error) {
	n := len(req.SystemInstruction) + len(req.Prompt)
	for _, m := range req.History {
		n += len(m.Content)
	}
	return n / 4, nil
}
