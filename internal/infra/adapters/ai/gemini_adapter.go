package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"workshop-voice-assistant/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
	maxOut       int
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
// An empty baseURL keeps the SDK default endpoint; timeout bounds each HTTP call.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string, maxOut int, timeout time.Duration) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	hc := &http.Client{Timeout: timeout}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) CountTokens(ctx context.Context, req adapter.ChatRequest) (int, error) {
	contents := append(toGenAIHistory(req.History), genai.NewContentFromText(req.Prompt, genai.RoleUser))
	// Per docs, CountTokens takes []*genai.Content. (NOT []genai.Part)
	resp, err := g.client.Models.CountTokens(ctx, modelOrDefault(req.Model, g.defaultModel), contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

// Chat opens a fresh chat seeded with the caller's history and sends the prompt.
// Nothing is kept between calls.
func (g *GeminiAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (string, adapter.Usage, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(g.maxOut),
		ResponseMIMEType: "application/json",
	}
	if strings.TrimSpace(req.SystemInstruction) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	chat, err := g.client.Chats.Create(ctx, modelOrDefault(req.Model, g.defaultModel), cfg, toGenAIHistory(req.History))
	if err != nil {
		return "", adapter.Usage{}, err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Prompt})
	if err != nil {
		return "", adapter.Usage{}, err
	}

	var text strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if p != nil && !p.Thought {
				text.WriteString(p.Text)
			}
		}
	}
	u := adapter.Usage{}
	if resp != nil && resp.UsageMetadata != nil {
		u.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		u.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		u.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return text.String(), u, nil
}

func toGenAIHistory(msgs []adapter.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "assistant", "model", "bot":
			role = genai.RoleModel
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return def
}
