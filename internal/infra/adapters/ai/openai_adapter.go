package ai

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"workshop-voice-assistant/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AIServiceAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.AIServiceAdapter using Chat Completions.
// A custom base URL points it at any OpenAI-compatible gateway.
type OpenAIAdapter struct {
	client openai.Client
	model  string
	maxOut int

	encMu sync.Mutex
	encs  map[string]*tiktoken.Tiktoken
}

func NewOpenAIAdapter(apiKey, baseURL, model string, maxOut int, opts ...option.RequestOption) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	// failed calls are not retried
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if strings.TrimSpace(baseURL) != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)
	return &OpenAIAdapter{
		client: openai.NewClient(reqOpts...),
		model:  model,
		maxOut: maxOut,
		encs:   map[string]*tiktoken.Tiktoken{},
	}, nil
}

func (o *OpenAIAdapter) Name() string { return "openai" }

func (o *OpenAIAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (string, adapter.Usage, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(modelOrDefault(req.Model, o.model)),
		Messages: toOpenAIMessages(req),
	}
	if o.maxOut > 0 {
		params.MaxCompletionTokens = openai.Int(int64(o.maxOut))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", adapter.Usage{}, err
	}
	u := adapter.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, u, nil
		}
	}
	// an empty completion is the reducer's "empty response" case, not a transport failure
	return "", u, nil
}

// CountTokens estimates prompt tokens locally with tiktoken using the
// chat-format overhead of 4 tokens per message plus 3 for reply priming.
func (o *OpenAIAdapter) CountTokens(ctx context.Context, req adapter.ChatRequest) (int, error) {
	enc, err := o.encoding(modelOrDefault(req.Model, o.model))
	if err != nil {
		return 0, err
	}
	n := 3
	count := func(s string) { n += 4 + len(enc.Encode(s, nil, nil)) }
	if req.SystemInstruction != "" {
		count(req.SystemInstruction)
	}
	for _, m := range req.History {
		count(m.Content)
	}
	count(req.Prompt)
	return n, nil
}

func (o *OpenAIAdapter) encoding(model string) (*tiktoken.Tiktoken, error) {
	o.encMu.Lock()
	defer o.encMu.Unlock()
	if enc, ok := o.encs[model]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// unknown or gateway-specific model names
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	o.encs[model] = enc
	return enc, nil
}

func toOpenAIMessages(req adapter.ChatRequest) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if strings.TrimSpace(req.SystemInstruction) != "" {
		msgs = append(msgs, openai.SystemMessage(req.SystemInstruction))
	}
	for _, m := range req.History {
		switch strings.ToLower(m.Role) {
		case "assistant", "model", "bot":
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	return append(msgs, openai.UserMessage(req.Prompt))
}
