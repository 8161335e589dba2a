// File: internal/usecase/turn_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/domain/ports/adapter"
	"workshop-voice-assistant/internal/domain/ports/repository"
	"workshop-voice-assistant/internal/infra/logging"
	"workshop-voice-assistant/internal/infra/metrics"
)

// Compile-time check
var _ TurnUseCase = (*turnUC)(nil)

// TurnUseCase runs one conversational turn. HandleTurn always returns a speakable
// reply; a non-nil error only tells the caller the reply is the fallback.
type TurnUseCase interface {
	HandleTurn(ctx context.Context, userText string, history []model.HistoryMessage) (model.Reply, error)
}

// TurnOptions carries the per-process settings of the orchestrator.
type TurnOptions struct {
	Model             string
	SystemInstruction string
	MaxPromptTokens   int // 0 disables history trimming
	Dev               bool
}

type turnUC struct {
	jobs   repository.JobRepository
	ai     adapter.AIServiceAdapter
	opts   TurnOptions
	logger *zerolog.Logger
}

func NewTurnUseCase(jobs repository.JobRepository, ai adapter.AIServiceAdapter, opts TurnOptions, logger *zerolog.Logger) *turnUC {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &turnUC{jobs: jobs, ai: ai, opts: opts, logger: logger}
}

func (t *turnUC) HandleTurn(ctx context.Context, userText string, history []model.HistoryMessage) (reply model.Reply, err error) {
	ctx = logging.WithTurnID(ctx, ulid.Make().String())
	log := logging.With(ctx, t.logger)
	defer logging.TraceDuration(log, "TurnUC.HandleTurn")()

	defer func() {
		if rec := recover(); rec != nil {
			metrics.IncTurn("panic")
			log.Error().Interface("panic", rec).Msg("turn panicked; sending fallback reply")
			reply, err = model.Reply{Reply: model.ReplyFallback}, fmt.Errorf("turn panicked: %v", rec)
		}
	}()

	reply, err = t.run(ctx, log, userText, history)
	if err != nil {
		metrics.IncTurn(outcomeOf(err))
		log.Error().Err(err).
			Str("user_text", logging.Redact(userText, t.opts.Dev)).
			Msg("turn failed; sending fallback reply")
		return model.Reply{Reply: model.ReplyFallback}, err
	}
	metrics.IncTurn("ok")
	return reply, nil
}

func (t *turnUC) run(ctx context.Context, log *zerolog.Logger, userText string, history []model.HistoryMessage) (model.Reply, error) {
	jobs, err := t.jobs.ListPending(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		return model.Reply{}, err
	}

	prompt, err := BuildPrompt(userText, jobs)
	if err != nil {
		return model.Reply{}, err
	}

	req := adapter.ChatRequest{
		Model:             t.opts.Model,
		SystemInstruction: t.opts.SystemInstruction,
		History:           toAdapterHistory(history),
		Prompt:            prompt,
	}
	req = t.fitPromptBudget(ctx, log, req)

	start := time.Now()
	raw, usage, err := t.ai.Chat(ctx, req)
	metrics.ObserveChatUsage(t.ai.Name(), req.Model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens,
		int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return model.Reply{}, fmt.Errorf("%w: %v", domain.ErrExternalModelUnavailable, err)
	}

	log.Debug().
		Int("pending_jobs", len(jobs)).
		Int("history", len(req.History)).
		Int("tokens_total", usage.TotalTokens).
		Msg("model replied")

	return NormalizeModelOutput(raw)
}

// fitPromptBudget drops the oldest exchanges until the request fits
// MaxPromptTokens. Counting failures leave the request untouched.
func (t *turnUC) fitPromptBudget(ctx context.Context, log *zerolog.Logger, req adapter.ChatRequest) adapter.ChatRequest {
	if t.opts.MaxPromptTokens <= 0 {
		return req
	}
	for {
		n, err := t.ai.CountTokens(ctx, req)
		if err != nil {
			log.Warn().Err(err).Msg("token count failed; sending full history")
			return req
		}
		if n <= t.opts.MaxPromptTokens || len(req.History) == 0 {
			return req
		}
		// keep user/model alternation by dropping a whole exchange when possible
		drop := 2
		if len(req.History) < drop {
			drop = len(req.History)
		}
		req.History = req.History[drop:]
		log.Debug().Int("tokens", n).Int("history", len(req.History)).Msg("trimmed history to fit prompt budget")
	}
}

func toAdapterHistory(history []model.HistoryMessage) []adapter.Message {
	out := make([]adapter.Message, 0, len(history))
	for _, h := range history {
		out = append(out, adapter.Message{Role: strings.ToLower(strings.TrimSpace(h.Role)), Content: h.Text()})
	}
	return out
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage_unavailable"
	case errors.Is(err, domain.ErrExternalModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, domain.ErrMalformedModelOutput):
		return "malformed_output"
	default:
		return "error"
	}
}
