// File: internal/usecase/speech_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/ports/adapter"
	"workshop-voice-assistant/internal/infra/logging"
	"workshop-voice-assistant/internal/infra/metrics"
)

// Compile-time check
var _ SpeechUseCase = (*speechUC)(nil)

type SpeechUseCase interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type speechUC struct {
	tts    adapter.SpeechSynthesizer
	lang   string
	logger *zerolog.Logger
}

func NewSpeechUseCase(tts adapter.SpeechSynthesizer, lang string, logger *zerolog.Logger) *speechUC {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if lang == "" {
		lang = "en"
	}
	return &speechUC{tts: tts, lang: lang, logger: logger}
}

// Synthesize returns the whole MPEG buffer for text. Blank text is ErrInvalidInput;
// any engine failure, including an empty buffer, is ErrSynthesisUnavailable.
func (s *speechUC) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}

	start := time.Now()
	audio, err := s.tts.Synthesize(ctx, text, s.lang)
	if err == nil && len(audio) == 0 {
		err = fmt.Errorf("%s returned no audio", s.tts.Name())
	}
	metrics.ObserveSynthesis(s.tts.Name(), int(time.Since(start).Milliseconds()), len(audio), err == nil)
	if err != nil {
		log := logging.With(ctx, s.logger)
		log.Error().Err(err).Str("engine", s.tts.Name()).Msg("speech synthesis failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrSynthesisUnavailable, err)
	}
	return audio, nil
}
