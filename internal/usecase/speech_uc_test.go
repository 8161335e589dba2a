//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/usecase"
)

func TestSpeech_Synthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		tts := &MockTTS{}
		uc := usecase.NewSpeechUseCase(tts, "en", nil)
		audio, err := uc.Synthesize(ctx, "Job complete")
		if err != nil {
			t.Fatalf("Synthesize: %v", err)
		}
		if len(audio) == 0 {
			t.Fatalf("empty audio")
		}
		if tts.LastText != "Job complete" || tts.LastLang != "en" {
			t.Fatalf("engine got text=%q lang=%q", tts.LastText, tts.LastLang)
		}
	})

	t.Run("blank text", func(t *testing.T) {
		tts := &MockTTS{}
		uc := usecase.NewSpeechUseCase(tts, "", nil)
		for _, text := range []string{"", "   "} {
			if _, err := uc.Synthesize(ctx, text); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("%q: want ErrInvalidInput, got %v", text, err)
			}
		}
		if tts.LastText != "" {
			t.Fatalf("engine must not be called for blank text")
		}
	})

	t.Run("engine failure", func(t *testing.T) {
		tts := &MockTTS{SynthesizeFunc: func(ctx context.Context, text, lang string) ([]byte, error) {
			return nil, errors.New("429 too many requests")
		}}
		uc := usecase.NewSpeechUseCase(tts, "en", nil)
		if _, err := uc.Synthesize(ctx, "hello"); !errors.Is(err, domain.ErrSynthesisUnavailable) {
			t.Fatalf("want ErrSynthesisUnavailable, got %v", err)
		}
	})

	t.Run("engine returns nothing", func(t *testing.T) {
		tts := &MockTTS{SynthesizeFunc: func(ctx context.Context, text, lang string) ([]byte, error) {
			return nil, nil
		}}
		uc := usecase.NewSpeechUseCase(tts, "en", nil)
		if _, err := uc.Synthesize(ctx, "hello"); !errors.Is(err, domain.ErrSynthesisUnavailable) {
			t.Fatalf("want ErrSynthesisUnavailable, got %v", err)
		}
	})
}
