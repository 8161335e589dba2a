package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"workshop-voice-assistant/internal/domain/ports/adapter"
)

var _ adapter.SpeechSynthesizer = (*OpenAISynthesizer)(nil)

// OpenAISynthesizer uses the audio/speech endpoint and always asks for MP3.
// The language is inferred by the model from the text itself.
type OpenAISynthesizer struct {
	client openai.Client
	model  string
	voice  string
}

func NewOpenAISynthesizer(apiKey, baseURL, model, voice string, opts ...option.RequestOption) (*OpenAISynthesizer, error) {
	if apiKey == "" {
		return nil, errors.New("openai tts: empty api key")
	}
	if model == "" {
		model = "tts-1"
	}
	if voice == "" {
		voice = "alloy"
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if strings.TrimSpace(baseURL) != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)
	return &OpenAISynthesizer{client: openai.NewClient(reqOpts...), model: model, voice: voice}, nil
}

func (o *OpenAISynthesizer) Name() string { return "openai-tts" }

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(o.model),
		Voice:          openai.AudioSpeechNewParamsVoice(o.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai tts: read audio: %w", err)
	}
	return audio, nil
}
