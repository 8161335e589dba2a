package adapter

import "context"

// SpeechSynthesizer turns text into a complete MPEG audio buffer.
type SpeechSynthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}
