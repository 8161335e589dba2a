package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"workshop-voice-assistant/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.SpeechSynthesizer = (*GoogleTranslateTTS)(nil)

// maxChunkRunes is the longest text the translate_tts endpoint accepts per request.
const maxChunkRunes = 100

// GoogleTranslateTTS speaks text through Google Translate's public TTS endpoint.
// Long text is split into chunks and the MP3 segments are concatenated.
type GoogleTranslateTTS struct {
	base   string // e.g., https://translate.google.com
	client *http.Client
}

// NewGoogleTranslateTTS builds the synthesizer for translate.google.<tld>.
func NewGoogleTranslateTTS(tld string, timeout time.Duration) *GoogleTranslateTTS {
	if tld == "" {
		tld = "com"
	}
	return NewGoogleTranslateTTSWithBase("https://translate.google."+tld, timeout)
}

func NewGoogleTranslateTTSWithBase(base string, timeout time.Duration) *GoogleTranslateTTS {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleTranslateTTS{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (g *GoogleTranslateTTS) Name() string { return "gtts" }

func (g *GoogleTranslateTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	chunks := SplitText(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, errors.New("gtts: no text to speak")
	}
	if lang == "" {
		lang = "en"
	}

	var buf bytes.Buffer
	for i, c := range chunks {
		if err := g.fetch(ctx, &buf, c, lang, i, len(chunks)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (g *GoogleTranslateTTS) fetch(ctx context.Context, w io.Writer, chunk, lang string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", chunk)
	q.Set("idx", strconv.Itoa(idx))
	q.Set("total", strconv.Itoa(total))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", g.base+"/")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gtts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gtts http %d (lang=%s, chunk %d/%d)", resp.StatusCode, lang, idx+1, total)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("gtts: read audio: %w", err)
	}
	return nil
}

// SplitText breaks text into pieces of at most max runes, preferring sentence
// punctuation, then spaces; a single overlong word is cut hard.
func SplitText(text string, max int) []string {
	text = strings.Join(strings.Fields(text), " ")
	var out []string
	for text != "" {
		if utf8.RuneCountInString(text) <= max {
			out = append(out, text)
			break
		}
		runes := []rune(text)
		cut := lastIndexAny(runes[:max+1], ".!?;:,।") // danda for Hindi text
		if cut > 0 {
			cut++ // keep the punctuation with its sentence
		} else if sp := lastIndexAny(runes[:max+1], " "); sp > 0 {
			cut = sp
		} else {
			cut = max
		}
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			out = append(out, chunk)
		}
		text = strings.TrimSpace(string(runes[cut:]))
	}
	return out
}

func lastIndexAny(runes []rune, chars string) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if strings.ContainsRune(chars, runes[i]) {
			return i
		}
	}
	return -1
}
