// File: internal/usecase/reducer.go
package usecase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
)

const (
	stateHeader = "--- DATABASE STATE ---"
	stateFooter = "--- END STATE ---"
)

// replySchema is the only shape a successful turn may produce. Extra keys are
// tolerated; a missing or non-string "reply" is not.
var replySchema = jsonschema.MustCompileString("reply.json", `{
  "type": "object",
  "required": ["reply"],
  "properties": {
    "reply": {"type": "string"}
  }
}`)

var (
	reOpenFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*")
	reCloseFence = regexp.MustCompile("```$")
)

// BuildPrompt joins the literal utterance with the JSON job snapshot inside the
// DATABASE STATE markers. Jobs keep the order the store returned them in.
func BuildPrompt(userText string, jobs []*model.Job) (string, error) {
	if jobs == nil {
		jobs = []*model.Job{}
	}
	snapshot, err := json.Marshal(jobs)
	if err != nil {
		return "", fmt.Errorf("encode job snapshot: %w", err)
	}

	var b strings.Builder
	b.WriteString("User Message: '")
	b.WriteString(userText)
	b.WriteString("'\n\n")
	b.WriteString(stateHeader)
	b.WriteString("\n")
	b.Write(snapshot)
	b.WriteString("\n")
	b.WriteString(stateFooter)
	return b.String(), nil
}

// StripCodeFence removes leading ``` (optionally language tagged) and trailing
// ``` markers from s, however deeply nested, trimming whitespace around and inside.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	for {
		before := s
		if loc := reOpenFence.FindStringIndex(s); loc != nil {
			s = strings.TrimSpace(s[loc[1]:])
		}
		if loc := reCloseFence.FindStringIndex(s); loc != nil {
			s = strings.TrimSpace(s[:loc[0]])
		}
		if s == before {
			return s
		}
	}
}

// NormalizeModelOutput reduces raw model text to a Reply. Empty output yields the
// "empty response" reply; anything that is not an object with a string "reply"
// is ErrMalformedModelOutput.
func NormalizeModelOutput(raw string) (model.Reply, error) {
	text := StripCodeFence(raw)
	if text == "" {
		return model.Reply{Reply: model.ReplyEmpty}, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return model.Reply{}, fmt.Errorf("%w: %v", domain.ErrMalformedModelOutput, err)
	}
	if err := replySchema.Validate(doc); err != nil {
		return model.Reply{}, fmt.Errorf("%w: %v", domain.ErrMalformedModelOutput, err)
	}

	var out model.Reply
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return model.Reply{}, fmt.Errorf("%w: %v", domain.ErrMalformedModelOutput, err)
	}
	return out, nil
}
