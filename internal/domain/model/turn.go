package model

import "strings"

// Part is one text fragment of a history entry, in the browser client's shape.
type Part struct {
	Text string `json:"text"`
}

// HistoryMessage is one prior exchange supplied by the caller. Either Content or
// Parts may carry the text.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Parts   []Part `json:"parts,omitempty"`
}

// Text returns Content, or the joined Parts when Content is empty.
func (m HistoryMessage) Text() string {
	if m.Content != "" {
		return m.Content
	}
	if len(m.Parts) == 0 {
		return ""
	}
	texts := make([]string, 0, len(m.Parts))
	for _, p := range m.Parts {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, "")
}

// Reply is the structured, speakable answer of a turn.
type Reply struct {
	Reply string `json:"reply"`
}

const (
	ReplyEmpty    = "I received an empty response. Please try again."
	ReplyFallback = "Sorry, I encountered an error. Please rephrase your request."
)
