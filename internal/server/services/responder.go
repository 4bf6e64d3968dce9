package services

import (
	"context"
	"encoding/json"
)

// Intents a Responder may report.
const (
	IntentResumeTailor  = "resume_tailor"
	IntentInterviewPrep = "interview_prep"
	IntentGeneral       = "general"
)

// Attachment is a generated artifact returned with a reply.
type Attachment struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Prompt is one user turn handed to the text generator.
type Prompt struct {
	AccountID      string
	ConversationID string
	Message        string
	Context        json.RawMessage
	// Profile is the account's profile document, nil when none was saved.
	Profile        json.RawMessage
}

// Reply is the generator's answer to a Prompt.
type Reply struct {
	Intent      string
	Text        string
	Attachments []Attachment
}

// Responder produces the assistant side of a turn. Text generation, document
// extraction and templating live behind it.
type Responder interface {
	Respond(ctx context.Context, p Prompt) (*Reply, error)
}

// GuideResponder is the Responder used when no generator is configured. It
// explains what the assistant can help with.
type GuideResponder struct{}

func (GuideResponder) Respond(ctx context.Context, p Prompt) (*Reply, error) {
	return &Reply{
		Intent: IntentGeneral,
		Text: "I can help you with:\n" +
			"• \"Tailor my resume for a job at [company]\"\n" +
			"• \"Help me prep for an interview at [company]\"\n" +
			"• Or ask me anything about your career!",
	}, nil
}
