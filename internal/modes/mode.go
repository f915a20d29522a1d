package modes

import (
	"encoding/json"
	"time"

	"github.com/mcoot/humanorbot/internal/dependencies/random"
	"github.com/mcoot/humanorbot/internal/model"
)

// Submission size caps. Oversized payloads are truncated, not rejected.
const (
	MaxImageChars = 500000
	MaxTextChars  = 1000
	MaxChoices    = 5
)

// Mode is one challenge activity. The session core depends only on this
// contract and never branches on mode names.
type Mode interface {
	// Name is the wire identifier for the mode
	Name() string

	// Label is the human-readable mode title
	Label() string

	// RoundTime is how long the challenge phase lasts
	RoundTime() time.Duration

	// NewPayload produces the initial payload shared by both participants
	// (prompt, pacing text, question set, image). Nil for modes without one.
	NewPayload(rnd random.Random) any

	// ParseSubmission validates and normalizes a raw submission, applying
	// the mode's truncation caps. Returns ErrInvalidSubmission when the
	// payload does not match the mode's shape.
	ParseSubmission(raw json.RawMessage) (any, error)
}

// TextSubmission is the free-text artifact used by the joke, type and
// describe modes
type TextSubmission struct {
	Text string `json:"text"`
}

// ImageSubmission is the drawing artifact, a data URL
type ImageSubmission struct {
	Image string `json:"image"`
}

// ChoicesSubmission is the structured answer list for forced-choice modes
type ChoicesSubmission struct {
	Answers []string `json:"answers"`
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func parseText(raw json.RawMessage) (any, error) {
	var sub TextSubmission
	if err := json.Unmarshal(raw, &sub); err != nil || sub.Text == "" {
		return nil, model.ErrInvalidSubmission
	}
	sub.Text = truncate(sub.Text, MaxTextChars)
	return sub, nil
}
