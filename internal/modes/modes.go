package modes

import (
	"encoding/json"
	"time"

	"github.com/mcoot/humanorbot/internal/dependencies/random"
	"github.com/mcoot/humanorbot/internal/model"
)

// chatMode is the conversational mode. The activity is the message log
// itself; it takes no submissions.
type chatMode struct{}

func (chatMode) Name() string                 { return "chat" }
func (chatMode) Label() string                { return "Chat" }
func (chatMode) RoundTime() time.Duration     { return 120 * time.Second }
func (chatMode) NewPayload(random.Random) any { return nil }

func (chatMode) ParseSubmission(json.RawMessage) (any, error) {
	return nil, model.ErrInvalidSubmission
}

// drawMode asks both sides to draw a prompted subject
type drawMode struct{}

// DrawPayload is the shared drawing prompt
type DrawPayload struct {
	Prompt string `json:"prompt"`
}

func (drawMode) Name() string             { return "draw" }
func (drawMode) Label() string            { return "Draw Something" }
func (drawMode) RoundTime() time.Duration { return 30 * time.Second }

func (drawMode) NewPayload(rnd random.Random) any {
	return DrawPayload{Prompt: pick(rnd, drawPrompts)}
}

func (drawMode) ParseSubmission(raw json.RawMessage) (any, error) {
	var sub ImageSubmission
	if err := json.Unmarshal(raw, &sub); err != nil || sub.Image == "" {
		return nil, model.ErrInvalidSubmission
	}
	sub.Image = truncate(sub.Image, MaxImageChars)
	return sub, nil
}

// jokeMode asks both sides to write an original joke
type jokeMode struct{}

// PromptPayload is a free-text writing prompt
type PromptPayload struct {
	Prompt string `json:"prompt"`
}

func (jokeMode) Name() string             { return "joke" }
func (jokeMode) Label() string            { return "Tell a Joke" }
func (jokeMode) RoundTime() time.Duration { return 90 * time.Second }

func (jokeMode) NewPayload(rnd random.Random) any {
	return PromptPayload{Prompt: pick(rnd, jokePrompts)}
}

func (jokeMode) ParseSubmission(raw json.RawMessage) (any, error) {
	return parseText(raw)
}

// typeMode is a typing race against a shared pacing text
type typeMode struct{}

// TypePayload is the text both sides race to reproduce
type TypePayload struct {
	Text string `json:"text"`
}

func (typeMode) Name() string             { return "type" }
func (typeMode) Label() string            { return "Type Race" }
func (typeMode) RoundTime() time.Duration { return 30 * time.Second }

func (typeMode) NewPayload(rnd random.Random) any {
	return TypePayload{Text: pick(rnd, typeRaceTexts)}
}

func (typeMode) ParseSubmission(raw json.RawMessage) (any, error) {
	return parseText(raw)
}

// wyrMode is the forced-choice "would you rather" mode
type wyrMode struct{}

// WyrQuestion is one either/or pair
type WyrQuestion struct {
	A string `json:"a"`
	B string `json:"b"`
}

// WyrPayload is the question set for a session
type WyrPayload struct {
	Questions []WyrQuestion `json:"questions"`
}

func (wyrMode) Name() string             { return "wyr" }
func (wyrMode) Label() string            { return "Would You Rather" }
func (wyrMode) RoundTime() time.Duration { return 90 * time.Second }

func (wyrMode) NewPayload(rnd random.Random) any {
	return WyrPayload{Questions: pickN(rnd, wyrQuestions, MaxChoices)}
}

func (wyrMode) ParseSubmission(raw json.RawMessage) (any, error) {
	var sub ChoicesSubmission
	if err := json.Unmarshal(raw, &sub); err != nil || len(sub.Answers) == 0 {
		return nil, model.ErrInvalidSubmission
	}
	if len(sub.Answers) > MaxChoices {
		sub.Answers = sub.Answers[:MaxChoices]
	}
	return sub, nil
}

// describeMode asks both sides to describe a shared image
type describeMode struct{}

// DescribeImage is a stable, seeded image reference
type DescribeImage struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// DescribePayload is the image to describe
type DescribePayload struct {
	Image DescribeImage `json:"image"`
}

func (describeMode) Name() string             { return "describe" }
func (describeMode) Label() string            { return "Describe This" }
func (describeMode) RoundTime() time.Duration { return 60 * time.Second }

func (describeMode) NewPayload(rnd random.Random) any {
	return DescribePayload{Image: pick(rnd, describeImages)}
}

func (describeMode) ParseSubmission(raw json.RawMessage) (any, error) {
	return parseText(raw)
}

// Registry holds the available modes in a stable order
type Registry struct {
	order  []Mode
	byName map[string]Mode
}

// NewRegistry creates a registry with all built-in modes
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Mode)}
	for _, m := range []Mode{chatMode{}, drawMode{}, jokeMode{}, typeMode{}, wyrMode{}, describeMode{}} {
		r.order = append(r.order, m)
		r.byName[m.Name()] = m
	}
	return r
}

// Get returns the mode with the given name
func (r *Registry) Get(name string) (Mode, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, model.ErrUnknownMode
	}
	return m, nil
}

// Pick returns a random mode
func (r *Registry) Pick(rnd random.Random) Mode {
	return r.order[rnd.Intn(len(r.order))]
}

// Names returns the mode names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, m := range r.order {
		names[i] = m.Name()
	}
	return names
}

func pick[T any](rnd random.Random, items []T) T {
	return items[rnd.Intn(len(items))]
}

func pickN[T any](rnd random.Random, items []T, n int) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
