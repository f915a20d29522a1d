package transport

import (
	"sync"
	"time"

	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/model"
)

// maxPolledEvents caps how many recent events a single poll returns.
const maxPolledEvents = 20

// Snapshot is the view of session state returned by a poll.
type Snapshot struct {
	Phase       string                       `json:"phase"`
	Started     bool                         `json:"gameStarted"`
	Opponent    string                       `json:"opponent,omitempty"`
	Session     *model.SessionStartedPayload `json:"session,omitempty"`
	NewMessages []model.MessagePayload       `json:"newMessages"`
	AllMessages []model.MessagePayload       `json:"allMessages"`
	Events      []Event                      `json:"events"`
	VotePhase   *model.VotePhasePayload      `json:"votePhase,omitempty"`
	Reveal      *model.RevealPayload         `json:"reveal,omitempty"`
	Lobby       *model.LobbyUpdatePayload    `json:"lobby,omitempty"`
}

// Mailbox is a pull-mode adapter. Delivered events accumulate into a
// state snapshot that the participant retrieves by polling; messages
// received since the last poll are drained on each read.
type Mailbox struct {
	clk clock.Clock

	mu          sync.Mutex
	phase       string
	started     bool
	opponent    string
	session     *model.SessionStartedPayload
	pending     []model.MessagePayload
	allMessages []model.MessagePayload
	events      []Event
	votePhase   *model.VotePhasePayload
	reveal      *model.RevealPayload
	lobby       *model.LobbyUpdatePayload
	closed      bool
}

// NewMailbox creates an empty mailbox in the waiting phase.
func NewMailbox(clk clock.Clock) *Mailbox {
	return &Mailbox{
		clk:   clk,
		phase: "waiting",
	}
}

var _ Adapter = (*Mailbox)(nil)

func (m *Mailbox) Deliver(event model.EventType, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	now := m.clk.Now()

	switch event {
	case model.EventSessionStarted:
		if data, ok := payload.(model.SessionStartedPayload); ok {
			m.started = true
			m.phase = string(model.PhaseChallenge)
			m.opponent = data.Opponent.Name
			m.session = &data
		}
		m.appendEvent(event, payload, now)
	case model.EventMessage:
		if data, ok := payload.(model.MessagePayload); ok {
			m.pending = append(m.pending, data)
			m.allMessages = append(m.allMessages, data)
		}
		m.appendEvent(event, payload, now)
	case model.EventVotePhase:
		if data, ok := payload.(model.VotePhasePayload); ok {
			m.phase = string(model.PhaseVoting)
			m.votePhase = &data
		}
		m.appendEvent(event, payload, now)
	case model.EventReveal:
		if data, ok := payload.(model.RevealPayload); ok {
			m.phase = string(model.PhaseReveal)
			m.reveal = &data
		}
		m.appendEvent(event, payload, now)
	case model.EventLobbyUpdate:
		// State-only; polls see the latest lobby without an event entry
		if data, ok := payload.(model.LobbyUpdatePayload); ok {
			m.lobby = &data
		}
	default:
		// waiting, opponent_typing, opponent_left
		m.appendEvent(event, payload, now)
	}
}

func (m *Mailbox) appendEvent(event model.EventType, payload any, at time.Time) {
	m.events = append(m.events, Event{Type: event, Data: payload, Timestamp: at})
	if len(m.events) > maxPolledEvents {
		m.events = m.events[len(m.events)-maxPolledEvents:]
	}
}

// RecordSelfMessage appends a message the participant sent themselves,
// so allMessages reflects the full conversation from their side.
func (m *Mailbox) RecordSelfMessage(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.allMessages = append(m.allMessages, model.MessagePayload{
		From:      "self",
		Text:      text,
		Timestamp: m.clk.Now(),
	})
}

// Poll returns the current snapshot and drains messages delivered
// since the previous poll.
func (m *Mailbox) Poll() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	newMessages := m.pending
	m.pending = nil
	if newMessages == nil {
		newMessages = []model.MessagePayload{}
	}

	allMessages := make([]model.MessagePayload, len(m.allMessages))
	copy(allMessages, m.allMessages)

	events := make([]Event, len(m.events))
	copy(events, m.events)

	return Snapshot{
		Phase:       m.phase,
		Started:     m.started,
		Opponent:    m.opponent,
		Session:     m.session,
		NewMessages: newMessages,
		AllMessages: allMessages,
		Events:      events,
		VotePhase:   m.votePhase,
		Reveal:      m.reveal,
		Lobby:       m.lobby,
	}
}

func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
