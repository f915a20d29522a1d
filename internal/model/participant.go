package model

import "time"

// ParticipantID uniquely identifies a participant for the lifetime of its
// connection. Identity is not durable: a participant that reconnects gets a
// fresh ID and an empty history.
type ParticipantID string

// TransportKind identifies how events reach a participant
type TransportKind string

const (
	// TransportPush is a live connection the server writes to directly
	TransportPush TransportKind = "push"
	// TransportPull is a polled mailbox drained over HTTP
	TransportPull TransportKind = "pull"
	// TransportNone is for internally scripted participants with no client
	TransportNone TransportKind = "none"
)

// MaxDisplayNameLength is the cap applied to participant names
const MaxDisplayNameLength = 20

// Participant represents one side of a session
type Participant struct {
	ID          ParticipantID
	DisplayName string
	Transport   TransportKind

	// Simulated marks automated participants for scoring: a counterpart
	// voting "bot" against a simulated participant is correct.
	Simulated bool

	// ProviderLabel names the external provider driving a simulated
	// participant, revealed to the counterpart after voting.
	ProviderLabel string

	ConnectedAt time.Time
}

// InteractiveVoter reports whether this participant casts its own votes.
// Live connections and polling agents both vote; only scripted participants
// without a transport do not.
func (p Participant) InteractiveVoter() bool {
	return p.Transport != TransportNone
}

// TruncateDisplayName normalizes a requested name, applying the default and
// the length cap
func TruncateDisplayName(name string) string {
	if name == "" {
		return "Anonymous"
	}
	runes := []rune(name)
	if len(runes) > MaxDisplayNameLength {
		return string(runes[:MaxDisplayNameLength])
	}
	return name
}
