package model

import "time"

// EventType identifies a protocol event delivered to participants. The
// names are part of the wire protocol shared by both transports.
type EventType string

const (
	EventQueued         EventType = "waiting"
	EventSessionStarted EventType = "game_start"
	EventMessage        EventType = "message"
	EventTyping         EventType = "opponent_typing"
	EventVotePhase      EventType = "vote_phase"
	EventReveal         EventType = "reveal"
	EventOpponentLeft   EventType = "opponent_left"
	EventLobbyUpdate    EventType = "lobby_update"
)

// QueuedPayload reports a participant's 1-based position in the queue
type QueuedPayload struct {
	Position int `json:"position"`
}

// OpponentInfo describes the counterpart as shown to a participant
type OpponentInfo struct {
	Name string `json:"name"`
}

// SessionStartedPayload announces a pairing to both participants
type SessionStartedPayload struct {
	SessionID    SessionID    `json:"sessionId"`
	Opponent     OpponentInfo `json:"opponent"`
	RoundSeconds int          `json:"roundTime"`
	Mode         string       `json:"mode"`
	ModeLabel    string       `json:"modeLabel"`
	ModePayload  any          `json:"modeData,omitempty"`
}

// MessagePayload relays one chat message. From is always the tag "opponent"
// on the receiving side; senders do not get their own messages echoed.
type MessagePayload struct {
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// VotePhasePayload announces the voting phase. OpponentSubmission is nil when
// the counterpart recorded nothing during the challenge.
type VotePhasePayload struct {
	VoteSeconds        int `json:"voteTime"`
	OpponentSubmission any `json:"opponentSubmission"`
}

// RevealPayload discloses the counterpart's nature and the voter's outcome.
// YourVote is empty when the participant never voted; Correct is false in
// that case but the game still counts.
type RevealPayload struct {
	OpponentWasBot bool        `json:"opponentWasBot"`
	OpponentName   string      `json:"opponentName"`
	ProviderLabel  string      `json:"opponentProvider,omitempty"`
	YourVote       Vote        `json:"yourVote,omitempty"`
	Correct        bool        `json:"correct"`
	Stats          StatsRecord `json:"stats"`
}

// LobbyUpdatePayload is a broadcast snapshot of server-wide activity
type LobbyUpdatePayload struct {
	Waiting        []string `json:"waiting"`
	Count          int      `json:"count"`
	Online         int      `json:"online"`
	SessionsActive int      `json:"gamesActive"`
}
