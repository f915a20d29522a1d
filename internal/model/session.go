package model

import "time"

// SessionID uniquely identifies a session
type SessionID string

// Phase represents the current stage of a session
type Phase string

const (
	PhaseChallenge Phase = "challenge" // Participants producing their submissions
	PhaseVoting    Phase = "voting"    // Participants judging their counterpart
	PhaseReveal    Phase = "reveal"    // Outcome disclosed, session still queryable
	PhaseClosed    Phase = "closed"    // Grace window elapsed, session evicted
	PhaseAborted   Phase = "aborted"   // A participant departed during the challenge
)

// Terminal reports whether no further transitions are possible from this phase
func (p Phase) Terminal() bool {
	return p == PhaseClosed || p == PhaseAborted
}

// Vote is a participant's guess about the counterpart's nature
type Vote string

const (
	VoteHuman Vote = "human"
	VoteBot   Vote = "bot"
)

// ParseVote validates a raw vote value
func ParseVote(raw string) (Vote, error) {
	switch Vote(raw) {
	case VoteHuman, VoteBot:
		return Vote(raw), nil
	default:
		return "", ErrInvalidVote
	}
}

// Correct reports whether this vote correctly judged a counterpart with the
// given simulated flag
func (v Vote) Correct(counterpartSimulated bool) bool {
	if counterpartSimulated {
		return v == VoteBot
	}
	return v == VoteHuman
}

// MaxMessageLength is the cap applied to chat message text; longer messages
// are truncated, not rejected
const MaxMessageLength = 500

// ChatMessage is one entry in a session's append-only message log
type ChatMessage struct {
	From   ParticipantID
	Text   string
	SentAt time.Time
}
