package game

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/modes"
	"github.com/mcoot/humanorbot/internal/transport"
)

// StatsRecorder records one session outcome for a participant and
// returns their updated running record.
type StatsRecorder interface {
	Record(ctx context.Context, id model.ParticipantID, correct bool) (model.StatsRecord, error)
}

// Settings are the timing knobs a session runs under
type Settings struct {
	// VoteTime is how long the voting phase lasts
	VoteTime time.Duration

	// GraceWindow is how long a revealed session stays queryable before
	// it is evicted
	GraceWindow time.Duration

	// RoundTime overrides the mode's challenge duration when non-zero
	RoundTime time.Duration
}

// side is one participant's half of a session
type side struct {
	participant model.Participant
	adapter     transport.Adapter

	submission   any
	hasSubmitted bool
	vote         model.Vote
	hasVoted     bool
	connected    bool
}

// Session is the phase state machine for one matched pair. Transitions
// are driven by deadline timers and by participant actions; every
// transition re-checks the current phase under the session lock, so a
// timer that lost the race to an early transition is a no-op.
type Session struct {
	id     model.SessionID
	mode   modes.Mode
	logger *slog.Logger
	clk    clock.Clock
	stats  StatsRecorder
	cfg    Settings

	// onClosed is invoked (once, with the lock held) when the session
	// reaches a terminal phase
	onClosed func(*Session)

	mu          sync.Mutex
	phase       model.Phase
	a, b        *side
	modePayload any
	messages    []model.ChatMessage
	createdAt   time.Time

	roundTimer clock.Timer
	voteTimer  clock.Timer
	closeTimer clock.Timer
}

// NewSession creates a session in the challenge phase. Start must be
// called to announce it and arm the round timer.
func NewSession(
	id model.SessionID,
	mode modes.Mode,
	modePayload any,
	a, b Ticket,
	cfg Settings,
	clk clock.Clock,
	stats StatsRecorder,
	logger *slog.Logger,
	onClosed func(*Session),
) *Session {
	return &Session{
		id:          id,
		mode:        mode,
		logger:      logger.With(slog.String("session_id", string(id))),
		clk:         clk,
		stats:       stats,
		cfg:         cfg,
		onClosed:    onClosed,
		phase:       model.PhaseChallenge,
		a:           &side{participant: a.Participant, adapter: a.Adapter, connected: true},
		b:           &side{participant: b.Participant, adapter: b.Adapter, connected: true},
		modePayload: modePayload,
		createdAt:   clk.Now(),
	}
}

// ID returns the session identifier
func (s *Session) ID() model.SessionID {
	return s.id
}

// Phase returns the current phase
func (s *Session) Phase() model.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Participants returns both participants, earlier-queued first
func (s *Session) Participants() (model.Participant, model.Participant) {
	return s.a.participant, s.b.participant
}

// Counterpart returns the other participant in the session
func (s *Session) Counterpart(id model.ParticipantID) (model.Participant, bool) {
	if s.a.participant.ID == id {
		return s.b.participant, true
	}
	if s.b.participant.ID == id {
		return s.a.participant, true
	}
	return model.Participant{}, false
}

// roundTime returns the effective challenge duration
func (s *Session) roundTime() time.Duration {
	if s.cfg.RoundTime > 0 {
		return s.cfg.RoundTime
	}
	return s.mode.RoundTime()
}

// Start announces the pairing to both sides and arms the round timer
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	roundSeconds := int(s.roundTime() / time.Second)
	s.a.adapter.Deliver(model.EventSessionStarted, model.SessionStartedPayload{
		SessionID:    s.id,
		Opponent:     model.OpponentInfo{Name: s.b.participant.DisplayName},
		RoundSeconds: roundSeconds,
		Mode:         s.mode.Name(),
		ModeLabel:    s.mode.Label(),
		ModePayload:  s.modePayload,
	})
	s.b.adapter.Deliver(model.EventSessionStarted, model.SessionStartedPayload{
		SessionID:    s.id,
		Opponent:     model.OpponentInfo{Name: s.a.participant.DisplayName},
		RoundSeconds: roundSeconds,
		Mode:         s.mode.Name(),
		ModeLabel:    s.mode.Label(),
		ModePayload:  s.modePayload,
	})

	s.roundTimer = s.clk.AfterFunc(s.roundTime(), s.endChallenge)

	s.logger.Info("session started",
		slog.String("mode", s.mode.Name()),
		slog.String("participant_a", string(s.a.participant.ID)),
		slog.String("participant_b", string(s.b.participant.ID)))
}

// sideFor returns the side for a participant and its counterpart
func (s *Session) sideFor(id model.ParticipantID) (*side, *side) {
	if s.a.participant.ID == id {
		return s.a, s.b
	}
	if s.b.participant.ID == id {
		return s.b, s.a
	}
	return nil, nil
}

// Message appends a chat message and relays it to the counterpart.
// Returns the (possibly truncated) text that was recorded.
func (s *Session) Message(from model.ParticipantID, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseChallenge {
		return "", model.ErrWrongPhase
	}
	sender, other := s.sideFor(from)
	if sender == nil {
		return "", model.ErrNotInSession
	}

	if text == "" {
		return "", model.ErrEmptyMessage
	}
	if len(text) > model.MaxMessageLength {
		text = text[:model.MaxMessageLength]
	}

	now := s.clk.Now()
	s.messages = append(s.messages, model.ChatMessage{From: from, Text: text, SentAt: now})

	other.adapter.Deliver(model.EventMessage, model.MessagePayload{
		From:      "opponent",
		Text:      text,
		Timestamp: now,
	})
	return text, nil
}

// Typing relays a typing indicator to the counterpart
func (s *Session) Typing(from model.ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseChallenge {
		return model.ErrWrongPhase
	}
	sender, other := s.sideFor(from)
	if sender == nil {
		return model.ErrNotInSession
	}

	other.adapter.Deliver(model.EventTyping, nil)
	return nil
}

// Submit records a participant's mode submission. Submitting again
// overwrites the previous value.
func (s *Session) Submit(from model.ParticipantID, raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseChallenge {
		return model.ErrWrongPhase
	}
	sender, _ := s.sideFor(from)
	if sender == nil {
		return model.ErrNotInSession
	}

	submission, err := s.mode.ParseSubmission(raw)
	if err != nil {
		return err
	}

	sender.submission = submission
	sender.hasSubmitted = true
	return nil
}

// SubmitVote records a participant's judgement of their counterpart.
// The voting phase ends early once every interactive voter has voted.
func (s *Session) SubmitVote(from model.ParticipantID, vote model.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseVoting {
		return model.ErrWrongPhase
	}
	sender, _ := s.sideFor(from)
	if sender == nil {
		return model.ErrNotInSession
	}

	sender.vote = vote
	sender.hasVoted = true

	if s.voteCount() >= s.votesNeeded() {
		if s.voteTimer != nil {
			s.voteTimer.Stop()
		}
		s.revealLocked()
	}
	return nil
}

// voteCount counts sides that have voted. Caller holds the lock.
func (s *Session) voteCount() int {
	n := 0
	for _, sd := range []*side{s.a, s.b} {
		if sd.hasVoted {
			n++
		}
	}
	return n
}

// votesNeeded counts sides expected to cast a vote. Caller holds the
// lock.
func (s *Session) votesNeeded() int {
	n := 0
	for _, sd := range []*side{s.a, s.b} {
		if sd.participant.InteractiveVoter() {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	return n
}

// endChallenge is the round timer callback: challenge -> voting
func (s *Session) endChallenge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseChallenge {
		return
	}
	s.phase = model.PhaseVoting

	voteSeconds := int(s.cfg.VoteTime / time.Second)
	s.a.adapter.Deliver(model.EventVotePhase, model.VotePhasePayload{
		VoteSeconds:        voteSeconds,
		OpponentSubmission: s.b.submission,
	})
	s.b.adapter.Deliver(model.EventVotePhase, model.VotePhasePayload{
		VoteSeconds:        voteSeconds,
		OpponentSubmission: s.a.submission,
	})

	s.voteTimer = s.clk.AfterFunc(s.cfg.VoteTime, s.endVoting)

	s.logger.Debug("voting phase started")
}

// endVoting is the vote timer callback: voting -> reveal
func (s *Session) endVoting() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseVoting {
		return
	}
	s.revealLocked()
}

// revealLocked transitions to reveal, scores both sides and discloses
// the outcome. Caller holds the lock with phase == voting.
func (s *Session) revealLocked() {
	s.phase = model.PhaseReveal

	ctx := context.Background()
	for _, pair := range []struct{ me, other *side }{{s.a, s.b}, {s.b, s.a}} {
		me, other := pair.me, pair.other

		// An absent vote scores as incorrect but the game still counts
		correct := me.hasVoted && me.vote.Correct(other.participant.Simulated)

		var record model.StatsRecord
		if me.participant.InteractiveVoter() {
			updated, err := s.stats.Record(ctx, me.participant.ID, correct)
			if err != nil {
				s.logger.Error("recording stats failed",
					slog.String("participant", string(me.participant.ID)),
					slog.String("error", err.Error()))
			} else {
				record = updated
			}
		}

		payload := model.RevealPayload{
			OpponentWasBot: other.participant.Simulated,
			OpponentName:   other.participant.DisplayName,
			ProviderLabel:  other.participant.ProviderLabel,
			Correct:        correct,
			Stats:          record,
		}
		if me.hasVoted {
			payload.YourVote = me.vote
		}
		me.adapter.Deliver(model.EventReveal, payload)
	}

	s.closeTimer = s.clk.AfterFunc(s.cfg.GraceWindow, s.closeAfterGrace)

	s.logger.Info("session revealed")
}

// closeAfterGrace is the grace timer callback: reveal -> closed
func (s *Session) closeAfterGrace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseReveal {
		return
	}
	s.terminateLocked(model.PhaseClosed)
}

// HandleDisconnect reacts to a participant's connection dropping. Only
// a disconnect during the challenge tears the session down; later
// phases run out their timers for the remaining participant.
func (s *Session) HandleDisconnect(id model.ParticipantID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gone, other := s.sideFor(id)
	if gone == nil {
		return
	}
	gone.connected = false

	if s.phase != model.PhaseChallenge {
		return
	}

	other.adapter.Deliver(model.EventOpponentLeft, nil)
	s.terminateLocked(model.PhaseAborted)
}

// Leave handles an explicit departure, tearing the session down in any
// phase and notifying the counterpart.
func (s *Session) Leave(id model.ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gone, other := s.sideFor(id)
	if gone == nil {
		return model.ErrNotInSession
	}
	if s.phase.Terminal() {
		return nil
	}
	gone.connected = false

	terminal := model.PhaseAborted
	if s.phase == model.PhaseReveal {
		// The game already concluded; leaving just releases the session
		terminal = model.PhaseClosed
	}
	other.adapter.Deliver(model.EventOpponentLeft, nil)
	s.terminateLocked(terminal)
	return nil
}

// terminateLocked moves the session to a terminal phase, cancels every
// pending timer and fires the closed callback. Caller holds the lock
// with a non-terminal phase.
func (s *Session) terminateLocked(terminal model.Phase) {
	s.phase = terminal

	for _, t := range []clock.Timer{s.roundTimer, s.voteTimer, s.closeTimer} {
		if t != nil {
			t.Stop()
		}
	}

	s.logger.Info("session over", slog.String("phase", string(terminal)))

	if s.onClosed != nil {
		s.onClosed(s)
	}
}
