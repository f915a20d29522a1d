package game

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/humanorbot/internal/dependencies/mocks"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/modes"
	"github.com/mcoot/humanorbot/internal/testutil"
)

type SessionSuite struct {
	suite.Suite
	clk   *mocks.MockClock
	stats *fakeStats
	modes *modes.Registry

	adapterA *captureAdapter
	adapterB *captureAdapter
	closed   []model.Phase
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.clk = mocks.NewMockClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	s.stats = newFakeStats()
	s.modes = modes.NewRegistry()
	s.closed = nil
}

// newSession builds and starts a human-vs-human session in the given mode
func (s *SessionSuite) newSession(modeName string) *Session {
	ticketA, adapterA := newTicket("alice", "Ada")
	ticketB, adapterB := newTicket("bob", "Grace")
	s.adapterA = adapterA
	s.adapterB = adapterB
	return s.startSession(modeName, ticketA, ticketB)
}

// newBotSession builds and starts a session where side B is simulated
func (s *SessionSuite) newBotSession(modeName string) *Session {
	ticketA, adapterA := newTicket("alice", "Ada")
	ticketB, adapterB := newSimulatedTicket("bot1", "Sam", "acme")
	ticketB.Participant.Transport = model.TransportNone
	s.adapterA = adapterA
	s.adapterB = adapterB
	return s.startSession(modeName, ticketA, ticketB)
}

func (s *SessionSuite) startSession(modeName string, a, b Ticket) *Session {
	mode, err := s.modes.Get(modeName)
	s.Require().NoError(err)

	session := NewSession(
		"sess-1",
		mode,
		nil,
		a, b,
		Settings{VoteTime: 15 * time.Second, GraceWindow: 30 * time.Second},
		s.clk,
		s.stats,
		testutil.NopLogger(),
		func(closed *Session) { s.closed = append(s.closed, closed.phase) },
	)
	session.Start()
	return session
}

func (s *SessionSuite) TestStartAnnouncesBothSides() {
	session := s.newSession("chat")

	s.Equal(model.PhaseChallenge, session.Phase())

	startsA := s.adapterA.byType(model.EventSessionStarted)
	s.Require().Len(startsA, 1)
	payload := startsA[0].Data.(model.SessionStartedPayload)
	s.Equal("Grace", payload.Opponent.Name)
	s.Equal(120, payload.RoundSeconds)
	s.Equal("chat", payload.Mode)

	startsB := s.adapterB.byType(model.EventSessionStarted)
	s.Require().Len(startsB, 1)
	s.Equal("Ada", startsB[0].Data.(model.SessionStartedPayload).Opponent.Name)
}

func (s *SessionSuite) TestMessageRelayedToCounterpartOnly() {
	session := s.newSession("chat")

	text, err := session.Message("alice", "hello there")
	s.Require().NoError(err)
	s.Equal("hello there", text)

	relayed := s.adapterB.byType(model.EventMessage)
	s.Require().Len(relayed, 1)
	msg := relayed[0].Data.(model.MessagePayload)
	s.Equal("opponent", msg.From)
	s.Equal("hello there", msg.Text)

	// The sender does not get their own message echoed
	s.Zero(s.adapterA.count(model.EventMessage))
}

func (s *SessionSuite) TestMessageTruncatedNotRejected() {
	session := s.newSession("chat")

	long := strings.Repeat("x", model.MaxMessageLength+100)
	text, err := session.Message("alice", long)
	s.Require().NoError(err)
	s.Len(text, model.MaxMessageLength)
}

func (s *SessionSuite) TestEmptyMessageRejected() {
	session := s.newSession("chat")

	_, err := session.Message("alice", "")
	s.ErrorIs(err, model.ErrEmptyMessage)
}

func (s *SessionSuite) TestMessageOutsideChallengeRejected() {
	session := s.newSession("chat")
	s.clk.Advance(120 * time.Second)

	_, err := session.Message("alice", "too late")
	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *SessionSuite) TestMessageFromStrangerRejected() {
	session := s.newSession("chat")

	_, err := session.Message("mallory", "hi")
	s.ErrorIs(err, model.ErrNotInSession)
}

func (s *SessionSuite) TestTypingRelayed() {
	session := s.newSession("chat")

	s.Require().NoError(session.Typing("bob"))
	s.Equal(1, s.adapterA.count(model.EventTyping))
	s.Zero(s.adapterB.count(model.EventTyping))
}

func (s *SessionSuite) TestChallengeEndsOnDeadlineOnly() {
	session := s.newSession("joke")

	sub := json.RawMessage(`{"text":"a joke"}`)
	s.Require().NoError(session.Submit("alice", sub))
	s.Require().NoError(session.Submit("bob", sub))

	// Both submitted, but the phase holds until the deadline
	s.Equal(model.PhaseChallenge, session.Phase())

	s.clk.Advance(90 * time.Second)
	s.Equal(model.PhaseVoting, session.Phase())
}

func (s *SessionSuite) TestVotePhaseCarriesCounterpartSubmission() {
	session := s.newSession("joke")

	s.Require().NoError(session.Submit("alice", json.RawMessage(`{"text":"first draft"}`)))
	s.Require().NoError(session.Submit("alice", json.RawMessage(`{"text":"final draft"}`)))

	s.clk.Advance(90 * time.Second)

	votesB := s.adapterB.byType(model.EventVotePhase)
	s.Require().Len(votesB, 1)
	payload := votesB[0].Data.(model.VotePhasePayload)
	s.Equal(15, payload.VoteSeconds)
	// Last write wins
	s.Equal(modes.TextSubmission{Text: "final draft"}, payload.OpponentSubmission)

	// Side B never submitted, so A sees no submission
	votesA := s.adapterA.byType(model.EventVotePhase)
	s.Require().Len(votesA, 1)
	s.Nil(votesA[0].Data.(model.VotePhasePayload).OpponentSubmission)
}

func (s *SessionSuite) TestSubmitAfterChallengeRejected() {
	session := s.newSession("joke")
	s.clk.Advance(90 * time.Second)

	err := session.Submit("alice", json.RawMessage(`{"text":"late"}`))
	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *SessionSuite) TestVotingEndsEarlyWhenAllVoted() {
	session := s.newSession("chat")
	s.clk.Advance(120 * time.Second)

	s.Require().NoError(session.SubmitVote("alice", model.VoteHuman))
	s.Equal(model.PhaseVoting, session.Phase())

	s.Require().NoError(session.SubmitVote("bob", model.VoteHuman))
	s.Equal(model.PhaseReveal, session.Phase())

	// The vote deadline later elapsing must not re-run the reveal
	s.clk.Advance(15 * time.Second)
	s.Equal(1, s.adapterA.count(model.EventReveal))
}

func (s *SessionSuite) TestVotingEndsOnDeadlineWithoutVotes() {
	session := s.newSession("chat")
	s.clk.Advance(120 * time.Second)
	s.clk.Advance(15 * time.Second)

	s.Equal(model.PhaseReveal, session.Phase())

	reveals := s.adapterA.byType(model.EventReveal)
	s.Require().Len(reveals, 1)
	payload := reveals[0].Data.(model.RevealPayload)
	s.Empty(payload.YourVote)
	s.False(payload.Correct)
	// The unscored vote still counts as a played (and lost) game
	s.Equal(model.StatsRecord{Losses: 1, TotalGames: 1}, s.stats.get("alice"))
}

func (s *SessionSuite) TestRevealScoresBothHumans() {
	session := s.newSession("chat")
	s.clk.Advance(120 * time.Second)

	s.Require().NoError(session.SubmitVote("alice", model.VoteHuman))
	s.Require().NoError(session.SubmitVote("bob", model.VoteBot))

	revealsA := s.adapterA.byType(model.EventReveal)
	s.Require().Len(revealsA, 1)
	payloadA := revealsA[0].Data.(model.RevealPayload)
	s.False(payloadA.OpponentWasBot)
	s.Equal("Grace", payloadA.OpponentName)
	s.Equal(model.VoteHuman, payloadA.YourVote)
	s.True(payloadA.Correct)
	s.Equal(model.StatsRecord{Wins: 1, Streak: 1, TotalGames: 1}, payloadA.Stats)

	revealsB := s.adapterB.byType(model.EventReveal)
	s.Require().Len(revealsB, 1)
	payloadB := revealsB[0].Data.(model.RevealPayload)
	s.False(payloadB.Correct)
	s.Equal(model.StatsRecord{Losses: 1, TotalGames: 1}, payloadB.Stats)

	s.Equal(session.Phase(), model.PhaseReveal)
}

func (s *SessionSuite) TestSimulatedCounterpartNeedsOneVote() {
	session := s.newBotSession("chat")
	s.clk.Advance(120 * time.Second)

	// Only one interactive voter, so their vote concludes voting
	s.Require().NoError(session.SubmitVote("alice", model.VoteBot))
	s.Equal(model.PhaseReveal, session.Phase())

	reveals := s.adapterA.byType(model.EventReveal)
	s.Require().Len(reveals, 1)
	payload := reveals[0].Data.(model.RevealPayload)
	s.True(payload.OpponentWasBot)
	s.Equal("acme", payload.ProviderLabel)
	s.True(payload.Correct)

	// The scripted side accrues no stats
	s.Equal(model.StatsRecord{}, s.stats.get("bot1"))
}

func (s *SessionSuite) TestClosedAfterGraceWindow() {
	session := s.newSession("chat")
	s.clk.Advance(120 * time.Second)
	s.clk.Advance(15 * time.Second)
	s.Equal(model.PhaseReveal, session.Phase())

	s.clk.Advance(30 * time.Second)
	s.Equal(model.PhaseClosed, session.Phase())
	s.Equal([]model.Phase{model.PhaseClosed}, s.closed)
}

func (s *SessionSuite) TestDisconnectDuringChallengeAborts() {
	session := s.newSession("chat")

	session.HandleDisconnect("alice")

	s.Equal(model.PhaseAborted, session.Phase())
	s.Equal(1, s.adapterB.count(model.EventOpponentLeft))
	s.Equal([]model.Phase{model.PhaseAborted}, s.closed)

	// The round deadline later elapsing is a no-op
	s.clk.Advance(120 * time.Second)
	s.Equal(model.PhaseAborted, session.Phase())
	s.Zero(s.adapterB.count(model.EventVotePhase))
}

func (s *SessionSuite) TestDisconnectDuringVotingDoesNotAbort() {
	session := s.newSession("chat")
	s.clk.Advance(120 * time.Second)

	session.HandleDisconnect("alice")
	s.Equal(model.PhaseVoting, session.Phase())
	s.Zero(s.adapterB.count(model.EventOpponentLeft))

	// The session runs out its timers for the remaining participant
	s.clk.Advance(15 * time.Second)
	s.Equal(model.PhaseReveal, session.Phase())
}

func (s *SessionSuite) TestLeaveDuringChallengeAborts() {
	session := s.newSession("chat")

	s.Require().NoError(session.Leave("bob"))
	s.Equal(model.PhaseAborted, session.Phase())
	s.Equal(1, s.adapterA.count(model.EventOpponentLeft))
}

func (s *SessionSuite) TestLeaveDuringRevealCloses() {
	session := s.newSession("chat")
	s.clk.Advance(120 * time.Second)
	s.clk.Advance(15 * time.Second)

	s.Require().NoError(session.Leave("alice"))
	s.Equal(model.PhaseClosed, session.Phase())

	// Grace timer was cancelled; nothing further fires
	s.Equal(0, s.clk.PendingTimers())
}

func (s *SessionSuite) TestVoteOutsideVotingRejected() {
	session := s.newSession("chat")
	s.ErrorIs(session.SubmitVote("alice", model.VoteHuman), model.ErrWrongPhase)
}

func (s *SessionSuite) TestChatModeRejectsSubmissions() {
	session := s.newSession("chat")
	err := session.Submit("alice", json.RawMessage(`{"text":"hi"}`))
	s.ErrorIs(err, model.ErrInvalidSubmission)
}
