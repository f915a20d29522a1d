package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/humanorbot/internal/dependencies/mocks"
	"github.com/mcoot/humanorbot/internal/model"
)

type MailboxSuite struct {
	suite.Suite
	clk *mocks.MockClock
	mb  *Mailbox
}

func TestMailboxSuite(t *testing.T) {
	suite.Run(t, new(MailboxSuite))
}

func (s *MailboxSuite) SetupTest() {
	s.clk = mocks.NewMockClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	s.mb = NewMailbox(s.clk)
}

func (s *MailboxSuite) TestInitialSnapshot() {
	snap := s.mb.Poll()
	s.Equal("waiting", snap.Phase)
	s.False(snap.Started)
	s.Empty(snap.NewMessages)
	s.Empty(snap.AllMessages)
	s.Empty(snap.Events)
	s.Nil(snap.Reveal)
}

func (s *MailboxSuite) TestSessionStartUpdatesState() {
	s.mb.Deliver(model.EventSessionStarted, model.SessionStartedPayload{
		SessionID:    "sess-1",
		Opponent:     model.OpponentInfo{Name: "Grace"},
		RoundSeconds: 120,
		Mode:         "chat",
		ModeLabel:    "Just Chat",
	})

	snap := s.mb.Poll()
	s.True(snap.Started)
	s.Equal("challenge", snap.Phase)
	s.Equal("Grace", snap.Opponent)
	s.Require().NotNil(snap.Session)
	s.Equal(model.SessionID("sess-1"), snap.Session.SessionID)
	s.Len(snap.Events, 1)
	s.Equal(model.EventSessionStarted, snap.Events[0].Type)
}

func (s *MailboxSuite) TestMessagesDrainedOnPoll() {
	msg := model.MessagePayload{From: "opponent", Text: "hello", Timestamp: s.clk.Now()}
	s.mb.Deliver(model.EventMessage, msg)

	snap := s.mb.Poll()
	s.Require().Len(snap.NewMessages, 1)
	s.Equal("hello", snap.NewMessages[0].Text)
	s.Len(snap.AllMessages, 1)

	// A second poll has drained the new messages but keeps the history
	snap = s.mb.Poll()
	s.Empty(snap.NewMessages)
	s.Len(snap.AllMessages, 1)
}

func (s *MailboxSuite) TestSelfMessagesInHistoryOnly() {
	s.mb.RecordSelfMessage("hi there")
	s.mb.Deliver(model.EventMessage, model.MessagePayload{From: "opponent", Text: "hey", Timestamp: s.clk.Now()})

	snap := s.mb.Poll()
	s.Len(snap.NewMessages, 1)
	s.Require().Len(snap.AllMessages, 2)
	s.Equal("self", snap.AllMessages[0].From)
	s.Equal("opponent", snap.AllMessages[1].From)
}

func (s *MailboxSuite) TestPhaseTransitions() {
	s.mb.Deliver(model.EventVotePhase, model.VotePhasePayload{VoteSeconds: 15})
	snap := s.mb.Poll()
	s.Equal("voting", snap.Phase)
	s.Require().NotNil(snap.VotePhase)
	s.Equal(15, snap.VotePhase.VoteSeconds)

	s.mb.Deliver(model.EventReveal, model.RevealPayload{OpponentWasBot: true, OpponentName: "Grace"})
	snap = s.mb.Poll()
	s.Equal("reveal", snap.Phase)
	s.Require().NotNil(snap.Reveal)
	s.True(snap.Reveal.OpponentWasBot)
}

func (s *MailboxSuite) TestLobbyUpdateIsStateOnly() {
	s.mb.Deliver(model.EventLobbyUpdate, model.LobbyUpdatePayload{Count: 2, Online: 5})
	s.mb.Deliver(model.EventLobbyUpdate, model.LobbyUpdatePayload{Count: 3, Online: 6})

	snap := s.mb.Poll()
	s.Empty(snap.Events)
	s.Require().NotNil(snap.Lobby)
	s.Equal(3, snap.Lobby.Count)
}

func (s *MailboxSuite) TestEventLogCapped() {
	for i := 0; i < 30; i++ {
		s.mb.Deliver(model.EventTyping, nil)
	}
	s.mb.Deliver(model.EventOpponentLeft, nil)

	snap := s.mb.Poll()
	s.Len(snap.Events, maxPolledEvents)
	s.Equal(model.EventOpponentLeft, snap.Events[len(snap.Events)-1].Type)
}

func (s *MailboxSuite) TestClosedMailboxDropsDeliveries() {
	s.mb.Close()
	s.mb.Deliver(model.EventMessage, model.MessagePayload{From: "opponent", Text: "late"})

	snap := s.mb.Poll()
	s.Empty(snap.NewMessages)
	s.Empty(snap.Events)
}

func TestPushDeliverAndClose(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	p := NewPush(clk)

	p.Deliver(model.EventQueued, model.QueuedPayload{Position: 1})

	ev := <-p.Events()
	if ev.Type != model.EventQueued {
		t.Fatalf("expected waiting event, got %s", ev.Type)
	}
	if ev.Timestamp != clk.Now() {
		t.Fatalf("expected timestamp from clock, got %v", ev.Timestamp)
	}

	p.Close()
	// Closing twice must not panic, and deliveries after close are dropped
	p.Close()
	p.Deliver(model.EventTyping, nil)

	if _, ok := <-p.Events(); ok {
		t.Fatal("expected events channel to be closed")
	}
}

func TestPushDropsWhenBufferFull(t *testing.T) {
	clk := mocks.NewMockClock(time.Now())
	p := NewPush(clk)

	for i := 0; i < pushBufferSize+10; i++ {
		p.Deliver(model.EventTyping, nil)
	}

	count := 0
	for {
		select {
		case <-p.Events():
			count++
		default:
			if count != pushBufferSize {
				t.Fatalf("expected %d buffered events, got %d", pushBufferSize, count)
			}
			return
		}
	}
}
