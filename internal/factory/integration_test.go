package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/humanorbot/internal/game"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/transport"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestAppWithConfig(Config{PinnedMode: "chat"})
	s.ctx = context.Background()
}

func (s *IntegrationSuite) joinPuller(id, name string) *transport.Mailbox {
	mailbox := transport.NewMailbox(s.app.MockClock)
	participant := model.Participant{
		ID:          model.ParticipantID(id),
		DisplayName: name,
		Transport:   model.TransportPull,
		ConnectedAt: s.app.MockClock.Now(),
	}
	s.app.Registry.Connect(participant.ID, mailbox)
	s.Require().NoError(s.app.Registry.Join(game.Ticket{
		Participant: participant,
		Adapter:     mailbox,
		EnqueuedAt:  s.app.MockClock.Now(),
	}))
	return mailbox
}

// Test: complete match from queueing through reveal using the polling
// transport end to end
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	s.app.MockRandom.QueueString("sess01")

	alice := s.joinPuller("p1", "Alice")
	snapshot := alice.Poll()
	s.False(snapshot.Started)

	bob := s.joinPuller("p2", "Bob")

	snapshot = alice.Poll()
	s.True(snapshot.Started)
	s.Equal("Bob", snapshot.Opponent)
	s.Equal("challenge", snapshot.Phase)
	s.Require().NotNil(snapshot.Session)
	s.Equal(model.SessionID("sess01"), snapshot.Session.SessionID)

	session, err := s.app.Registry.SessionFor("p1")
	s.Require().NoError(err)

	_, err = session.Message("p1", "hello there")
	s.Require().NoError(err)
	bobSnapshot := bob.Poll()
	s.Require().Len(bobSnapshot.NewMessages, 1)
	s.Equal("hello there", bobSnapshot.NewMessages[0].Text)

	// Challenge runs its full course regardless of activity
	s.app.MockClock.Advance(120 * time.Second)
	s.Equal("voting", alice.Poll().Phase)

	s.Require().NoError(session.SubmitVote("p1", model.VoteHuman))
	s.Require().NoError(session.SubmitVote("p2", model.VoteBot))

	snapshot = alice.Poll()
	s.Equal("reveal", snapshot.Phase)
	s.Require().NotNil(snapshot.Reveal)
	s.False(snapshot.Reveal.OpponentWasBot)
	s.True(snapshot.Reveal.Correct)
	s.Equal(1, snapshot.Reveal.Stats.Wins)

	record, err := s.app.StatsService.Get(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(1, record.Losses)
	s.Equal(0, record.Streak)

	// Session torn down after the grace window
	s.app.MockClock.Advance(30 * time.Second)
	_, err = s.app.Registry.SessionFor("p1")
	s.ErrorIs(err, model.ErrNotInSession)
}

// Test: agents joining through the auth service carry their provider
// label into the reveal
func (s *IntegrationSuite) TestProviderLabelledAgentFlow() {
	s.app.MockRandom.QueueString("sess01")

	hash, err := s.app.AuthService.HashJoinSecret("hunter2")
	s.Require().NoError(err)
	s.Require().NoError(s.app.Storage.SaveProvider(s.ctx, &model.Provider{
		ID:             "prov1",
		DisplayName:    "Acme Bots",
		JoinSecretHash: hash,
		CreatedAt:      s.app.MockClock.Now(),
	}))

	agentSession, err := s.app.AuthService.JoinAgent(s.ctx, "Chatterbox", "hunter2")
	s.Require().NoError(err)
	s.Equal("Acme Bots", agentSession.ProviderLabel)

	alice := s.joinPuller("p1", "Alice")
	alice.Poll()

	agentMailbox := transport.NewMailbox(s.app.MockClock)
	s.app.Registry.Connect(agentSession.ParticipantID, agentMailbox)
	s.Require().NoError(s.app.Registry.Join(game.Ticket{
		Participant: model.Participant{
			ID:            agentSession.ParticipantID,
			DisplayName:   agentSession.DisplayName,
			Transport:     model.TransportPull,
			Simulated:     true,
			ProviderLabel: agentSession.ProviderLabel,
			ConnectedAt:   s.app.MockClock.Now(),
		},
		Adapter:    agentMailbox,
		EnqueuedAt: s.app.MockClock.Now(),
	}))

	session, err := s.app.Registry.SessionFor("p1")
	s.Require().NoError(err)

	s.app.MockClock.Advance(120 * time.Second)
	s.Require().NoError(session.SubmitVote("p1", model.VoteBot))
	s.Require().NoError(session.SubmitVote(agentSession.ParticipantID, model.VoteHuman))

	snapshot := alice.Poll()
	s.Require().NotNil(snapshot.Reveal)
	s.True(snapshot.Reveal.OpponentWasBot)
	s.True(snapshot.Reveal.Correct)
	s.Equal("Acme Bots", snapshot.Reveal.ProviderLabel)
	s.Equal("Chatterbox", snapshot.Reveal.OpponentName)
}
