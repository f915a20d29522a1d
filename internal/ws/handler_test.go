package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/humanorbot/internal/dependencies/mocks"
	"github.com/mcoot/humanorbot/internal/game"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/modes"
	"github.com/mcoot/humanorbot/internal/services/stats"
	"github.com/mcoot/humanorbot/internal/storage/memory"
	"github.com/mcoot/humanorbot/internal/testutil"
)

// outboundFrame mirrors the event envelope written to the wire
type outboundFrame struct {
	Type model.EventType `json:"type"`
	Data json.RawMessage `json:"data"`
}

type wsFixture struct {
	t        *testing.T
	clk      *mocks.MockClock
	registry *game.Registry
	server   *httptest.Server
}

func newFixture(t *testing.T) *wsFixture {
	t.Helper()

	clk := mocks.NewMockClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	rnd.QueueString("sess-1", "sess-2")
	statsService := stats.NewService(memory.New(), testutil.NopLogger())
	registry := game.NewRegistry(
		testutil.NopLogger(),
		clk,
		rnd,
		modes.NewRegistry(),
		statsService,
		game.Settings{VoteTime: 15 * time.Second, GraceWindow: 30 * time.Second},
		"chat",
	)

	handler := NewHandler(registry, clk, testutil.NopLogger())
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &wsFixture{t: t, clk: clk, registry: registry, server: server}
}

func (f *wsFixture) dial() *websocket.Conn {
	f.t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.DialContext(context.Background(), url, nil)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, frameType string, data any) {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": frameType, "data": json.RawMessage(payload)}))
}

// readEvent reads frames until one of the wanted type arrives,
// skipping lobby broadcasts and typing noise
func readEvent(t *testing.T, conn *websocket.Conn, want model.EventType) outboundFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var frame outboundFrame
		require.NoError(t, conn.ReadJSON(&frame), "waiting for %s", want)
		if frame.Type == want {
			return frame
		}
	}
}

func TestPairAndChatOverWebsocket(t *testing.T) {
	f := newFixture(t)

	connA := f.dial()
	connB := f.dial()

	send(t, connA, "join", joinPayload{Name: "Ada"})
	queued := readEvent(t, connA, model.EventQueued)
	var pos model.QueuedPayload
	require.NoError(t, json.Unmarshal(queued.Data, &pos))
	assert.Equal(t, 1, pos.Position)

	send(t, connB, "join", joinPayload{Name: "Grace"})

	var startA model.SessionStartedPayload
	require.NoError(t, json.Unmarshal(readEvent(t, connA, model.EventSessionStarted).Data, &startA))
	assert.Equal(t, "Grace", startA.Opponent.Name)
	assert.Equal(t, 120, startA.RoundSeconds)

	var startB model.SessionStartedPayload
	require.NoError(t, json.Unmarshal(readEvent(t, connB, model.EventSessionStarted).Data, &startB))
	assert.Equal(t, "Ada", startB.Opponent.Name)

	send(t, connA, "message", messagePayload{Text: "hello!"})
	var msg model.MessagePayload
	require.NoError(t, json.Unmarshal(readEvent(t, connB, model.EventMessage).Data, &msg))
	assert.Equal(t, "opponent", msg.From)
	assert.Equal(t, "hello!", msg.Text)

	send(t, connA, "typing", nil)
	readEvent(t, connB, model.EventTyping)
}

func TestFullGameOverWebsocket(t *testing.T) {
	f := newFixture(t)

	connA := f.dial()
	connB := f.dial()

	send(t, connA, "join", joinPayload{Name: "Ada"})
	readEvent(t, connA, model.EventQueued)
	send(t, connB, "join", joinPayload{Name: "Grace"})
	readEvent(t, connA, model.EventSessionStarted)
	readEvent(t, connB, model.EventSessionStarted)

	f.clk.Advance(120 * time.Second)

	var votePhase model.VotePhasePayload
	require.NoError(t, json.Unmarshal(readEvent(t, connA, model.EventVotePhase).Data, &votePhase))
	assert.Equal(t, 15, votePhase.VoteSeconds)
	readEvent(t, connB, model.EventVotePhase)

	send(t, connA, "vote", votePayload{Vote: "human"})
	send(t, connB, "vote", votePayload{Vote: "bot"})

	var revealA model.RevealPayload
	require.NoError(t, json.Unmarshal(readEvent(t, connA, model.EventReveal).Data, &revealA))
	assert.False(t, revealA.OpponentWasBot)
	assert.True(t, revealA.Correct)
	assert.Equal(t, 1, revealA.Stats.Wins)

	var revealB model.RevealPayload
	require.NoError(t, json.Unmarshal(readEvent(t, connB, model.EventReveal).Data, &revealB))
	assert.False(t, revealB.Correct)
}

func TestDisconnectAbortsChallenge(t *testing.T) {
	f := newFixture(t)

	connA := f.dial()
	connB := f.dial()

	send(t, connA, "join", joinPayload{Name: "Ada"})
	readEvent(t, connA, model.EventQueued)
	send(t, connB, "join", joinPayload{Name: "Grace"})
	readEvent(t, connA, model.EventSessionStarted)
	readEvent(t, connB, model.EventSessionStarted)

	require.NoError(t, connB.Close())

	readEvent(t, connA, model.EventOpponentLeft)
}

func TestInvalidFramesDroppedQuietly(t *testing.T) {
	f := newFixture(t)

	conn := f.dial()

	// None of these are valid yet; the connection must survive all of
	// them without an error reply
	send(t, conn, "message", messagePayload{Text: "nobody to hear this"})
	send(t, conn, "vote", votePayload{Vote: "human"})
	send(t, conn, "vote", votePayload{Vote: "gibberish"})
	send(t, conn, "bogus", nil)

	send(t, conn, "join", joinPayload{Name: "Ada"})
	readEvent(t, conn, model.EventQueued)
}

func TestLeaveReturnsToLobby(t *testing.T) {
	f := newFixture(t)

	conn := f.dial()
	send(t, conn, "join", joinPayload{Name: "Ada"})
	readEvent(t, conn, model.EventQueued)

	send(t, conn, "leave", nil)

	require.Eventually(t, func() bool {
		return len(f.registry.LobbySnapshot().Waiting) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
