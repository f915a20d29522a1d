package ws

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/game"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/transport"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// maxFrameSize must accommodate drawing submissions
	maxFrameSize = 1 << 20
)

// Handler upgrades live connections and runs one client per
// connection. Inbound actions that fail validation are dropped
// silently; the protocol surfaces state only through events.
type Handler struct {
	logger   *slog.Logger
	registry *game.Registry
	clock    clock.Clock
	upgrader websocket.Upgrader
}

// NewHandler creates a new websocket handler
func NewHandler(registry *game.Registry, clk clock.Clock, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger.With(slog.String("component", "ws")),
		registry: registry,
		clock:    clk,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP handles GET /ws
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &client{
		id:       model.ParticipantID(newParticipantID()),
		conn:     conn,
		push:     transport.NewPush(h.clock),
		registry: h.registry,
		clock:    h.clock,
		logger:   h.logger,
	}

	h.registry.Connect(client.id, client.push)
	h.logger.Debug("client connected", slog.String("participant", string(client.id)))

	go client.writePump()
	go client.readPump()
}

// client is one live connection, bridging the wire and the push
// adapter the session delivers into
type client struct {
	id       model.ParticipantID
	conn     *websocket.Conn
	push     *transport.Push
	registry *game.Registry
	clock    clock.Clock
	logger   *slog.Logger
}

// inboundFrame is the envelope for client -> server messages
type inboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinPayload struct {
	Name string `json:"name"`
	Mode string `json:"mode,omitempty"`
}

type messagePayload struct {
	Text string `json:"text"`
}

type submitPayload struct {
	Submission json.RawMessage `json:"submission"`
}

type votePayload struct {
	Vote string `json:"vote"`
}

// writePump forwards adapter events to the connection and keeps it
// alive with pings
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.push.Events():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Debug("websocket write failed",
					slog.String("participant", string(c.id)),
					slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes inbound frames until the connection drops, then
// releases everything the participant held
func (c *client) readPump() {
	defer func() {
		c.registry.Disconnect(c.id)
		c.push.Close()
		c.conn.Close()
		c.logger.Debug("client disconnected", slog.String("participant", string(c.id)))
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame inboundFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			return
		}
		c.handle(frame)
	}
}

// handle dispatches one inbound frame. Invalid or out-of-phase actions
// are dropped without a reply.
func (c *client) handle(frame inboundFrame) {
	switch frame.Type {
	case "join":
		var payload joinPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		participant := model.Participant{
			ID:          c.id,
			DisplayName: model.TruncateDisplayName(payload.Name),
			Transport:   model.TransportPush,
			ConnectedAt: c.clock.Now(),
		}
		_ = c.registry.Join(game.Ticket{
			Participant: participant,
			Adapter:     c.push,
			ModeHint:    payload.Mode,
		})
	case "message":
		var payload messagePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		if session, err := c.registry.SessionFor(c.id); err == nil {
			_, _ = session.Message(c.id, payload.Text)
		}
	case "typing":
		if session, err := c.registry.SessionFor(c.id); err == nil {
			_ = session.Typing(c.id)
		}
	case "submit":
		var payload submitPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		if session, err := c.registry.SessionFor(c.id); err == nil {
			_ = session.Submit(c.id, payload.Submission)
		}
	case "vote":
		var payload votePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		vote, err := model.ParseVote(payload.Vote)
		if err != nil {
			return
		}
		if session, err := c.registry.SessionFor(c.id); err == nil {
			_ = session.SubmitVote(c.id, vote)
		}
	case "leave":
		c.registry.Leave(c.id)
	default:
		// Unknown frame types are ignored
	}
}

// newParticipantID generates a connection-scoped participant ID
func newParticipantID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "conn_" + base64.RawURLEncoding.EncodeToString(b)
}
