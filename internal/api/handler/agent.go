package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/mcoot/humanorbot/internal/api/middleware"
	"github.com/mcoot/humanorbot/internal/api/request"
	"github.com/mcoot/humanorbot/internal/api/response"
	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/game"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/services/auth"
	"github.com/mcoot/humanorbot/internal/services/stats"
	"github.com/mcoot/humanorbot/internal/transport"
)

// AgentHandler serves the polling API for automated participants. Each
// authenticated agent owns a mailbox that session events accumulate
// into between polls.
type AgentHandler struct {
	authService  *auth.Service
	statsService *stats.Service
	registry     *game.Registry
	clock        clock.Clock

	mu        sync.RWMutex
	mailboxes map[model.ParticipantID]*transport.Mailbox
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(
	authService *auth.Service,
	statsService *stats.Service,
	registry *game.Registry,
	clk clock.Clock,
) *AgentHandler {
	return &AgentHandler{
		authService:  authService,
		statsService: statsService,
		registry:     registry,
		clock:        clk,
		mailboxes:    make(map[model.ParticipantID]*transport.Mailbox),
	}
}

// Join handles POST /api/v1/agents/join
func (h *AgentHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.authService.JoinAgent(r.Context(), req.Name, req.Secret)
	if err != nil {
		WriteError(w, err)
		return
	}

	mailbox := transport.NewMailbox(h.clock)
	h.mu.Lock()
	h.mailboxes[session.ParticipantID] = mailbox
	h.mu.Unlock()

	participant := model.Participant{
		ID:            session.ParticipantID,
		DisplayName:   session.DisplayName,
		Transport:     model.TransportPull,
		Simulated:     true,
		ProviderLabel: session.ProviderLabel,
		ConnectedAt:   h.clock.Now(),
	}

	h.registry.Connect(participant.ID, mailbox)
	if err := h.registry.Join(game.Ticket{
		Participant: participant,
		Adapter:     mailbox,
		ModeHint:    req.Mode,
	}); err != nil {
		h.teardown(session)
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinResponse{
		Token:         session.Token,
		ParticipantID: string(session.ParticipantID),
		Name:          session.DisplayName,
		Message:       fmt.Sprintf("Joined as %s. Poll /api/v1/agents/poll for updates.", session.DisplayName),
	})
}

// Poll handles GET /api/v1/agents/poll
func (h *AgentHandler) Poll(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetAgent(r.Context())

	mailbox := h.mailbox(session.ParticipantID)
	if mailbox == nil {
		WriteError(w, NewUnauthorizedError())
		return
	}

	response.JSON(w, http.StatusOK, mailbox.Poll())
}

// Message handles POST /api/v1/agents/message
func (h *AgentHandler) Message(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetAgent(r.Context())

	var req request.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	gameSession, err := h.registry.SessionFor(session.ParticipantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	text, err := gameSession.Message(session.ParticipantID, req.Text)
	if err != nil {
		WriteError(w, err)
		return
	}

	if mailbox := h.mailbox(session.ParticipantID); mailbox != nil {
		mailbox.RecordSelfMessage(text)
	}

	response.JSON(w, http.StatusOK, response.SentResponse{Sent: true, Text: text})
}

// Submit handles POST /api/v1/agents/submit
func (h *AgentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetAgent(r.Context())

	var req request.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if len(req.Submission) == 0 {
		WriteError(w, NewInvalidRequestError("submission is required"))
		return
	}

	gameSession, err := h.registry.SessionFor(session.ParticipantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := gameSession.Submit(session.ParticipantID, req.Submission); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SubmittedResponse{Submitted: true})
}

// Vote handles POST /api/v1/agents/vote
func (h *AgentHandler) Vote(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetAgent(r.Context())

	var req request.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	vote, err := model.ParseVote(req.Vote)
	if err != nil {
		WriteError(w, err)
		return
	}

	gameSession, err := h.registry.SessionFor(session.ParticipantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := gameSession.SubmitVote(session.ParticipantID, vote); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VotedResponse{Voted: string(vote)})
}

// Leave handles POST /api/v1/agents/leave
func (h *AgentHandler) Leave(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetAgent(r.Context())

	h.registry.Leave(session.ParticipantID)
	h.teardown(session)

	response.JSON(w, http.StatusOK, response.LeftResponse{Left: true})
}

// Stats handles GET /api/v1/agents/stats
func (h *AgentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetAgent(r.Context())

	record, err := h.statsService.Get(r.Context(), session.ParticipantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, record)
}

// mailbox returns the mailbox for a participant, nil if they are gone
func (h *AgentHandler) mailbox(id model.ParticipantID) *transport.Mailbox {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mailboxes[id]
}

// teardown releases everything tied to an agent session
func (h *AgentHandler) teardown(session *auth.AgentSession) {
	h.registry.Disconnect(session.ParticipantID)

	h.mu.Lock()
	mailbox := h.mailboxes[session.ParticipantID]
	delete(h.mailboxes, session.ParticipantID)
	h.mu.Unlock()

	if mailbox != nil {
		mailbox.Close()
	}

	h.authService.InvalidateToken(session.Token)
}
