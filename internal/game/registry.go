package game

import (
	"log/slog"
	"sync"

	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/dependencies/random"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/modes"
	"github.com/mcoot/humanorbot/internal/transport"
)

// SessionIDLength and SessionIDAlphabet shape generated session IDs
const (
	SessionIDLength   = 12
	SessionIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Registry owns matchmaking and every live session, and routes inbound
// participant actions to the session that holds them.
type Registry struct {
	logger *slog.Logger
	clk    clock.Clock
	rnd    random.Random
	modes  *modes.Registry
	stats  StatsRecorder
	cfg    Settings

	// pinnedMode, when set, forces every session into one mode
	pinnedMode string

	queue *Queue

	mu            sync.RWMutex
	sessions      map[model.SessionID]*Session
	byParticipant map[model.ParticipantID]*Session
	presence      map[model.ParticipantID]transport.Adapter
}

// NewRegistry creates an empty session registry
func NewRegistry(
	logger *slog.Logger,
	clk clock.Clock,
	rnd random.Random,
	modeRegistry *modes.Registry,
	stats StatsRecorder,
	cfg Settings,
	pinnedMode string,
) *Registry {
	return &Registry{
		logger:        logger.With(slog.String("component", "game")),
		clk:           clk,
		rnd:           rnd,
		modes:         modeRegistry,
		stats:         stats,
		cfg:           cfg,
		pinnedMode:    pinnedMode,
		queue:         NewQueue(),
		sessions:      make(map[model.SessionID]*Session),
		byParticipant: make(map[model.ParticipantID]*Session),
		presence:      make(map[model.ParticipantID]transport.Adapter),
	}
}

// Connect registers a participant's presence so they count as online
// and receive lobby broadcasts
func (r *Registry) Connect(id model.ParticipantID, adapter transport.Adapter) {
	r.mu.Lock()
	r.presence[id] = adapter
	r.mu.Unlock()

	r.BroadcastLobby()
}

// Join enqueues a participant for matchmaking. If a counterpart is
// already waiting a session starts immediately; otherwise the
// participant is told their queue position.
func (r *Registry) Join(t Ticket) error {
	r.mu.RLock()
	_, inSession := r.byParticipant[t.Participant.ID]
	r.mu.RUnlock()
	if inSession {
		return model.ErrAlreadyQueued
	}

	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = r.clk.Now()
	}

	result := r.queue.Enqueue(t)
	if result.AlreadyQueued {
		return model.ErrAlreadyQueued
	}
	if result.Matched == nil {
		t.Adapter.Deliver(model.EventQueued, model.QueuedPayload{Position: result.Position})
		r.BroadcastLobby()
		return nil
	}

	r.startSession(*result.Matched)
	return nil
}

// startSession creates, indexes and starts a session for a match
func (r *Registry) startSession(m Match) {
	mode := r.pickMode(m)
	payload := mode.NewPayload(r.rnd)
	id := model.SessionID(r.rnd.String(SessionIDLength, SessionIDAlphabet))

	session := NewSession(id, mode, payload, m.A, m.B, r.cfg, r.clk, r.stats, r.logger, r.sessionClosed)

	r.mu.Lock()
	r.sessions[id] = session
	r.byParticipant[m.A.Participant.ID] = session
	r.byParticipant[m.B.Participant.ID] = session
	r.mu.Unlock()

	session.Start()
	r.BroadcastLobby()
}

// pickMode resolves which mode a match plays: the pinned mode wins,
// then a hint both sides agree on, otherwise a random pick
func (r *Registry) pickMode(m Match) modes.Mode {
	if r.pinnedMode != "" {
		if mode, err := r.modes.Get(r.pinnedMode); err == nil {
			return mode
		}
	}
	if m.A.ModeHint != "" && m.A.ModeHint == m.B.ModeHint {
		if mode, err := r.modes.Get(m.A.ModeHint); err == nil {
			return mode
		}
	}
	return r.modes.Pick(r.rnd)
}

// sessionClosed is the Session onClosed callback. It runs with the
// session lock held, so it must not call back into the session.
func (r *Registry) sessionClosed(s *Session) {
	a, b := s.Participants()

	r.mu.Lock()
	delete(r.sessions, s.ID())
	if r.byParticipant[a.ID] == s {
		delete(r.byParticipant, a.ID)
	}
	if r.byParticipant[b.ID] == s {
		delete(r.byParticipant, b.ID)
	}
	r.mu.Unlock()

	r.BroadcastLobby()
}

// SessionFor returns the session a participant is currently in
func (r *Registry) SessionFor(id model.ParticipantID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.byParticipant[id]
	if !ok {
		return nil, model.ErrNotInSession
	}
	return session, nil
}

// Leave removes a participant from the queue and tears down their
// session if they are in one
func (r *Registry) Leave(id model.ParticipantID) {
	removed := r.queue.Remove(id)

	session, err := r.SessionFor(id)
	if err == nil {
		_ = session.Leave(id)
		return // session teardown already broadcast the lobby
	}

	if removed {
		r.BroadcastLobby()
	}
}

// Disconnect handles a participant's connection dropping: they leave
// the queue and presence set, and a session in the challenge phase is
// aborted
func (r *Registry) Disconnect(id model.ParticipantID) {
	r.queue.Remove(id)

	r.mu.Lock()
	delete(r.presence, id)
	r.mu.Unlock()

	if session, err := r.SessionFor(id); err == nil {
		session.HandleDisconnect(id)
	}

	r.BroadcastLobby()
}

// WaitingHumans returns the names of queued non-simulated participants
func (r *Registry) WaitingHumans() []string {
	return r.queue.WaitingHumans()
}

// LobbySnapshot returns the current server-wide activity view
func (r *Registry) LobbySnapshot() model.LobbyUpdatePayload {
	waiting := r.queue.WaitingNames()

	r.mu.RLock()
	online := len(r.presence)
	active := len(r.sessions)
	r.mu.RUnlock()

	return model.LobbyUpdatePayload{
		Waiting:        waiting,
		Count:          len(waiting),
		Online:         online,
		SessionsActive: active,
	}
}

// BroadcastLobby pushes the current lobby snapshot to every present
// participant
func (r *Registry) BroadcastLobby() {
	snapshot := r.LobbySnapshot()

	r.mu.RLock()
	adapters := make([]transport.Adapter, 0, len(r.presence))
	for _, adapter := range r.presence {
		adapters = append(adapters, adapter)
	}
	r.mu.RUnlock()

	for _, adapter := range adapters {
		adapter.Deliver(model.EventLobbyUpdate, snapshot)
	}
}
