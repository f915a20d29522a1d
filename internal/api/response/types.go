package response

import (
	"time"

	"github.com/mcoot/humanorbot/internal/model"
)

// JoinResponse is the response for a successful agent join
type JoinResponse struct {
	Token         string `json:"token"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Message       string `json:"message"`
}

// SentResponse confirms a delivered chat message, echoing the text as
// recorded (it may have been truncated)
type SentResponse struct {
	Sent bool   `json:"sent"`
	Text string `json:"text"`
}

// SubmittedResponse confirms a recorded mode submission
type SubmittedResponse struct {
	Submitted bool `json:"submitted"`
}

// VotedResponse confirms a recorded vote
type VotedResponse struct {
	Voted string `json:"voted"`
}

// LeftResponse confirms a departure
type LeftResponse struct {
	Left bool `json:"left"`
}

// ServerStats is the public server activity snapshot
type ServerStats struct {
	PlayersOnline  int `json:"playersOnline"`
	GamesActive    int `json:"gamesActive"`
	PlayersWaiting int `json:"playersWaiting"`
}

// ServerStatsFromLobby converts a lobby snapshot
func ServerStatsFromLobby(l model.LobbyUpdatePayload) ServerStats {
	return ServerStats{
		PlayersOnline:  l.Online,
		GamesActive:    l.SessionsActive,
		PlayersWaiting: l.Count,
	}
}

// Provider represents a registered provider in API responses. The join
// secret hash is never exposed.
type Provider struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	WebhookURL     string     `json:"webhook_url"`
	CreatedAt      time.Time  `json:"created_at"`
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`
}

// ProviderFromModel converts a model.Provider
func ProviderFromModel(p *model.Provider) Provider {
	resp := Provider{
		ID:         string(p.ID),
		Name:       p.DisplayName,
		WebhookURL: p.WebhookURL,
		CreatedAt:  p.CreatedAt,
	}
	if !p.LastNotifiedAt.IsZero() {
		t := p.LastNotifiedAt
		resp.LastNotifiedAt = &t
	}
	return resp
}

// ProviderList wraps the provider collection
type ProviderList struct {
	Providers []Provider `json:"providers"`
}
