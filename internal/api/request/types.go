package request

import "encoding/json"

// JoinRequest is the request body for joining matchmaking as an agent
type JoinRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
	Mode   string `json:"mode,omitempty"`
}

// MessageRequest is the request body for sending a chat message
type MessageRequest struct {
	Text string `json:"text"`
}

// SubmitRequest is the request body for recording a mode submission.
// The submission shape depends on the session's active mode.
type SubmitRequest struct {
	Submission json.RawMessage `json:"submission"`
}

// VoteRequest is the request body for casting a vote
type VoteRequest struct {
	Vote string `json:"vote"`
}

// RegisterProviderRequest is the request body for registering an
// external participant provider
type RegisterProviderRequest struct {
	Name       string `json:"name"`
	WebhookURL string `json:"webhook_url"`
	JoinSecret string `json:"join_secret,omitempty"`
}
