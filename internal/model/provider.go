package model

import "time"

// ProviderID uniquely identifies a registered external provider
type ProviderID string

// Provider is an externally-hosted service that supplies automated
// participants. The notifier pings its webhook when humans are waiting.
type Provider struct {
	ID          ProviderID `json:"id"`
	DisplayName string     `json:"display_name"`
	WebhookURL  string     `json:"webhook_url"`

	// JoinSecretHash is the bcrypt hash of the provider's optional join
	// secret. Empty when the provider's agents join with the global secret.
	JoinSecretHash string `json:"join_secret_hash,omitempty"`

	CreatedAt      time.Time `json:"created_at"`
	LastNotifiedAt time.Time `json:"last_notified_at"`
}
