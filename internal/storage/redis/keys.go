package redis

import (
	"fmt"

	"github.com/mcoot/humanorbot/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "hob"

// statsKey returns the Redis key for a participant's stats record
func statsKey(id model.ParticipantID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, id)
}

// providerKey returns the Redis key for a Provider
func providerKey(id model.ProviderID) string {
	return fmt.Sprintf("%s:provider:%s", keyPrefix, id)
}

// providersIndexKey returns the Redis key for the SET of registered provider IDs
func providersIndexKey() string {
	return fmt.Sprintf("%s:idx:providers", keyPrefix)
}
