package storage

import (
	"context"

	"github.com/mcoot/humanorbot/internal/model"
)

// Storage defines the interface for data persistence. Live sessions and the
// matchmaking queue are deliberately not stored here: they own timers and
// transport handles and exist only in process memory.
type Storage interface {
	// Stats operations
	SaveStats(ctx context.Context, id model.ParticipantID, record *model.StatsRecord) error
	GetStats(ctx context.Context, id model.ParticipantID) (*model.StatsRecord, error)

	// Provider operations
	SaveProvider(ctx context.Context, provider *model.Provider) error
	GetProvider(ctx context.Context, id model.ProviderID) (*model.Provider, error)
	ListProviders(ctx context.Context) ([]*model.Provider, error)
	DeleteProvider(ctx context.Context, id model.ProviderID) error
}
