package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	stats     map[model.ParticipantID]*model.StatsRecord
	providers map[model.ProviderID]*model.Provider
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		stats:     make(map[model.ParticipantID]*model.StatsRecord),
		providers: make(map[model.ProviderID]*model.Provider),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Stats operations

func (s *Storage) SaveStats(ctx context.Context, id model.ParticipantID, record *model.StatsRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.stats[id] = &copied
	return nil
}

func (s *Storage) GetStats(ctx context.Context, id model.ParticipantID) (*model.StatsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.stats[id]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	copied := *record
	return &copied, nil
}

// Provider operations

func (s *Storage) SaveProvider(ctx context.Context, provider *model.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *provider
	s.providers[provider.ID] = &copied
	return nil
}

func (s *Storage) GetProvider(ctx context.Context, id model.ProviderID) (*model.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	provider, ok := s.providers[id]
	if !ok {
		return nil, model.ErrProviderNotFound
	}
	copied := *provider
	return &copied, nil
}

func (s *Storage) ListProviders(ctx context.Context) ([]*model.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	providers := make([]*model.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		copied := *p
		providers = append(providers, &copied)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ID < providers[j].ID
	})
	return providers, nil
}

func (s *Storage) DeleteProvider(ctx context.Context, id model.ProviderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[id]; !ok {
		return model.ErrProviderNotFound
	}
	delete(s.providers, id)
	return nil
}
