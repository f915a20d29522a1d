package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/humanorbot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.StatsTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Stats tests

func (s *StorageSuite) TestSaveAndGetStats() {
	record := &model.StatsRecord{Wins: 3, Losses: 1, Streak: 2, TotalGames: 4}

	err := s.storage.SaveStats(s.ctx, "conn-1", record)
	s.Require().NoError(err)

	got, err := s.storage.GetStats(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(record, got)
}

func (s *StorageSuite) TestGetStatsNotFound() {
	_, err := s.storage.GetStats(s.ctx, "nope")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestStatsExpire() {
	record := &model.StatsRecord{Wins: 1, TotalGames: 1}
	s.Require().NoError(s.storage.SaveStats(s.ctx, "conn-1", record))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetStats(s.ctx, "conn-1")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

// Provider tests

func (s *StorageSuite) TestSaveAndGetProvider() {
	provider := &model.Provider{
		ID:          "prov-1",
		DisplayName: "Acme Bots",
		WebhookURL:  "https://bots.example.com/notify",
		CreatedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	err := s.storage.SaveProvider(s.ctx, provider)
	s.Require().NoError(err)

	got, err := s.storage.GetProvider(s.ctx, "prov-1")
	s.Require().NoError(err)
	s.Equal(provider, got)
}

func (s *StorageSuite) TestGetProviderNotFound() {
	_, err := s.storage.GetProvider(s.ctx, "nope")
	s.ErrorIs(err, model.ErrProviderNotFound)
}

func (s *StorageSuite) TestListProviders() {
	providers, err := s.storage.ListProviders(s.ctx)
	s.Require().NoError(err)
	s.Empty(providers)

	s.Require().NoError(s.storage.SaveProvider(s.ctx, &model.Provider{ID: "b", DisplayName: "B"}))
	s.Require().NoError(s.storage.SaveProvider(s.ctx, &model.Provider{ID: "a", DisplayName: "A"}))

	providers, err = s.storage.ListProviders(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(providers, 2)
	s.Equal(model.ProviderID("a"), providers[0].ID)
	s.Equal(model.ProviderID("b"), providers[1].ID)
}

func (s *StorageSuite) TestDeleteProvider() {
	s.ErrorIs(s.storage.DeleteProvider(s.ctx, "nope"), model.ErrProviderNotFound)

	s.Require().NoError(s.storage.SaveProvider(s.ctx, &model.Provider{ID: "prov-1"}))
	s.Require().NoError(s.storage.DeleteProvider(s.ctx, "prov-1"))

	_, err := s.storage.GetProvider(s.ctx, "prov-1")
	s.ErrorIs(err, model.ErrProviderNotFound)

	providers, err := s.storage.ListProviders(s.ctx)
	s.Require().NoError(err)
	s.Empty(providers)
}

func (s *StorageSuite) TestSaveProviderOverwrite() {
	s.Require().NoError(s.storage.SaveProvider(s.ctx, &model.Provider{ID: "prov-1", DisplayName: "Old"}))

	updated := &model.Provider{ID: "prov-1", DisplayName: "New", LastNotifiedAt: time.Now().UTC().Truncate(time.Second)}
	s.Require().NoError(s.storage.SaveProvider(s.ctx, updated))

	got, err := s.storage.GetProvider(s.ctx, "prov-1")
	s.Require().NoError(err)
	s.Equal("New", got.DisplayName)

	// Overwriting must not duplicate the index entry
	providers, err := s.storage.ListProviders(s.ctx)
	s.Require().NoError(err)
	s.Len(providers, 1)
}
