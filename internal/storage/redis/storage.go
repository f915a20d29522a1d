package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Stats operations

func (s *Storage) SaveStats(ctx context.Context, id model.ParticipantID, record *model.StatsRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Stats are keyed by connection identity, which is transient, so they
	// expire rather than accumulating forever.
	return s.client.Set(ctx, statsKey(id), data, s.cfg.StatsTTL).Err()
}

func (s *Storage) GetStats(ctx context.Context, id model.ParticipantID) (*model.StatsRecord, error) {
	data, err := s.client.Get(ctx, statsKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var record model.StatsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Provider operations

func (s *Storage) SaveProvider(ctx context.Context, provider *model.Provider) error {
	data, err := json.Marshal(provider)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, providerKey(provider.ID), data, 0) // No TTL
	pipe.SAdd(ctx, providersIndexKey(), string(provider.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProvider(ctx context.Context, id model.ProviderID) (*model.Provider, error) {
	data, err := s.client.Get(ctx, providerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProviderNotFound
		}
		return nil, err
	}

	var provider model.Provider
	if err := json.Unmarshal(data, &provider); err != nil {
		return nil, err
	}
	return &provider, nil
}

func (s *Storage) ListProviders(ctx context.Context) ([]*model.Provider, error) {
	ids, err := s.client.SMembers(ctx, providersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	providers := make([]*model.Provider, 0, len(ids))
	for _, id := range ids {
		provider, err := s.GetProvider(ctx, model.ProviderID(id))
		if err != nil {
			if errors.Is(err, model.ErrProviderNotFound) {
				// Index entry outlived the provider record; drop it
				s.client.SRem(ctx, providersIndexKey(), id)
				continue
			}
			return nil, err
		}
		providers = append(providers, provider)
	}

	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ID < providers[j].ID
	})
	return providers, nil
}

func (s *Storage) DeleteProvider(ctx context.Context, id model.ProviderID) error {
	exists, err := s.client.Exists(ctx, providerKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrProviderNotFound
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, providerKey(id))
	pipe.SRem(ctx, providersIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}
