package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/storage"
)

// Service tracks per-participant win/loss records
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewService creates a new stats service
func NewService(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// Record scores one finished session for a participant and returns
// their updated record. A participant with no prior record starts from
// zero.
func (s *Service) Record(ctx context.Context, id model.ParticipantID, correct bool) (model.StatsRecord, error) {
	record, err := s.storage.GetStats(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrStatsNotFound) {
			return model.StatsRecord{}, err
		}
		record = &model.StatsRecord{}
	}

	record.Apply(correct)

	if err := s.storage.SaveStats(ctx, id, record); err != nil {
		return model.StatsRecord{}, err
	}
	return *record, nil
}

// Get returns a participant's record, zero-valued when they have never
// finished a session
func (s *Service) Get(ctx context.Context, id model.ParticipantID) (model.StatsRecord, error) {
	record, err := s.storage.GetStats(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrStatsNotFound) {
			return model.StatsRecord{}, nil
		}
		return model.StatsRecord{}, err
	}
	return *record, nil
}
