package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/storage"
)

// dispatchTimeout bounds a single webhook delivery attempt
const dispatchTimeout = 10 * time.Second

// LobbyView is the notifier's window into matchmaking state
type LobbyView interface {
	WaitingHumans() []string
}

// Notification is the webhook payload sent to providers
type Notification struct {
	Waiting int      `json:"waiting"`
	Names   []string `json:"names"`
}

// Config holds notifier timing settings
type Config struct {
	// Interval is how often the notifier checks the queue
	Interval time.Duration

	// Cooldown is the minimum time between notifications to one
	// provider
	Cooldown time.Duration
}

// Service periodically tells registered providers that humans are
// waiting for a match. Deliveries are best-effort: a provider's
// cooldown starts when a dispatch is attempted, whether or not it
// succeeds, so an unreachable target is not hammered every tick.
type Service struct {
	storage storage.Storage
	lobby   LobbyView
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config
	client  *http.Client
}

// New creates a new webhook notifier
func New(storage storage.Storage, lobby LobbyView, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		lobby:   lobby,
		clock:   clk,
		logger:  logger.With(slog.String("component", "notifier")),
		cfg:     cfg,
		client:  &http.Client{Timeout: dispatchTimeout},
	}
}

// Run ticks the notifier on its configured interval until the context
// is cancelled
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one notifier pass: when humans are queued, every provider
// past its cooldown is notified and its timestamp recorded
func (s *Service) Tick(ctx context.Context) {
	waiting := s.lobby.WaitingHumans()
	if len(waiting) == 0 {
		return
	}

	providers, err := s.storage.ListProviders(ctx)
	if err != nil {
		s.logger.Error("listing providers failed", slog.String("error", err.Error()))
		return
	}

	now := s.clock.Now()
	payload := Notification{Waiting: len(waiting), Names: waiting}

	for _, provider := range providers {
		if provider.WebhookURL == "" {
			continue
		}
		if !provider.LastNotifiedAt.IsZero() && now.Sub(provider.LastNotifiedAt) < s.cfg.Cooldown {
			continue
		}

		// Record the attempt before dispatching so a failed delivery
		// still honors the cooldown
		provider.LastNotifiedAt = now
		if err := s.storage.SaveProvider(ctx, provider); err != nil {
			s.logger.Error("recording notification timestamp failed",
				slog.String("provider", string(provider.ID)),
				slog.String("error", err.Error()))
			continue
		}

		go s.dispatch(provider.ID, provider.WebhookURL, payload)
	}
}

// dispatch delivers one notification, detached from the tick that
// triggered it. Failures are logged, never retried.
func (s *Service) dispatch(id model.ProviderID, url string, payload Notification) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("encoding notification failed", slog.String("error", err.Error()))
		return
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("building notification request failed",
			slog.String("provider", string(id)),
			slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed",
			slog.String("provider", string(id)),
			slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("webhook delivery rejected",
			slog.String("provider", string(id)),
			slog.String("status", fmt.Sprintf("%d", resp.StatusCode)))
		return
	}

	s.logger.Debug("webhook delivered", slog.String("provider", string(id)))
}
