package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/humanorbot/internal/api/handler"
	apimiddleware "github.com/mcoot/humanorbot/internal/api/middleware"
	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/dependencies/random"
	"github.com/mcoot/humanorbot/internal/game"
	"github.com/mcoot/humanorbot/internal/middleware"
	"github.com/mcoot/humanorbot/internal/services/auth"
	"github.com/mcoot/humanorbot/internal/services/stats"
	"github.com/mcoot/humanorbot/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	StatsService *stats.Service
	Registry     *game.Registry
	Storage      storage.Storage
	Clock        clock.Clock
	Random       random.Random

	// WSHandler, when set, serves the live connection endpoint at /ws
	WSHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	agentHandler := handler.NewAgentHandler(cfg.AuthService, cfg.StatsService, cfg.Registry, cfg.Clock)
	providerHandler := handler.NewProviderHandler(cfg.AuthService, cfg.Storage, cfg.Clock, cfg.Random)
	statsHandler := handler.NewStatsHandler(cfg.Registry)

	// Create middleware
	agentAuth := apimiddleware.AgentAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Agent join requires only the shared or provider secret
	api.HandleFunc("/agents/join", agentHandler.Join).Methods(http.MethodPost)

	// Remaining agent routes require a token
	agents := api.PathPrefix("/agents").Subrouter()
	agents.Use(agentAuth)
	agents.HandleFunc("/poll", agentHandler.Poll).Methods(http.MethodGet)
	agents.HandleFunc("/message", agentHandler.Message).Methods(http.MethodPost)
	agents.HandleFunc("/submit", agentHandler.Submit).Methods(http.MethodPost)
	agents.HandleFunc("/vote", agentHandler.Vote).Methods(http.MethodPost)
	agents.HandleFunc("/leave", agentHandler.Leave).Methods(http.MethodPost)
	agents.HandleFunc("/stats", agentHandler.Stats).Methods(http.MethodGet)

	// Provider management (admin secret checked per-handler)
	api.HandleFunc("/providers", providerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/providers", providerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/providers/{id}", providerHandler.Delete).Methods(http.MethodDelete)

	// Public server stats
	api.HandleFunc("/stats", statsHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Live connection endpoint
	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
