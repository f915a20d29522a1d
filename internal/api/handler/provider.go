package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/humanorbot/internal/api/request"
	"github.com/mcoot/humanorbot/internal/api/response"
	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/dependencies/random"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/services/auth"
	"github.com/mcoot/humanorbot/internal/storage"
)

// ProviderIDLength and ProviderIDAlphabet shape generated provider IDs
const (
	ProviderIDLength   = 8
	ProviderIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// ProviderHandler manages registered external participant providers.
// Every endpoint requires the admin secret.
type ProviderHandler struct {
	authService *auth.Service
	storage     storage.Storage
	clock       clock.Clock
	random      random.Random
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(
	authService *auth.Service,
	storage storage.Storage,
	clk clock.Clock,
	rnd random.Random,
) *ProviderHandler {
	return &ProviderHandler{
		authService: authService,
		storage:     storage,
		clock:       clk,
		random:      rnd,
	}
}

// requireAdmin checks the admin secret header
func (h *ProviderHandler) requireAdmin(r *http.Request) error {
	return h.authService.ValidateAdmin(r.Header.Get("X-Admin-Secret"))
}

// Register handles POST /api/v1/providers
func (h *ProviderHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		WriteError(w, err)
		return
	}

	var req request.RegisterProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.WebhookURL == "" {
		WriteError(w, NewInvalidRequestError("webhook_url is required"))
		return
	}

	provider := &model.Provider{
		ID:          model.ProviderID(h.random.String(ProviderIDLength, ProviderIDAlphabet)),
		DisplayName: req.Name,
		WebhookURL:  req.WebhookURL,
		CreatedAt:   h.clock.Now(),
	}

	if req.JoinSecret != "" {
		hash, err := h.authService.HashJoinSecret(req.JoinSecret)
		if err != nil {
			WriteError(w, NewInternalError())
			return
		}
		provider.JoinSecretHash = hash
	}

	if err := h.storage.SaveProvider(r.Context(), provider); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ProviderFromModel(provider))
}

// List handles GET /api/v1/providers
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		WriteError(w, err)
		return
	}

	providers, err := h.storage.ListProviders(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Provider, len(providers))
	for i, p := range providers {
		out[i] = response.ProviderFromModel(p)
	}

	response.JSON(w, http.StatusOK, response.ProviderList{Providers: out})
}

// Delete handles DELETE /api/v1/providers/{id}
func (h *ProviderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		WriteError(w, err)
		return
	}

	id := model.ProviderID(mux.Vars(r)["id"])
	if err := h.storage.DeleteProvider(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
