package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/audit"
	"github.com/CXBuilder/flow-config/internal/platform/settings"
)

// SettingsHandler handles the application settings endpoints
type SettingsHandler struct {
	repo     settings.Repository
	recorder audit.Recorder
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(repo settings.Repository, recorder audit.Recorder) *SettingsHandler {
	return &SettingsHandler{
		repo:     repo,
		recorder: recorder,
	}
}

// Routes returns the router for settings endpoints
func (h *SettingsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)
	r.Post("/", h.Update)

	return r
}

// Get handles GET /settings
// @Summary Get application settings
// @Description Returns the editor's locale and voice configuration. Defaults are returned until an administrator saves settings.
// @Tags Settings
// @Produce json
// @Success 200 {object} settings.Settings
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	if actor.Level == access.LevelNone {
		WriteForbidden(w, "You do not have access to settings")
		return
	}

	s, err := h.repo.Get(r.Context())
	if err != nil {
		slog.Error("Failed to get settings", "error", err)
		WriteInternalError(w, "Failed to get settings")
		return
	}
	WriteJSON(w, http.StatusOK, s)
}

// Update handles POST /settings
// @Summary Update application settings
// @Description Replaces the editor's locale and voice configuration. Requires Full access.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body settings.Settings true "Settings document"
// @Success 200 {object} settings.Settings
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/settings [post]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	if !actor.Level.AtLeast(access.LevelFull) {
		WriteForbidden(w, "Updating settings requires Full access")
		return
	}

	var s settings.Settings
	if err := DecodeJSON(r, &s); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := settings.Validate(s); err != nil {
		WriteUseCaseError(w, err)
		return
	}

	if err := h.repo.Put(r.Context(), s, actor.Name()); err != nil {
		slog.Error("Failed to update settings", "error", err)
		WriteInternalError(w, "Failed to update settings")
		return
	}

	h.recorder.Record(r.Context(), audit.Entry{
		EntityType:  audit.EntityTypeSettings,
		EntityID:    settings.ItemID,
		Operation:   audit.OperationUpdateSettings,
		PayloadJSON: audit.MarshalPayload(s),
		Actor:       actor.Name(),
		AccessLevel: actor.Level.String(),
	})

	WriteJSON(w, http.StatusOK, s)
}
