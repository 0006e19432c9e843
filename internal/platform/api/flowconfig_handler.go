package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/audit"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig/operations"
)

// FlowConfigHandler handles flow configuration endpoints
type FlowConfigHandler struct {
	repo     flowconfig.Repository
	recorder audit.Recorder

	saveUseCase    *operations.SaveFlowConfigUseCase
	deleteUseCase  *operations.DeleteFlowConfigUseCase
	previewUseCase *operations.PreviewFlowConfigUseCase
}

// NewFlowConfigHandler creates a new flow configuration handler
func NewFlowConfigHandler(repo flowconfig.Repository, recorder audit.Recorder) *FlowConfigHandler {
	return &FlowConfigHandler{
		repo:           repo,
		recorder:       recorder,
		saveUseCase:    operations.NewSaveFlowConfigUseCase(repo, recorder),
		deleteUseCase:  operations.NewDeleteFlowConfigUseCase(repo, recorder),
		previewUseCase: operations.NewPreviewFlowConfigUseCase(),
	}
}

// Routes returns the router for flow configuration endpoints
func (h *FlowConfigHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/preview", h.Preview)
	r.Get("/{id}", h.Get)
	r.Post("/{id}", h.Save)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/audit", h.Audit)

	return r
}

// List handles GET /flow-configs
// @Summary List flow configurations
// @Description Returns id, description and the caller's access level for each configuration, optionally filtered by id prefix
// @Tags Flow Configs
// @Produce json
// @Param pattern query string false "Filter by id prefix"
// @Success 200 {object} flowconfig.List
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/flow-configs [get]
func (h *FlowConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	if actor.Level == access.LevelNone {
		WriteForbidden(w, "You do not have access to flow configurations")
		return
	}

	configs, err := h.repo.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to list flow configs", "error", err)
		WriteInternalError(w, "Failed to list flow configs")
		return
	}

	pattern := r.URL.Query().Get("pattern")

	items := make([]flowconfig.Summary, 0, len(configs))
	for _, cfg := range configs {
		if pattern != "" && !strings.HasPrefix(cfg.ID, pattern) {
			continue
		}
		items = append(items, flowconfig.Summary{
			ID:          cfg.ID,
			Description: cfg.Description,
			AccessLevel: actor.Level.String(),
		})
	}

	WriteJSON(w, http.StatusOK, flowconfig.List{Items: items})
}

// Get handles GET /flow-configs/{id}
// @Summary Get a flow configuration
// @Description Returns the full configuration document
// @Tags Flow Configs
// @Produce json
// @Param id path string true "Configuration ID"
// @Success 200 {object} flowconfig.FlowConfig
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/flow-configs/{id} [get]
func (h *FlowConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	if actor.Level == access.LevelNone {
		WriteForbidden(w, "You do not have access to flow configurations")
		return
	}

	id := chi.URLParam(r, "id")

	cfg, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get flow config", "error", err, "id", id)
		WriteInternalError(w, "Failed to get flow config")
		return
	}
	if cfg == nil {
		WriteNotFound(w, "Flow config not found")
		return
	}
	WriteJSON(w, http.StatusOK, cfg)
}

// Save handles POST /flow-configs/{id}
// @Summary Create or update a flow configuration
// @Description Creates or replaces a configuration. Creation requires Full access; Edit-level actors may only change values of existing entries. A version carried in the body enables the optimistic conflict check.
// @Tags Flow Configs
// @Accept json
// @Produce json
// @Param id path string true "Configuration ID"
// @Param request body flowconfig.FlowConfig true "Configuration document"
// @Success 200 {object} flowconfig.FlowConfig
// @Success 201 {object} flowconfig.FlowConfig
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Modified by another writer"
// @Failure 413 {object} ErrorResponse "Document exceeds size limit"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/flow-configs/{id} [post]
func (h *FlowConfigHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var cfg flowconfig.FlowConfig
	if err := DecodeJSON(r, &cfg); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	cmd := operations.SaveFlowConfigCommand{
		ID:     id,
		Config: &cfg,
		// The version the editor loaded travels back in the body.
		ExpectedVersion: cfg.Version,
	}

	result := h.saveUseCase.Execute(r.Context(), cmd, GetActor(r.Context()))
	if result.IsFailure() {
		WriteUseCaseError(w, result.Error())
		return
	}

	status := http.StatusOK
	if result.Value().Created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, result.Value().Config)
}

// Delete handles DELETE /flow-configs/{id}
// @Summary Delete a flow configuration
// @Description Removes a configuration. Requires Full access.
// @Tags Flow Configs
// @Param id path string true "Configuration ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/flow-configs/{id} [delete]
func (h *FlowConfigHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result := h.deleteUseCase.Execute(r.Context(), id, GetActor(r.Context()))
	if result.IsFailure() {
		WriteUseCaseError(w, result.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles POST /flow-configs/preview
// @Summary Preview a resolved configuration
// @Description Resolves a caller-supplied (possibly unsaved) document for one language and channel
// @Tags Flow Configs
// @Accept json
// @Produce json
// @Param request body operations.PreviewFlowConfigCommand true "Document, language and channel"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/flow-configs/preview [post]
func (h *FlowConfigHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var cmd operations.PreviewFlowConfigCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	result := h.previewUseCase.Execute(r.Context(), cmd, GetActor(r.Context()))
	WriteUseCaseResult(w, result, http.StatusOK)
}

// Audit handles GET /flow-configs/{id}/audit
// @Summary List audit entries for a configuration
// @Description Returns the most recent changes to a configuration, newest first. Requires Full access.
// @Tags Flow Configs
// @Produce json
// @Param id path string true "Configuration ID"
// @Success 200 {array} audit.Entry
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/flow-configs/{id}/audit [get]
func (h *FlowConfigHandler) Audit(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	if !actor.Level.AtLeast(access.LevelFull) {
		WriteForbidden(w, "Audit history requires Full access")
		return
	}

	id := chi.URLParam(r, "id")

	entries, err := h.recorder.FindByEntity(r.Context(), audit.EntityTypeFlowConfig, id, 50)
	if err != nil {
		slog.Error("Failed to list audit entries", "error", err, "id", id)
		WriteInternalError(w, "Failed to list audit entries")
		return
	}
	if entries == nil {
		entries = []*audit.Entry{}
	}
	WriteJSON(w, http.StatusOK, entries)
}
