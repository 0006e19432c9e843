package api

import (
	"net/http"

	"github.com/CXBuilder/flow-config/internal/platform/flowconfig"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig/operations"
)

// RuntimeHandler handles the contact-flow runtime endpoint
type RuntimeHandler struct {
	resolveUseCase *operations.ResolveRuntimeConfigUseCase
}

// NewRuntimeHandler creates a new runtime handler
func NewRuntimeHandler(repo flowconfig.Repository) *RuntimeHandler {
	return &RuntimeHandler{
		resolveUseCase: operations.NewResolveRuntimeConfigUseCase(repo),
	}
}

// GetConfig handles GET /runtime/get-config
// @Summary Resolve a configuration for the contact-flow runtime
// @Description Returns the flat string map a contact flow consumes. Language defaults to en-US and channel to voice; the channel is case-insensitive.
// @Tags Runtime
// @Produce json
// @Param id query string true "Configuration ID"
// @Param lang query string false "Language tag, e.g. en-US"
// @Param channel query string false "voice or chat"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse "Resolved response exceeds size limit"
// @Failure 500 {object} ErrorResponse
// @Security RuntimeKeyAuth
// @Router /runtime/get-config [get]
func (h *RuntimeHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cmd := operations.ResolveRuntimeConfigCommand{
		ID:       r.URL.Query().Get("id"),
		Language: r.URL.Query().Get("lang"),
		Channel:  r.URL.Query().Get("channel"),
	}

	result := h.resolveUseCase.Execute(r.Context(), cmd)
	WriteUseCaseResult(w, result, http.StatusOK)
}
