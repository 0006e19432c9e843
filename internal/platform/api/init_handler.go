package api

import (
	"net/http"

	"github.com/CXBuilder/flow-config/internal/config"
)

// InitResponse is the bootstrap payload the UI fetches before login.
type InitResponse struct {
	Region     string          `json:"region"`
	UserPoolID string          `json:"userPoolId,omitempty"`
	ClientID   string          `json:"clientId,omitempty"`
	Branding   BrandingPayload `json:"branding"`
}

// BrandingPayload carries UI branding configuration.
type BrandingPayload struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// InitHandler serves the unauthenticated UI bootstrap endpoint
type InitHandler struct {
	// Computed once at startup; the payload never changes while running.
	response InitResponse
}

// NewInitHandler creates a new init handler
func NewInitHandler(cfg *config.Config) *InitHandler {
	return &InitHandler{
		response: InitResponse{
			Region:     cfg.AWS.Region,
			UserPoolID: cfg.Auth.UserPoolID,
			ClientID:   cfg.Auth.ClientID,
			Branding: BrandingPayload{
				Name:    cfg.Branding.Name,
				LogoURL: cfg.Branding.LogoURL,
			},
		},
	}
}

// Get handles GET /api/init
// @Summary UI bootstrap configuration
// @Description Returns the region, identity pool details and branding the UI needs before authentication
// @Tags Init
// @Produce json
// @Success 200 {object} InitResponse
// @Router /api/init [get]
func (h *InitHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.response)
}
