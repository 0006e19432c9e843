package api

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/CXBuilder/flow-config/internal/config"
	"github.com/CXBuilder/flow-config/internal/platform/audit"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig"
	"github.com/CXBuilder/flow-config/internal/platform/settings"
	"github.com/CXBuilder/flow-config/internal/platform/speech"
)

// Handlers contains all API handlers
type Handlers struct {
	config *config.Config

	// Repositories
	flowConfigRepo flowconfig.Repository
	settingsRepo   settings.Repository
	auditRecorder  audit.Recorder

	// Individual handlers
	flowConfigHandler *FlowConfigHandler
	settingsHandler   *SettingsHandler
	speechHandler     *SpeechHandler
	runtimeHandler    *RuntimeHandler
	initHandler       *InitHandler
}

// NewHandlers creates all API handlers
func NewHandlers(db *mongo.Database, cfg *config.Config, synthesizer speech.Synthesizer) *Handlers {
	h := &Handlers{
		config: cfg,
	}

	// Repositories
	h.flowConfigRepo = flowconfig.NewRepository(db)
	h.settingsRepo = settings.NewRepository(db)
	h.auditRecorder = audit.NewRecorder(db)

	// Handlers
	h.flowConfigHandler = NewFlowConfigHandler(h.flowConfigRepo, h.auditRecorder)
	h.settingsHandler = NewSettingsHandler(h.settingsRepo, h.auditRecorder)
	h.speechHandler = NewSpeechHandler(synthesizer,
		cfg.Speech.PreviewRatePerSecond, cfg.Speech.PreviewBurst)
	h.runtimeHandler = NewRuntimeHandler(h.flowConfigRepo)
	h.initHandler = NewInitHandler(cfg)

	return h
}

// Flow config handlers

func (h *Handlers) ListFlowConfigs(w http.ResponseWriter, r *http.Request) {
	h.flowConfigHandler.List(w, r)
}

func (h *Handlers) GetFlowConfig(w http.ResponseWriter, r *http.Request) {
	h.flowConfigHandler.Get(w, r)
}

func (h *Handlers) SaveFlowConfig(w http.ResponseWriter, r *http.Request) {
	h.flowConfigHandler.Save(w, r)
}

func (h *Handlers) DeleteFlowConfig(w http.ResponseWriter, r *http.Request) {
	h.flowConfigHandler.Delete(w, r)
}

func (h *Handlers) PreviewFlowConfig(w http.ResponseWriter, r *http.Request) {
	h.flowConfigHandler.Preview(w, r)
}

func (h *Handlers) FlowConfigAudit(w http.ResponseWriter, r *http.Request) {
	h.flowConfigHandler.Audit(w, r)
}

// Settings handlers

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.settingsHandler.Get(w, r)
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	h.settingsHandler.Update(w, r)
}

// Speech handlers

func (h *Handlers) PreviewSpeech(w http.ResponseWriter, r *http.Request) {
	h.speechHandler.Preview(w, r)
}

// Runtime handlers

func (h *Handlers) RuntimeGetConfig(w http.ResponseWriter, r *http.Request) {
	h.runtimeHandler.GetConfig(w, r)
}

// Init handlers

func (h *Handlers) Init(w http.ResponseWriter, r *http.Request) {
	h.initHandler.Get(w, r)
}
