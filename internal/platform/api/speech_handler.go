package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/speech"
)

// SpeechHandler handles the speech preview endpoint
type SpeechHandler struct {
	synthesizer speech.Synthesizer

	// Synthesis costs money per character; one shared limiter covers all
	// editors since previews are interactive and rare.
	limiter *rate.Limiter
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(synthesizer speech.Synthesizer, ratePerSecond float64, burst int) *SpeechHandler {
	if ratePerSecond <= 0 {
		ratePerSecond = 2
	}
	if burst <= 0 {
		burst = 5
	}
	return &SpeechHandler{
		synthesizer: synthesizer,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// Preview handles POST /preview-speech
// @Summary Synthesize preview audio
// @Description Converts prompt text to MP3 audio for the editor's preview button. Text containing a speak tag is synthesized as SSML.
// @Tags Speech
// @Accept json
// @Produce audio/mpeg
// @Param request body speech.Request true "Text, language code and voice"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/preview-speech [post]
func (h *SpeechHandler) Preview(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	if actor.Level == access.LevelNone {
		WriteForbidden(w, "You do not have access to speech preview")
		return
	}

	var req speech.Request
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := speech.Validate(req); err != nil {
		WriteUseCaseError(w, err)
		return
	}

	if !h.limiter.Allow() {
		WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED",
			"Too many preview requests, try again shortly")
		return
	}

	audio, err := h.synthesizer.Synthesize(r.Context(), req)
	if err != nil {
		slog.Error("Failed to synthesize speech",
			"voiceId", req.VoiceID,
			"languageCode", req.LanguageCode,
			"error", err)
		WriteInternalError(w, "Failed to synthesize speech")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Content-Disposition", `inline; filename="preview.mp3"`)
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
