// Package speech provides text-to-speech synthesis for the prompt editor's
// preview button. Synthesis is interactive-only; the resolver never calls it.
package speech

import (
	"context"
	"regexp"
	"strings"

	"github.com/CXBuilder/flow-config/internal/platform/common"
)

// MaxTextLength is the longest text accepted for a preview request.
const MaxTextLength = 3000

var previewLanguagePattern = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)

// Request is one speech preview request.
type Request struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
	VoiceID      string `json:"voiceId"`
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize returns MP3 audio for the given request.
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// Validate checks a preview request before it reaches the synthesizer.
func Validate(req Request) *common.UseCaseError {
	if req.Text == "" || req.LanguageCode == "" || req.VoiceID == "" {
		return common.ValidationError(common.ErrCodeRequired,
			"Missing required fields: text, languageCode, voiceId", nil)
	}
	if len(req.Text) > MaxTextLength {
		return common.ValidationError(common.ErrCodeInvalidValue,
			"Text exceeds maximum length of 3000 characters",
			map[string]any{"length": len(req.Text), "limit": MaxTextLength})
	}
	if !previewLanguagePattern.MatchString(req.LanguageCode) {
		return common.ValidationError(common.ErrCodeInvalidFormat,
			"Invalid language code format. Expected format: en-US",
			map[string]any{"languageCode": req.LanguageCode})
	}
	return nil
}

// IsSSML reports whether the text should be synthesized as SSML rather than
// plain text. Editors wrap SSML prompts in a <speak> root.
func IsSSML(text string) bool {
	return strings.Contains(text, "<speak>")
}
