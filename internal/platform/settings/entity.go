package settings

import (
	"regexp"
	"time"

	"github.com/CXBuilder/flow-config/internal/platform/common"
)

// Amazon Polly language code shape, e.g. "en-US", "cmn-CN", "arb".
var localeCodePattern = regexp.MustCompile(`^([a-z]{2,3}(-[A-Z]{2})?(-[A-Z]{3})?|arb)$`)

// Locale describes one language offered by the prompt editor: its code, a
// human-readable name, and the synthesis voices permitted for it.
type Locale struct {
	Code   string   `bson:"code" json:"code"`
	Name   string   `bson:"name" json:"name"`
	Voices []string `bson:"voices" json:"voices"`
}

// Settings is the application-wide editor configuration. It only feeds the
// admin UI's choice lists; the resolver never reads it.
type Settings struct {
	Locales []Locale `bson:"locales" json:"locales"`
}

// Item is the stored singleton wrapper around Settings.
// Collection: settings
type Item struct {
	ID             string    `bson:"_id" json:"id"`
	Settings       Settings  `bson:"settings" json:"settings"`
	LastModified   time.Time `bson:"lastModified" json:"lastModified"`
	LastModifiedBy string    `bson:"lastModifiedBy" json:"lastModifiedBy"`
}

// ItemID is the id of the single settings document.
const ItemID = "application-settings"

// Default returns the settings used before an administrator saves any.
func Default() Settings {
	return Settings{
		Locales: []Locale{
			{
				Code:   "en-US",
				Name:   "English (US)",
				Voices: []string{"Joanna", "Matthew"},
			},
		},
	}
}

// Validate checks the settings document shape.
func Validate(s Settings) *common.UseCaseError {
	if s.Locales == nil {
		return common.ValidationError(common.ErrCodeRequired, "locales is required", nil)
	}
	for _, locale := range s.Locales {
		if locale.Code == "" {
			return common.ValidationError(common.ErrCodeRequired, "Locale code is required", nil)
		}
		if !localeCodePattern.MatchString(locale.Code) {
			return common.ValidationError(common.ErrCodeInvalidFormat,
				"Invalid locale code: "+locale.Code,
				map[string]any{"code": locale.Code})
		}
		if locale.Name == "" {
			return common.ValidationError(common.ErrCodeRequired,
				"Locale name is required", map[string]any{"code": locale.Code})
		}
		if locale.Voices == nil {
			return common.ValidationError(common.ErrCodeRequired,
				"Locale voices is required", map[string]any{"code": locale.Code})
		}
	}
	return nil
}
