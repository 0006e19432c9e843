package flowconfig

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// RuntimeResponseLimit is the serialized size at which a resolved response is
// considered too large for the contact-flow runtime. The runtime rejects
// payloads near 32KB; this leaves some buffer.
const RuntimeResponseLimit = 30000

var (
	ssmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Resolve flattens a configuration into the single string map the
// contact-flow runtime consumes for the given language and channel.
//
// Variables are copied through verbatim. Each prompt contributes at most one
// key: the chat text for the chat channel when present, otherwise the voice
// text (SSML-stripped for chat). A prompt with no variant for the requested
// language is omitted silently; the runtime tolerates missing keys but not
// errors. Prompts merge after variables, so a prompt name shadows a variable
// of the same name.
//
// Resolve is a pure function of its inputs and never fails.
func Resolve(cfg *FlowConfig, language string, channel Channel) map[string]string {
	slog.Debug("Resolving flow config",
		"configId", cfg.ID,
		"language", language,
		"channel", channel)

	result := make(map[string]string, len(cfg.Variables)+len(cfg.Prompts))
	for name, value := range cfg.Variables {
		result[name] = value
	}

	promptCount := 0
	for name, langs := range cfg.Prompts {
		variant, ok := langs[language]
		if !ok {
			slog.Warn("Language not found for prompt",
				"configId", cfg.ID,
				"prompt", name,
				"language", language)
			continue
		}

		switch {
		case channel == ChannelChat && variant.Chat != "":
			result[name] = variant.Chat
		case variant.Voice != "" && channel == ChannelChat:
			result[name] = StripSSML(variant.Voice)
		case variant.Voice != "":
			result[name] = variant.Voice
		default:
			// No usable content for this language; should not occur given the
			// write-time voice invariant, but tolerated without emitting a key.
			continue
		}
		promptCount++
	}

	size := ResolvedSize(result)
	if size > RuntimeResponseLimit {
		slog.Warn("Resolved response approaching runtime size limit",
			"configId", cfg.ID,
			"responseSize", size,
			"limit", RuntimeResponseLimit)
	}

	slog.Debug("Resolved flow config",
		"configId", cfg.ID,
		"variableCount", len(cfg.Variables),
		"promptCount", promptCount,
		"responseSize", size)

	return result
}

// ResolvedSize returns the length in bytes of the resolved map's JSON
// serialization, so callers can apply transport size policies.
func ResolvedSize(resolved map[string]string) int {
	data, err := json.Marshal(resolved)
	if err != nil {
		return 0
	}
	return len(data)
}

// StripSSML produces a chat-safe plain-text fallback from voice content by
// deleting every <...> tag span, collapsing whitespace runs to a single
// space, and trimming. Purely textual: no parsing, no entity decoding.
func StripSSML(text string) string {
	text = ssmlTagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
