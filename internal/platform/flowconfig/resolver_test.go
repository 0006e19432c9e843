package flowconfig

import (
	"reflect"
	"testing"
)

func sampleConfig() *FlowConfig {
	return &FlowConfig{
		ID:          "q1",
		Description: "Queue one",
		Variables:   map[string]string{"priority": "high"},
		Prompts: map[string]map[string]PromptVariant{
			"welcome": {
				"en-US": {Voice: "Hi <break/> there", Chat: "Hi there"},
			},
		},
	}
}

func TestResolveChatPrefersChatVariant(t *testing.T) {
	got := Resolve(sampleConfig(), "en-US", ChannelChat)
	want := map[string]string{"priority": "high", "welcome": "Hi there"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve chat = %v, want %v", got, want)
	}
}

func TestResolveVoicePassesSSMLThrough(t *testing.T) {
	got := Resolve(sampleConfig(), "en-US", ChannelVoice)
	want := map[string]string{"priority": "high", "welcome": "Hi <break/> there"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve voice = %v, want %v", got, want)
	}
}

func TestResolveMissingLanguageOmitsPrompt(t *testing.T) {
	got := Resolve(sampleConfig(), "fr-FR", ChannelVoice)
	want := map[string]string{"priority": "high"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve fr-FR = %v, want %v", got, want)
	}
}

func TestResolveUnknownLanguageEqualsVariables(t *testing.T) {
	cfg := &FlowConfig{
		ID:        "vars-only",
		Variables: map[string]string{"a": "1", "b": "2"},
		Prompts: map[string]map[string]PromptVariant{
			"p1": {"en-US": {Voice: "hello"}},
			"p2": {"en-US": {Voice: "world"}},
		},
	}
	got := Resolve(cfg, "de-DE", ChannelVoice)
	if !reflect.DeepEqual(got, cfg.Variables) {
		t.Errorf("Resolve with absent language = %v, want exactly variables %v", got, cfg.Variables)
	}
}

func TestResolveChatFallsBackToStrippedVoice(t *testing.T) {
	cfg := &FlowConfig{
		ID: "no-chat",
		Prompts: map[string]map[string]PromptVariant{
			"hold": {
				"en-US": {Voice: "<speak>Please   hold <break time=\"1s\"/> the line</speak>"},
			},
		},
	}
	got := Resolve(cfg, "en-US", ChannelChat)
	if got["hold"] != "Please hold the line" {
		t.Errorf("chat fallback = %q, want %q", got["hold"], "Please hold the line")
	}

	// Same prompt over the voice channel is untouched.
	voice := Resolve(cfg, "en-US", ChannelVoice)
	if voice["hold"] != "<speak>Please   hold <break time=\"1s\"/> the line</speak>" {
		t.Errorf("voice channel modified SSML: %q", voice["hold"])
	}
}

func TestResolvePromptShadowsVariable(t *testing.T) {
	cfg := &FlowConfig{
		ID:        "shadow",
		Variables: map[string]string{"greeting": "from variable"},
		Prompts: map[string]map[string]PromptVariant{
			"greeting": {"en-US": {Voice: "from prompt"}},
		},
	}
	got := Resolve(cfg, "en-US", ChannelVoice)
	if got["greeting"] != "from prompt" {
		t.Errorf("merge precedence: got %q, want prompt value", got["greeting"])
	}
}

func TestResolveEmptyVariantEmitsNothing(t *testing.T) {
	cfg := &FlowConfig{
		ID: "empty",
		Prompts: map[string]map[string]PromptVariant{
			"broken": {"en-US": {}},
		},
	}
	got := Resolve(cfg, "en-US", ChannelChat)
	if _, ok := got["broken"]; ok {
		t.Error("prompt with no content should be omitted")
	}
}

func TestResolveIsPure(t *testing.T) {
	cfg := sampleConfig()
	first := Resolve(cfg, "en-US", ChannelChat)
	second := Resolve(cfg, "en-US", ChannelChat)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated resolution differs: %v vs %v", first, second)
	}

	// The input document is not mutated by resolution.
	if !reflect.DeepEqual(cfg, sampleConfig()) {
		t.Error("Resolve mutated its input")
	}
}

func TestStripSSML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"single tag", "Hi <break/> there", "Hi there"},
		{"wrapping tags", "<speak>hello</speak>", "hello"},
		{"attributes", `<prosody rate="slow">slow down</prosody>`, "slow down"},
		{"whitespace collapse", "a   b\t\nc", "a b c"},
		{"leading and trailing", "  <p>trimmed</p>  ", "trimmed"},
		{"no entity decoding", "Tom &amp; Jerry", "Tom &amp; Jerry"},
		{"empty after strip", "<break/>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripSSML(tt.in); got != tt.want {
				t.Errorf("StripSSML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolvedSize(t *testing.T) {
	size := ResolvedSize(map[string]string{"a": "b"})
	if size != len(`{"a":"b"}`) {
		t.Errorf("ResolvedSize = %d, want %d", size, len(`{"a":"b"}`))
	}
	if ResolvedSize(map[string]string{}) != 2 {
		t.Errorf("empty map should serialize to {}")
	}
}
