package speech

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
)

// mockPolly records the engines it was called with and can fail per engine
type mockPolly struct {
	neuralErr   error
	standardErr error
	engines     []types.Engine
	textTypes   []types.TextType
}

func (m *mockPolly) SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error) {
	m.engines = append(m.engines, params.Engine)
	m.textTypes = append(m.textTypes, params.TextType)

	switch params.Engine {
	case types.EngineNeural:
		if m.neuralErr != nil {
			return nil, m.neuralErr
		}
	case types.EngineStandard:
		if m.standardErr != nil {
			return nil, m.standardErr
		}
	}
	return &polly.SynthesizeSpeechOutput{
		AudioStream: io.NopCloser(bytes.NewReader([]byte("mp3-bytes"))),
	}, nil
}

func TestValidate(t *testing.T) {
	ok := Request{Text: "Hello", LanguageCode: "en-US", VoiceID: "Joanna"}
	if err := Validate(ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	tests := []struct {
		name string
		req  Request
	}{
		{"missing text", Request{LanguageCode: "en-US", VoiceID: "Joanna"}},
		{"missing language", Request{Text: "Hi", VoiceID: "Joanna"}},
		{"missing voice", Request{Text: "Hi", LanguageCode: "en-US"}},
		{"bad language format", Request{Text: "Hi", LanguageCode: "english", VoiceID: "Joanna"}},
		{"text too long", Request{Text: strings.Repeat("a", MaxTextLength+1), LanguageCode: "en-US", VoiceID: "Joanna"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.req); err == nil {
				t.Errorf("expected validation failure for %s", tt.name)
			}
		})
	}
}

func TestIsSSML(t *testing.T) {
	if !IsSSML("<speak>Hello</speak>") {
		t.Error("speak-wrapped text should be detected as SSML")
	}
	if IsSSML("Hello <break/> there") {
		t.Error("inline tags without a speak root are sent as plain text")
	}
}

func TestSynthesizeNeural(t *testing.T) {
	mock := &mockPolly{}
	s := NewPollySynthesizer(mock)

	audio, err := s.Synthesize(context.Background(), Request{
		Text: "Hello", LanguageCode: "en-US", VoiceID: "Joanna",
	})
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
	if len(mock.engines) != 1 || mock.engines[0] != types.EngineNeural {
		t.Errorf("engines = %v, want single neural call", mock.engines)
	}
	if mock.textTypes[0] != types.TextTypeText {
		t.Errorf("plain text sent as %v", mock.textTypes[0])
	}
}

func TestSynthesizeStandardFallback(t *testing.T) {
	mock := &mockPolly{neuralErr: errors.New("ValidationException: engine not supported")}
	s := NewPollySynthesizer(mock)

	audio, err := s.Synthesize(context.Background(), Request{
		Text: "<speak>Hello</speak>", LanguageCode: "en-US", VoiceID: "Raveena",
	})
	if err != nil {
		t.Fatalf("fallback synthesize failed: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
	if len(mock.engines) != 2 || mock.engines[0] != types.EngineNeural || mock.engines[1] != types.EngineStandard {
		t.Errorf("engines = %v, want neural then standard", mock.engines)
	}
	for _, tt := range mock.textTypes {
		if tt != types.TextTypeSsml {
			t.Errorf("speak-wrapped text sent as %v", tt)
		}
	}
}

func TestSynthesizeBothEnginesFail(t *testing.T) {
	mock := &mockPolly{
		neuralErr:   errors.New("neural down"),
		standardErr: errors.New("standard down"),
	}
	s := NewPollySynthesizer(mock)

	if _, err := s.Synthesize(context.Background(), Request{
		Text: "Hello", LanguageCode: "en-US", VoiceID: "Joanna",
	}); err == nil {
		t.Fatal("expected error when both engines fail")
	}
}
