package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/sony/gobreaker"

	"github.com/CXBuilder/flow-config/internal/common/metrics"
)

// PollyClient is the subset of the Polly API the synthesizer uses.
type PollyClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollySynthesizer synthesizes speech via Amazon Polly. Calls go through a
// circuit breaker so a Polly outage degrades previews quickly instead of
// stacking up request timeouts.
type PollySynthesizer struct {
	client  PollyClient
	breaker *gobreaker.CircuitBreaker
}

// NewPollySynthesizer creates a new Polly-backed synthesizer
func NewPollySynthesizer(client PollyClient) *PollySynthesizer {
	return &PollySynthesizer{
		client: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "polly",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < 5 {
					return false
				}
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return failureRatio >= 0.6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				slog.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String())
			},
		}),
	}
}

// Synthesize returns MP3 audio for the request. The neural engine is tried
// first; voices that don't support it fall back to the standard engine.
func (s *PollySynthesizer) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	audio, err := s.breaker.Execute(func() (interface{}, error) {
		data, err := s.synthesizeWithEngine(ctx, req, types.EngineNeural)
		if err == nil {
			slog.Info("Used neural engine for voice synthesis",
				"voiceId", req.VoiceID,
				"languageCode", req.LanguageCode)
			metrics.SpeechSynthesisTotal.WithLabelValues("neural", "ok").Inc()
			return data, nil
		}

		slog.Info("Neural engine not supported, falling back to standard",
			"voiceId", req.VoiceID,
			"languageCode", req.LanguageCode,
			"neuralError", err)

		data, err = s.synthesizeWithEngine(ctx, req, types.EngineStandard)
		if err != nil {
			metrics.SpeechSynthesisTotal.WithLabelValues("standard", "error").Inc()
			return nil, err
		}
		slog.Info("Used standard engine for voice synthesis",
			"voiceId", req.VoiceID,
			"languageCode", req.LanguageCode)
		metrics.SpeechSynthesisTotal.WithLabelValues("standard", "ok").Inc()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return audio.([]byte), nil
}

func (s *PollySynthesizer) synthesizeWithEngine(ctx context.Context, req Request, engine types.Engine) ([]byte, error) {
	textType := types.TextTypeText
	if IsSSML(req.Text) {
		textType = types.TextTypeSsml
	}

	out, err := s.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       engine,
		LanguageCode: types.LanguageCode(req.LanguageCode),
		OutputFormat: types.OutputFormatMp3,
		Text:         aws.String(req.Text),
		TextType:     textType,
		VoiceId:      types.VoiceId(req.VoiceID),
	})
	if err != nil {
		return nil, err
	}
	if out.AudioStream == nil {
		return nil, fmt.Errorf("no audio stream received from polly")
	}
	defer out.AudioStream.Close()

	return io.ReadAll(out.AudioStream)
}
