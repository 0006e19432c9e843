package operations

import (
	"context"
	"strings"

	"github.com/CXBuilder/flow-config/internal/common/metrics"
	"github.com/CXBuilder/flow-config/internal/platform/common"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig"
)

// Runtime defaults applied when the contact flow omits a parameter.
const (
	DefaultLanguage = "en-US"
	DefaultChannel  = flowconfig.ChannelVoice
)

// ResolveRuntimeConfigCommand is the contact-flow runtime's request: a
// stored config id plus optional language and channel.
type ResolveRuntimeConfigCommand struct {
	ID       string
	Language string
	Channel  string
}

// ResolveRuntimeConfigUseCase loads and flattens a stored configuration for
// the contact-flow runtime.
type ResolveRuntimeConfigUseCase struct {
	repo flowconfig.Repository
}

// NewResolveRuntimeConfigUseCase creates a new ResolveRuntimeConfigUseCase
func NewResolveRuntimeConfigUseCase(repo flowconfig.Repository) *ResolveRuntimeConfigUseCase {
	return &ResolveRuntimeConfigUseCase{repo: repo}
}

// Execute resolves the stored configuration into the flat map the runtime
// consumes. The runtime cannot tolerate nested structures or errors, so
// missing languages degrade to omitted keys; only a missing document, a
// storage failure, or an oversized response fail the call.
func (uc *ResolveRuntimeConfigUseCase) Execute(
	ctx context.Context,
	cmd ResolveRuntimeConfigCommand,
) common.Result[map[string]string] {
	if cmd.ID == "" {
		return common.Failure[map[string]string](
			common.ValidationError(common.ErrCodeRequired, "Missing required parameter: id", nil))
	}

	language := cmd.Language
	if language == "" {
		language = DefaultLanguage
	}

	// Connect reports the channel in upper case (VOICE, CHAT).
	channel := flowconfig.Channel(strings.ToLower(cmd.Channel))
	if channel == "" {
		channel = DefaultChannel
	}

	cfg, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[map[string]string](
			common.InternalError(common.ErrCodeStorageFailure,
				"Failed to load flow config", map[string]any{"error": err.Error()}))
	}
	if cfg == nil {
		return common.Failure[map[string]string](
			common.NotFoundError(common.ErrCodeConfigNotFound,
				"Flow config not found", map[string]any{"id": cmd.ID}))
	}

	resolved := flowconfig.Resolve(cfg, language, channel)

	size := flowconfig.ResolvedSize(resolved)
	metrics.RuntimeResolveSize.Observe(float64(size))
	if size > flowconfig.RuntimeResponseLimit {
		return common.Failure[map[string]string](
			common.PayloadTooLargeError(common.ErrCodeResponseTooLarge,
				"Resolved config exceeds the runtime response limit",
				map[string]any{"size": size, "limit": flowconfig.RuntimeResponseLimit}))
	}

	return common.Success(resolved)
}
