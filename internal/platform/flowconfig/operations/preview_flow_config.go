package operations

import (
	"context"
	"regexp"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/common"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig"
)

// Language tags are matched verbatim by the resolver; the preview endpoint
// additionally requires the canonical xx-XX shape so editors catch typos.
var languageTagPattern = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)

// PreviewFlowConfigCommand resolves a caller-supplied document (typically
// unsaved editor state) rather than stored state.
type PreviewFlowConfigCommand struct {
	Config   *flowconfig.FlowConfig `json:"flowConfig"`
	Language string                 `json:"lang"`
	Channel  string                 `json:"channel"`
}

// PreviewFlowConfigUseCase resolves an in-flight document for the editor UI
type PreviewFlowConfigUseCase struct{}

// NewPreviewFlowConfigUseCase creates a new PreviewFlowConfigUseCase
func NewPreviewFlowConfigUseCase() *PreviewFlowConfigUseCase {
	return &PreviewFlowConfigUseCase{}
}

// Execute validates the command and resolves the document.
func (uc *PreviewFlowConfigUseCase) Execute(
	ctx context.Context,
	cmd PreviewFlowConfigCommand,
	actor access.Actor,
) common.Result[map[string]string] {
	if actor.Level == access.LevelNone {
		return common.Failure[map[string]string](
			common.ForbiddenError(common.ErrCodeNoAccess,
				"You do not have access to flow configurations", nil))
	}

	if cmd.Config == nil {
		return common.Failure[map[string]string](
			common.ValidationError(common.ErrCodeRequired, "flowConfig is required", nil))
	}
	if cmd.Language == "" {
		return common.Failure[map[string]string](
			common.ValidationError(common.ErrCodeRequired, "lang is required", nil))
	}
	if cmd.Channel == "" {
		return common.Failure[map[string]string](
			common.ValidationError(common.ErrCodeRequired, "channel is required", nil))
	}

	if !languageTagPattern.MatchString(cmd.Language) {
		return common.Failure[map[string]string](
			common.ValidationError(common.ErrCodeInvalidFormat,
				"Invalid language code format. Expected format: en-US",
				map[string]any{"lang": cmd.Language}))
	}

	channel := flowconfig.Channel(cmd.Channel)
	if !channel.IsValid() {
		return common.Failure[map[string]string](
			common.ValidationError(common.ErrCodeInvalidValue,
				`Invalid channel. Must be "voice" or "chat"`,
				map[string]any{"channel": cmd.Channel}))
	}

	if cmd.Config.ID == "" || cmd.Config.Description == "" ||
		cmd.Config.Variables == nil || cmd.Config.Prompts == nil {
		return common.Failure[map[string]string](
			common.ValidationError(common.ErrCodeRequired,
				"FlowConfig must have id, description, variables, and prompts", nil))
	}

	return common.Success(flowconfig.Resolve(cmd.Config, cmd.Language, channel))
}
