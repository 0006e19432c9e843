package operations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/audit"
	"github.com/CXBuilder/flow-config/internal/platform/common"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig"
)

// DocumentSizeLimit is the maximum serialized size of a stored configuration.
// Keeps documents under the storage item ceiling with some buffer.
const DocumentSizeLimit = 380000

// SaveFlowConfigCommand contains the data needed to create or update a
// flow configuration. The id always comes from the URL path; an id inside
// the document body is overwritten.
type SaveFlowConfigCommand struct {
	ID     string
	Config *flowconfig.FlowConfig

	// ExpectedVersion, when set, must match the stored document's version.
	// Empty means the caller opted out of the conflict check.
	ExpectedVersion string
}

// SaveFlowConfigResult reports whether the save created a new document.
type SaveFlowConfigResult struct {
	Config  *flowconfig.FlowConfig
	Created bool
}

// SaveFlowConfigUseCase handles creating and updating flow configurations
type SaveFlowConfigUseCase struct {
	repo     flowconfig.Repository
	recorder audit.Recorder
}

// NewSaveFlowConfigUseCase creates a new SaveFlowConfigUseCase
func NewSaveFlowConfigUseCase(repo flowconfig.Repository, recorder audit.Recorder) *SaveFlowConfigUseCase {
	return &SaveFlowConfigUseCase{
		repo:     repo,
		recorder: recorder,
	}
}

// Execute validates, authorizes, and persists the proposed document.
func (uc *SaveFlowConfigUseCase) Execute(
	ctx context.Context,
	cmd SaveFlowConfigCommand,
	actor access.Actor,
) common.Result[SaveFlowConfigResult] {
	cfg := cmd.Config
	if cfg == nil {
		return common.Failure[SaveFlowConfigResult](
			common.ValidationError(common.ErrCodeRequired, "Request body required", nil))
	}
	cfg = cfg.Clone()
	cfg.ID = cmd.ID

	if err := validateConfig(cfg); err != nil {
		return common.Failure[SaveFlowConfigResult](err)
	}

	if size := cfg.SerializedSize(); size > DocumentSizeLimit {
		return common.Failure[SaveFlowConfigResult](
			common.PayloadTooLargeError(common.ErrCodeDocumentTooLarge,
				"Flow config exceeds maximum size limit",
				map[string]any{"size": size, "limit": DocumentSizeLimit}))
	}

	existing, err := uc.repo.FindByID(ctx, cfg.ID)
	if err != nil {
		return common.Failure[SaveFlowConfigResult](
			common.InternalError(common.ErrCodeStorageFailure,
				"Failed to load flow config", map[string]any{"error": err.Error()}))
	}

	if _, denied := flowconfig.AuthorizeWrite(existing, cfg, actor.Level); denied != nil {
		return common.Failure[SaveFlowConfigResult](denied)
	}

	if existing != nil && cmd.ExpectedVersion != "" && cmd.ExpectedVersion != existing.Version {
		return common.Failure[SaveFlowConfigResult](
			common.ConcurrencyError(common.ErrCodeVersionConflict,
				"Flow config was modified by another editor",
				map[string]any{"expectedVersion": cmd.ExpectedVersion, "currentVersion": existing.Version}))
	}

	cfg.Version = uuid.NewString()
	cfg.UpdatedAt = time.Now().UTC()
	cfg.UpdatedBy = actor.Name()

	if err := uc.repo.Upsert(ctx, cfg); err != nil {
		return common.Failure[SaveFlowConfigResult](
			common.InternalError(common.ErrCodeStorageFailure,
				"Failed to save flow config", map[string]any{"error": err.Error()}))
	}

	uc.recorder.Record(ctx, audit.Entry{
		EntityType:  audit.EntityTypeFlowConfig,
		EntityID:    cfg.ID,
		Operation:   audit.OperationSaveFlowConfig,
		PayloadJSON: audit.MarshalPayload(cfg),
		Actor:       actor.Name(),
		AccessLevel: actor.Level.String(),
	})

	return common.Success(SaveFlowConfigResult{
		Config:  cfg,
		Created: existing == nil,
	})
}

// validateConfig enforces the write-time document invariants.
func validateConfig(cfg *flowconfig.FlowConfig) *common.UseCaseError {
	if cfg.Description == "" || cfg.Variables == nil || cfg.Prompts == nil {
		return common.ValidationError(common.ErrCodeRequired,
			"Missing required fields: description, variables, prompts", nil)
	}

	for name, langs := range cfg.Prompts {
		if len(langs) == 0 {
			return common.ValidationError(common.ErrCodeInvalidValue,
				"Prompt "+name+" must have at least one language", nil)
		}
		for lang, variant := range langs {
			if variant.Voice == "" {
				return common.ValidationError(common.ErrCodeInvalidValue,
					"Prompt "+name+" for language "+lang+" must have a voice variant",
					map[string]any{"prompt": name, "language": lang})
			}
		}
	}

	for name, schema := range cfg.Schema {
		switch schema.Type {
		case flowconfig.VariableTypeText, flowconfig.VariableTypeNumber,
			flowconfig.VariableTypeBoolean, flowconfig.VariableTypeSelect:
		default:
			return common.ValidationError(common.ErrCodeInvalidValue,
				"Variable "+name+" has an unknown schema type",
				map[string]any{"variable": name, "type": string(schema.Type)})
		}
	}

	return nil
}
