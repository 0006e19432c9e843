package operations

import (
	"context"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/audit"
	"github.com/CXBuilder/flow-config/internal/platform/common"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig"
)

// DeleteFlowConfigUseCase handles deleting a flow configuration
type DeleteFlowConfigUseCase struct {
	repo     flowconfig.Repository
	recorder audit.Recorder
}

// NewDeleteFlowConfigUseCase creates a new DeleteFlowConfigUseCase
func NewDeleteFlowConfigUseCase(repo flowconfig.Repository, recorder audit.Recorder) *DeleteFlowConfigUseCase {
	return &DeleteFlowConfigUseCase{
		repo:     repo,
		recorder: recorder,
	}
}

// Execute removes the configuration with the given id. Deletion always
// removes the whole document and is reserved for Full-level actors.
func (uc *DeleteFlowConfigUseCase) Execute(
	ctx context.Context,
	id string,
	actor access.Actor,
) common.Result[struct{}] {
	if _, denied := flowconfig.AuthorizeDelete(actor.Level); denied != nil {
		return common.Failure[struct{}](denied)
	}

	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return common.Failure[struct{}](
			common.InternalError(common.ErrCodeStorageFailure,
				"Failed to load flow config", map[string]any{"error": err.Error()}))
	}
	if existing == nil {
		return common.Failure[struct{}](
			common.NotFoundError(common.ErrCodeConfigNotFound,
				"Flow config not found", map[string]any{"id": id}))
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return common.Failure[struct{}](
			common.InternalError(common.ErrCodeStorageFailure,
				"Failed to delete flow config", map[string]any{"error": err.Error()}))
	}

	uc.recorder.Record(ctx, audit.Entry{
		EntityType:  audit.EntityTypeFlowConfig,
		EntityID:    id,
		Operation:   audit.OperationDeleteFlowConfig,
		Actor:       actor.Name(),
		AccessLevel: actor.Level.String(),
	})

	return common.Success(struct{}{})
}
