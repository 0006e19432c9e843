package flowconfig

import (
	"fmt"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/common"
)

// AuthorizeWrite decides whether an actor may persist the proposed document.
//
// Full-level actors may create, replace, or reshape configurations freely.
// Edit-level actors may only update existing configurations, and only in ways
// that cannot remove a key the runtime's flattening contract may depend on:
// value changes to existing variables and prompt text, plus additions of new
// languages or chat variants to existing prompts. Any change to the set of
// variable names, prompt names, or existing prompt languages, or to the
// description, is a structural change reserved for Full.
//
// Every denial carries a distinct code (NO_ACCESS, INSUFFICIENT_LEVEL,
// STRUCTURAL_CHANGE) so the transport can produce an actionable message.
// On success the authorized level is returned.
func AuthorizeWrite(existing, proposed *FlowConfig, level access.Level) (access.Level, *common.UseCaseError) {
	if level == access.LevelNone {
		return access.LevelNone, common.ForbiddenError(common.ErrCodeNoAccess,
			"You do not have access to flow configurations", nil)
	}

	if existing == nil {
		if level != access.LevelFull {
			return access.LevelNone, common.ForbiddenError(common.ErrCodeInsufficientLevel,
				"Creating a flow configuration requires Full access",
				map[string]any{"requiredLevel": access.LevelFull.String(), "actorLevel": level.String()})
		}
		return access.LevelFull, nil
	}

	if !level.AtLeast(access.LevelEdit) {
		return access.LevelNone, common.ForbiddenError(common.ErrCodeInsufficientLevel,
			"Updating a flow configuration requires Edit access",
			map[string]any{"requiredLevel": access.LevelEdit.String(), "actorLevel": level.String()})
	}

	// Full skips the structural gate entirely.
	if level == access.LevelFull {
		return access.LevelFull, nil
	}

	if err := checkStructure(existing, proposed); err != nil {
		return access.LevelNone, err
	}
	return level, nil
}

// AuthorizeDelete decides whether an actor may delete a configuration.
// Deletion removes the whole document and is reserved for Full.
func AuthorizeDelete(level access.Level) (access.Level, *common.UseCaseError) {
	if level == access.LevelNone {
		return access.LevelNone, common.ForbiddenError(common.ErrCodeNoAccess,
			"You do not have access to flow configurations", nil)
	}
	if level != access.LevelFull {
		return access.LevelNone, common.ForbiddenError(common.ErrCodeInsufficientLevel,
			"Deleting a flow configuration requires Full access",
			map[string]any{"requiredLevel": access.LevelFull.String(), "actorLevel": level.String()})
	}
	return access.LevelFull, nil
}

// checkStructure verifies that the proposed document differs from the
// existing one in values only.
func checkStructure(existing, proposed *FlowConfig) *common.UseCaseError {
	if existing.Description != proposed.Description {
		return structuralChange("description", "Changing the description requires Full access")
	}

	if !sameKeySet(existing.Variables, proposed.Variables) {
		return structuralChange("variables", "Adding or removing variables requires Full access")
	}

	if !samePromptSet(existing.Prompts, proposed.Prompts) {
		return structuralChange("prompts", "Adding or removing prompts requires Full access")
	}

	// Languages may be added to a prompt but never removed: removal could
	// break a contact flow that reads the key for that language today.
	for name, langs := range existing.Prompts {
		proposedLangs := proposed.Prompts[name]
		for lang := range langs {
			if _, ok := proposedLangs[lang]; !ok {
				return structuralChange(
					fmt.Sprintf("language removed: %s from %s", lang, name),
					fmt.Sprintf("Removing language %s from prompt %s requires Full access", lang, name))
			}
		}
	}

	return nil
}

func structuralChange(field, message string) *common.UseCaseError {
	return common.ForbiddenError(common.ErrCodeStructuralChange, message,
		map[string]any{"field": field})
}

func sameKeySet(a map[string]string, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func samePromptSet(a, b map[string]map[string]PromptVariant) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
