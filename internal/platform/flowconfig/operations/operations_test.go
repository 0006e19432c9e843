package operations

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/audit"
	"github.com/CXBuilder/flow-config/internal/platform/common"
	"github.com/CXBuilder/flow-config/internal/platform/flowconfig"
)

// MockRepository implements a mock flowconfig repository for testing
type MockRepository struct {
	configs   map[string]*flowconfig.FlowConfig
	findErr   error
	upsertErr error
	deleteErr error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		configs: make(map[string]*flowconfig.FlowConfig),
	}
}

func (m *MockRepository) FindAll(ctx context.Context) ([]*flowconfig.FlowConfig, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	result := make([]*flowconfig.FlowConfig, 0, len(m.configs))
	for _, c := range m.configs {
		result = append(result, c)
	}
	return result, nil
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*flowconfig.FlowConfig, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.configs[id], nil
}

func (m *MockRepository) Upsert(ctx context.Context, cfg *flowconfig.FlowConfig) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.configs[cfg.ID] = cfg
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.configs, id)
	return nil
}

// MockRecorder captures audit entries for assertions
type MockRecorder struct {
	entries []audit.Entry
}

func (m *MockRecorder) Record(ctx context.Context, entry audit.Entry) {
	m.entries = append(m.entries, entry)
}

func (m *MockRecorder) FindByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]*audit.Entry, error) {
	return nil, nil
}

func validConfig(id string) *flowconfig.FlowConfig {
	return &flowconfig.FlowConfig{
		ID:          id,
		Description: "Support queue",
		Variables:   map[string]string{"priority": "high"},
		Prompts: map[string]map[string]flowconfig.PromptVariant{
			"welcome": {
				"en-US": {Voice: "Hi <break/> there", Chat: "Hi there"},
			},
		},
	}
}

func fullActor() access.Actor {
	return access.Actor{Subject: "admin-sub", Username: "admin", Level: access.LevelFull}
}

func editActor() access.Actor {
	return access.Actor{Subject: "editor-sub", Username: "editor", Level: access.LevelEdit}
}

func TestSaveFlowConfigCreate(t *testing.T) {
	repo := NewMockRepository()
	recorder := &MockRecorder{}
	uc := NewSaveFlowConfigUseCase(repo, recorder)

	result := uc.Execute(context.Background(), SaveFlowConfigCommand{
		ID:     "q1",
		Config: validConfig("ignored"),
	}, fullActor())

	if result.IsFailure() {
		t.Fatalf("create failed: %v", result.Error())
	}
	if !result.Value().Created {
		t.Error("expected Created=true on first save")
	}

	saved := repo.configs["q1"]
	if saved == nil {
		t.Fatal("document not stored under path id")
	}
	if saved.ID != "q1" {
		t.Errorf("body id should be overwritten by path id, got %q", saved.ID)
	}
	if saved.Version == "" {
		t.Error("saved document should carry a version token")
	}
	if saved.UpdatedBy != "admin" {
		t.Errorf("UpdatedBy = %q, want admin", saved.UpdatedBy)
	}

	if len(recorder.entries) != 1 || recorder.entries[0].Operation != audit.OperationSaveFlowConfig {
		t.Errorf("expected one SaveFlowConfig audit entry, got %v", recorder.entries)
	}
}

func TestSaveFlowConfigCreateRequiresFull(t *testing.T) {
	uc := NewSaveFlowConfigUseCase(NewMockRepository(), &MockRecorder{})

	result := uc.Execute(context.Background(), SaveFlowConfigCommand{
		ID:     "q1",
		Config: validConfig("q1"),
	}, editActor())

	if result.IsSuccess() {
		t.Fatal("expected create as Edit to be denied")
	}
	if result.Error().Code != common.ErrCodeInsufficientLevel {
		t.Errorf("denial code = %s, want INSUFFICIENT_LEVEL", result.Error().Code)
	}
}

func TestSaveFlowConfigUpdateAsEdit(t *testing.T) {
	repo := NewMockRepository()
	repo.configs["q1"] = validConfig("q1")
	uc := NewSaveFlowConfigUseCase(repo, &MockRecorder{})

	proposed := validConfig("q1")
	proposed.Variables["priority"] = "low"

	result := uc.Execute(context.Background(), SaveFlowConfigCommand{ID: "q1", Config: proposed}, editActor())
	if result.IsFailure() {
		t.Fatalf("value edit denied: %v", result.Error())
	}
	if result.Value().Created {
		t.Error("expected Created=false on update")
	}

	structural := validConfig("q1")
	structural.Variables["extra"] = "x"
	result = uc.Execute(context.Background(), SaveFlowConfigCommand{ID: "q1", Config: structural}, editActor())
	if result.IsSuccess() || result.Error().Code != common.ErrCodeStructuralChange {
		t.Errorf("structural edit should be denied with STRUCTURAL_CHANGE, got %v", result.Error())
	}
}

func TestSaveFlowConfigValidation(t *testing.T) {
	uc := NewSaveFlowConfigUseCase(NewMockRepository(), &MockRecorder{})

	missingVoice := validConfig("q1")
	missingVoice.Prompts["welcome"]["fr-FR"] = flowconfig.PromptVariant{Chat: "Salut"}

	result := uc.Execute(context.Background(), SaveFlowConfigCommand{ID: "q1", Config: missingVoice}, fullActor())
	if result.IsSuccess() {
		t.Fatal("prompt without voice should fail validation")
	}
	if result.Error().Kind != common.ErrorKindValidation {
		t.Errorf("error kind = %v, want validation", result.Error().Kind)
	}

	noBody := uc.Execute(context.Background(), SaveFlowConfigCommand{ID: "q1"}, fullActor())
	if noBody.IsSuccess() || noBody.Error().Kind != common.ErrorKindValidation {
		t.Error("nil config should fail validation")
	}

	incomplete := &flowconfig.FlowConfig{ID: "q1", Description: "d"}
	result = uc.Execute(context.Background(), SaveFlowConfigCommand{ID: "q1", Config: incomplete}, fullActor())
	if result.IsSuccess() {
		t.Error("config without variables/prompts should fail validation")
	}
}

func TestSaveFlowConfigSizeLimit(t *testing.T) {
	uc := NewSaveFlowConfigUseCase(NewMockRepository(), &MockRecorder{})

	big := validConfig("q1")
	big.Variables["blob"] = strings.Repeat("x", DocumentSizeLimit)

	result := uc.Execute(context.Background(), SaveFlowConfigCommand{ID: "q1", Config: big}, fullActor())
	if result.IsSuccess() {
		t.Fatal("oversized document should be rejected")
	}
	if result.Error().Kind != common.ErrorKindPayloadTooLarge {
		t.Errorf("error kind = %v, want payload too large", result.Error().Kind)
	}
}

func TestSaveFlowConfigVersionConflict(t *testing.T) {
	repo := NewMockRepository()
	stored := validConfig("q1")
	stored.Version = "v-current"
	repo.configs["q1"] = stored
	uc := NewSaveFlowConfigUseCase(repo, &MockRecorder{})

	stale := uc.Execute(context.Background(), SaveFlowConfigCommand{
		ID:              "q1",
		Config:          validConfig("q1"),
		ExpectedVersion: "v-stale",
	}, fullActor())
	if stale.IsSuccess() || stale.Error().Code != common.ErrCodeVersionConflict {
		t.Errorf("stale version should conflict, got %v", stale.Error())
	}

	matching := uc.Execute(context.Background(), SaveFlowConfigCommand{
		ID:              "q1",
		Config:          validConfig("q1"),
		ExpectedVersion: "v-current",
	}, fullActor())
	if matching.IsFailure() {
		t.Fatalf("matching version rejected: %v", matching.Error())
	}
	if repo.configs["q1"].Version == "v-current" {
		t.Error("version should be regenerated on write")
	}

	// Callers that never read a version keep last-write-wins behavior.
	unversioned := uc.Execute(context.Background(), SaveFlowConfigCommand{
		ID:     "q1",
		Config: validConfig("q1"),
	}, fullActor())
	if unversioned.IsFailure() {
		t.Fatalf("unversioned save rejected: %v", unversioned.Error())
	}
}

func TestDeleteFlowConfig(t *testing.T) {
	repo := NewMockRepository()
	repo.configs["q1"] = validConfig("q1")
	recorder := &MockRecorder{}
	uc := NewDeleteFlowConfigUseCase(repo, recorder)

	denied := uc.Execute(context.Background(), "q1", editActor())
	if denied.IsSuccess() || denied.Error().Code != common.ErrCodeInsufficientLevel {
		t.Errorf("delete as Edit should be denied, got %v", denied.Error())
	}

	missing := uc.Execute(context.Background(), "nope", fullActor())
	if missing.IsSuccess() || missing.Error().Kind != common.ErrorKindNotFound {
		t.Errorf("missing config should 404, got %v", missing.Error())
	}

	ok := uc.Execute(context.Background(), "q1", fullActor())
	if ok.IsFailure() {
		t.Fatalf("delete as Full failed: %v", ok.Error())
	}
	if _, exists := repo.configs["q1"]; exists {
		t.Error("document not deleted")
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Operation != audit.OperationDeleteFlowConfig {
		t.Errorf("expected one DeleteFlowConfig audit entry, got %v", recorder.entries)
	}
}

func TestPreviewFlowConfig(t *testing.T) {
	uc := NewPreviewFlowConfigUseCase()
	readActor := access.Actor{Subject: "reader", Level: access.LevelRead}

	result := uc.Execute(context.Background(), PreviewFlowConfigCommand{
		Config:   validConfig("q1"),
		Language: "en-US",
		Channel:  "chat",
	}, readActor)
	if result.IsFailure() {
		t.Fatalf("preview failed: %v", result.Error())
	}
	want := map[string]string{"priority": "high", "welcome": "Hi there"}
	if !reflect.DeepEqual(result.Value(), want) {
		t.Errorf("preview = %v, want %v", result.Value(), want)
	}

	badLang := uc.Execute(context.Background(), PreviewFlowConfigCommand{
		Config:   validConfig("q1"),
		Language: "english",
		Channel:  "voice",
	}, readActor)
	if badLang.IsSuccess() || badLang.Error().Kind != common.ErrorKindValidation {
		t.Error("malformed language tag should fail validation")
	}

	badChannel := uc.Execute(context.Background(), PreviewFlowConfigCommand{
		Config:   validConfig("q1"),
		Language: "en-US",
		Channel:  "sms",
	}, readActor)
	if badChannel.IsSuccess() || badChannel.Error().Kind != common.ErrorKindValidation {
		t.Error("unknown channel should fail validation")
	}

	noAccess := uc.Execute(context.Background(), PreviewFlowConfigCommand{
		Config:   validConfig("q1"),
		Language: "en-US",
		Channel:  "voice",
	}, access.Actor{Level: access.LevelNone})
	if noAccess.IsSuccess() || noAccess.Error().Code != common.ErrCodeNoAccess {
		t.Error("preview without access should be denied with NO_ACCESS")
	}
}

func TestResolveRuntimeConfig(t *testing.T) {
	repo := NewMockRepository()
	repo.configs["q1"] = validConfig("q1")
	uc := NewResolveRuntimeConfigUseCase(repo)

	result := uc.Execute(context.Background(), ResolveRuntimeConfigCommand{ID: "q1"})
	if result.IsFailure() {
		t.Fatalf("runtime resolve failed: %v", result.Error())
	}
	// Defaults: en-US voice.
	want := map[string]string{"priority": "high", "welcome": "Hi <break/> there"}
	if !reflect.DeepEqual(result.Value(), want) {
		t.Errorf("runtime resolve = %v, want %v", result.Value(), want)
	}

	// Connect reports the channel upper case.
	chat := uc.Execute(context.Background(), ResolveRuntimeConfigCommand{ID: "q1", Channel: "CHAT"})
	if chat.IsFailure() || chat.Value()["welcome"] != "Hi there" {
		t.Errorf("uppercase channel should normalize to chat, got %v", chat.Value())
	}

	missing := uc.Execute(context.Background(), ResolveRuntimeConfigCommand{ID: "absent"})
	if missing.IsSuccess() || missing.Error().Kind != common.ErrorKindNotFound {
		t.Error("absent config should 404")
	}

	noID := uc.Execute(context.Background(), ResolveRuntimeConfigCommand{})
	if noID.IsSuccess() || noID.Error().Kind != common.ErrorKindValidation {
		t.Error("missing id should fail validation")
	}
}

func TestResolveRuntimeConfigResponseCeiling(t *testing.T) {
	repo := NewMockRepository()
	big := validConfig("q1")
	big.Variables["blob"] = strings.Repeat("x", flowconfig.RuntimeResponseLimit+1)
	repo.configs["q1"] = big
	uc := NewResolveRuntimeConfigUseCase(repo)

	result := uc.Execute(context.Background(), ResolveRuntimeConfigCommand{ID: "q1"})
	if result.IsSuccess() {
		t.Fatal("oversized resolved response should be rejected")
	}
	if result.Error().Code != common.ErrCodeResponseTooLarge {
		t.Errorf("error code = %s, want RESPONSE_TOO_LARGE", result.Error().Code)
	}
}

func TestStorageFailuresSurfaceAsInternal(t *testing.T) {
	repo := NewMockRepository()
	repo.findErr = errors.New("connection reset")

	save := NewSaveFlowConfigUseCase(repo, &MockRecorder{})
	result := save.Execute(context.Background(), SaveFlowConfigCommand{ID: "q1", Config: validConfig("q1")}, fullActor())
	if result.IsSuccess() || result.Error().Kind != common.ErrorKindInternal {
		t.Errorf("storage failure should surface as internal, got %v", result.Error())
	}

	runtime := NewResolveRuntimeConfigUseCase(repo)
	rr := runtime.Execute(context.Background(), ResolveRuntimeConfigCommand{ID: "q1"})
	if rr.IsSuccess() || rr.Error().Kind != common.ErrorKindInternal {
		t.Errorf("storage failure should surface as internal, got %v", rr.Error())
	}
}
