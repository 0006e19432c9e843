package flowconfig

import (
	"context"

	"github.com/CXBuilder/flow-config/internal/common/repository"
)

const collectionName = "flow_configs"

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

// newInstrumentedRepository creates an instrumented wrapper around a Repository
func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*FlowConfig, error) {
	return repository.Instrument(ctx, collectionName, "FindAll", func() ([]*FlowConfig, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*FlowConfig, error) {
	return repository.Instrument(ctx, collectionName, "FindByID", func() (*FlowConfig, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) Upsert(ctx context.Context, cfg *FlowConfig) error {
	return repository.InstrumentVoid(ctx, collectionName, "Upsert", func() error {
		return r.inner.Upsert(ctx, cfg)
	})
}

func (r *instrumentedRepository) Delete(ctx context.Context, id string) error {
	return repository.InstrumentVoid(ctx, collectionName, "Delete", func() error {
		return r.inner.Delete(ctx, id)
	})
}
