package settings

import (
	"context"

	"github.com/CXBuilder/flow-config/internal/common/repository"
)

const collectionName = "settings"

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

// newInstrumentedRepository creates an instrumented wrapper around a Repository
func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) Get(ctx context.Context) (Settings, error) {
	return repository.Instrument(ctx, collectionName, "Get", func() (Settings, error) {
		return r.inner.Get(ctx)
	})
}

func (r *instrumentedRepository) Put(ctx context.Context, s Settings, modifiedBy string) error {
	return repository.InstrumentVoid(ctx, collectionName, "Put", func() error {
		return r.inner.Put(ctx, s, modifiedBy)
	})
}
