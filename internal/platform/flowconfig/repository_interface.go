package flowconfig

import "context"

// Repository provides access to flow configuration documents.
type Repository interface {
	// FindAll returns all configurations, ordered by id.
	FindAll(ctx context.Context) ([]*FlowConfig, error)

	// FindByID returns the configuration with the given id, or nil when absent.
	FindByID(ctx context.Context, id string) (*FlowConfig, error)

	// Upsert stores the configuration, replacing any existing document with
	// the same id.
	Upsert(ctx context.Context, cfg *FlowConfig) error

	// Delete removes the configuration with the given id.
	Delete(ctx context.Context, id string) error
}
