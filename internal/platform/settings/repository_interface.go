package settings

import "context"

// Repository provides access to the singleton settings document.
type Repository interface {
	// Get returns the stored settings, or the defaults when none are stored.
	Get(ctx context.Context) (Settings, error)

	// Put replaces the stored settings, stamping who changed them.
	Put(ctx context.Context, s Settings, modifiedBy string) error
}
