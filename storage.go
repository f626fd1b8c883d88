package currency

import "context"

// Storage is a string keyed, string valued durable store.
// Get reports false when the key does not exist.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Migrate() error
	Drop() error
	Close() error
	GetStorageProviderName() string
}
