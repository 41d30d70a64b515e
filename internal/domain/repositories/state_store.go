package repositories

import "context"

// StateStore is the durable per-reviewer key-value store.
// Writes are last-writer-wins. Get reports false for absent keys.
type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
