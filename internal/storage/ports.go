// Package storage holds the durable key-value stores backing the tracker.
//
// Every backend exposes the same tiny surface as a browser's local storage:
// string values addressed by string keys, rewritten whole on every change.
package storage

import "context"

// Well-known keys.
const (
	TransactionsKey = "wealthway_transactions"
	ThemeKey        = "wealthway_theme"
)

// KeyValue is a durable string-keyed store.
type KeyValue interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value for key.
	Set(ctx context.Context, key, value string) error
}
