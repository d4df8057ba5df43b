// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists under the key.
var ErrNotFound = errors.New("record not found")

// Entry is one key/value pair in a write batch.
type Entry struct {
	Key   string
	Value []byte
}

// Store defines a local key-value record store, the persistence model the
// ledger is built on (one writer process, whole records replaced at a time).
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the ledger.
type Store interface {
	// Get returns the raw value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes every entry atomically: either all entries are stored or
	// none are. Existing values are replaced.
	Put(ctx context.Context, entries ...Entry) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys that start with prefix, in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
