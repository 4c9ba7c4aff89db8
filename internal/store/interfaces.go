// Package store persists the transaction ledger. Two implementations exist:
// a sqlite-backed store for production use and an in-memory store for tests.
package store

import (
	"context"
	"errors"

	"github.com/dazzifederico-hub/budcal/internal/domain"
)

// ErrNotFound is returned when a transaction ID is not in the store.
var ErrNotFound = errors.New("transaction not found")

// TransactionStore is the ledger the engine reads and rewrites. The store is
// single-writer: concurrent syncs are not guarded here and must be prevented
// by the caller.
type TransactionStore interface {
	// GetAll returns every stored transaction.
	GetAll(ctx context.Context) ([]domain.Transaction, error)

	// Get returns one transaction by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (domain.Transaction, error)

	// Put inserts or overwrites a transaction and returns its ID.
	Put(ctx context.Context, tx domain.Transaction) (string, error)

	// Delete removes one transaction by ID, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Clear removes all transactions.
	Clear(ctx context.Context) error

	// Replace swaps the full contents of the store for txs in a single
	// storage transaction. Either the new set is fully applied or the old
	// contents remain; there is no window where the store is empty.
	Replace(ctx context.Context, txs []domain.Transaction) error

	// Close releases the underlying storage.
	Close() error
}
