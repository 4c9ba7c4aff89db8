package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dazzifederico-hub/budcal/internal/domain"
)

// Memory is an in-memory implementation of TransactionStore. It is safe for
// concurrent use; data is lost on restart. Insertion order is preserved so
// GetAll returns transactions in the order they were written.
type Memory struct {
	mu    sync.RWMutex
	byID  map[string]int
	order []domain.Transaction
}

// NewMemory creates an empty in-memory transaction store.
func NewMemory() *Memory {
	return &Memory{
		byID: make(map[string]int),
	}
}

// GetAll implements TransactionStore.
func (m *Memory) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Transaction, len(m.order))
	copy(out, m.order)
	return out, nil
}

// Get implements TransactionStore.
func (m *Memory) Get(ctx context.Context, id string) (domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.byID[id]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.order[idx], nil
}

// Put implements TransactionStore.
func (m *Memory) Put(ctx context.Context, tx domain.Transaction) (string, error) {
	if tx.ID == "" {
		return "", fmt.Errorf("transaction ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.byID[tx.ID]; ok {
		m.order[idx] = tx
	} else {
		m.byID[tx.ID] = len(m.order)
		m.order = append(m.order, tx)
	}
	return tx.ID, nil
}

// Delete implements TransactionStore.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.order = append(m.order[:idx], m.order[idx+1:]...)
	delete(m.byID, id)
	for i := idx; i < len(m.order); i++ {
		m.byID[m.order[i].ID] = i
	}
	return nil
}

// Clear implements TransactionStore.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID = make(map[string]int)
	m.order = nil
	return nil
}

// Replace implements TransactionStore. The swap happens under one lock hold,
// so readers never observe a partially rebuilt ledger.
func (m *Memory) Replace(ctx context.Context, txs []domain.Transaction) error {
	byID := make(map[string]int, len(txs))
	order := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID == "" {
			return fmt.Errorf("transaction ID is required")
		}
		if idx, ok := byID[tx.ID]; ok {
			order[idx] = tx
			continue
		}
		byID[tx.ID] = len(order)
		order = append(order, tx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID = byID
	m.order = order
	return nil
}

// Close implements TransactionStore.
func (m *Memory) Close() error {
	return nil
}

var _ TransactionStore = (*Memory)(nil)
