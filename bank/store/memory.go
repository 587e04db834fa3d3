// Package store provides in-memory Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/timebank/bank"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	transactions map[bank.SubjectID][]bank.Transaction
	ids          map[bank.TransactionID]bool
}

func NewMemory() *Memory {
	return &Memory{
		transactions: make(map[bank.SubjectID][]bank.Transaction),
		ids:          make(map[bank.TransactionID]bool),
	}
}

// Append adds a single transaction. Append-only.
func (m *Memory) Append(_ context.Context, tx bank.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ids[tx.ID] {
		return bank.ErrDuplicateTransaction
	}
	m.appendLocked(tx)
	return nil
}

// AppendBatch adds multiple transactions atomically.
func (m *Memory) AppendBatch(_ context.Context, txs []bank.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check all IDs first (atomic check)
	batch := make(map[bank.TransactionID]bool, len(txs))
	for _, tx := range txs {
		if m.ids[tx.ID] || batch[tx.ID] {
			return bank.ErrDuplicateTransaction
		}
		batch[tx.ID] = true
	}

	for _, tx := range txs {
		m.appendLocked(tx)
	}
	return nil
}

func (m *Memory) appendLocked(tx bank.Transaction) {
	txs := m.transactions[tx.SubjectID]

	// Insert after any transaction with the same timestamp to keep arrival order.
	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].Timestamp > tx.Timestamp
	})

	txs = append(txs, bank.Transaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	m.transactions[tx.SubjectID] = txs
	m.ids[tx.ID] = true
}

func (m *Memory) Load(_ context.Context, subjectID bank.SubjectID) ([]bank.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]bank.Transaction, len(m.transactions[subjectID]))
	copy(result, m.transactions[subjectID])
	return result, nil
}

func (m *Memory) Exists(_ context.Context, id bank.TransactionID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ids[id], nil
}
