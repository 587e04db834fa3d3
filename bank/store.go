/*
store.go - Persistence interface for transactions

PURPOSE:
  Defines the boundary between the engine and whatever currently
  materializes the history (SQLite, memory). The engine assumes it is handed
  the up-to-date history on every call; read-after-write is the store's job.

APPEND-ONLY CONTRACT:
  - Append(): Single transaction write
  - AppendBatch(): Atomic multi-transaction write
  - NO Update() or Delete() methods exist

IDEMPOTENCY:
  Transaction IDs are unique. Appending an existing ID fails with
  ErrDuplicateTransaction. Because interest IDs are derived from the period
  boundary, two concurrent accrual runs for one subject cannot both persist
  the same period.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - bank/store/memory.go: In-memory for testing
*/
package bank

import "context"

// Store handles persistence of transactions.
// IMPORTANT: Store is APPEND-ONLY. No Update, No Delete.
type Store interface {
	// Append persists a transaction. Returns ErrDuplicateTransaction if the ID exists.
	Append(ctx context.Context, tx Transaction) error

	// AppendBatch persists multiple transactions atomically.
	// Either all succeed or none do.
	AppendBatch(ctx context.Context, txs []Transaction) error

	// Load returns the subject's transactions ordered by Timestamp.
	Load(ctx context.Context, subjectID SubjectID) ([]Transaction, error)

	// Exists checks if a transaction ID already exists.
	Exists(ctx context.Context, id TransactionID) (bool, error)
}
