/*
ledger.go - Append-only transaction log

PURPOSE:
  The Ledger is the single append path for deposits, withdrawals and
  synthesized interest. Balance is always computed by replaying
  transactions.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete.
  2. IMMUTABLE: Once written, transactions cannot be modified
  3. IDEMPOTENT: Same ID = same transaction (no duplicates)

  The insufficient-balance check for withdrawals belongs to the caller and
  runs before Append; the ledger itself only validates shape.

SEE ALSO:
  - store.go: Low-level persistence interface
  - household/service.go: Domain wrapper that records activity
*/
package bank

import (
	"context"
	"fmt"
)

// Ledger is the source of truth for all balance changes.
type Ledger interface {
	// Append adds a transaction. Fails if the ID exists.
	Append(ctx context.Context, tx Transaction) error

	// AppendBatch adds multiple transactions atomically.
	AppendBatch(ctx context.Context, txs []Transaction) error

	// History returns the subject's transactions, chronologically.
	History(ctx context.Context, subjectID SubjectID) ([]Transaction, error)

	// Balance derives the subject's current balance.
	Balance(ctx context.Context, subjectID SubjectID) (int64, error)
}

// =============================================================================
// DEFAULT LEDGER - Implementation using Store
// =============================================================================

type DefaultLedger struct {
	Store Store
}

func NewLedger(store Store) *DefaultLedger {
	return &DefaultLedger{Store: store}
}

func (l *DefaultLedger) Append(ctx context.Context, tx Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	exists, err := l.Store.Exists(ctx, tx.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateTransaction
	}
	return l.Store.Append(ctx, tx)
}

func (l *DefaultLedger) AppendBatch(ctx context.Context, txs []Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	seen := make(map[TransactionID]bool, len(txs))
	for _, tx := range txs {
		if err := validateTransaction(tx); err != nil {
			return err
		}
		if seen[tx.ID] {
			return ErrDuplicateTransaction
		}
		seen[tx.ID] = true

		exists, err := l.Store.Exists(ctx, tx.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateTransaction
		}
	}
	return l.Store.AppendBatch(ctx, txs)
}

func (l *DefaultLedger) History(ctx context.Context, subjectID SubjectID) ([]Transaction, error) {
	return l.Store.Load(ctx, subjectID)
}

func (l *DefaultLedger) Balance(ctx context.Context, subjectID SubjectID) (int64, error) {
	txs, err := l.Store.Load(ctx, subjectID)
	if err != nil {
		return 0, err
	}
	return ComputeBalance(txs, subjectID), nil
}

func validateTransaction(tx Transaction) error {
	switch {
	case tx.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidTransaction)
	case tx.SubjectID == "":
		return fmt.Errorf("%w: missing subject", ErrInvalidTransaction)
	case !tx.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, tx.Kind)
	case tx.Amount < 0:
		return fmt.Errorf("%w: negative amount %d", ErrInvalidTransaction, tx.Amount)
	}
	return nil
}
