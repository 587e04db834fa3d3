/*
Package bank provides the core time bank engine.

PURPOSE:
  This package contains the domain-agnostic ledger and interest accrual
  engine. Subjects earn minutes by depositing, spend minutes by withdrawing,
  and unspent balances grow through daily interest. Domain packages
  (household) decide what a deposit or withdrawal means; this package only
  knows signed minutes on a timeline.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: An immutable ledger entry recording a balance change
  - Kind: Deposit, Withdraw or Interest
  - SubjectID / TransactionID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Transactions are never modified or deleted
  2. Derivation: Balance is never stored, only summed from history
  3. Determinism: Interest transactions carry IDs derived from the subject
     and the period boundary, so re-running accrual cannot duplicate them

USAGE:
  tx := bank.Transaction{
      ID:        bank.NewTransactionID(),
      SubjectID: "seoa",
      Kind:      bank.Deposit,
      Amount:    60,
      Timestamp: bank.FromTime(time.Now()),
  }

SEE ALSO:
  - balance.go: Balance calculation from transactions
  - interest.go: Interest accrual simulation
  - ledger.go: Append path shared by user actions and accrual
*/
package bank

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type SubjectID string
type TransactionID string

// NewTransactionID issues a random ID for user-initiated transactions.
// Interest transactions never use this; see InterestTransactionID.
func NewTransactionID() TransactionID {
	return TransactionID(uuid.NewString())
}

// =============================================================================
// TRANSACTION - Atomic change to a subject's balance
// =============================================================================

type Kind string

const (
	Deposit  Kind = "deposit"  // Minutes earned by logged study
	Withdraw Kind = "withdraw" // Minutes spent on screen time
	Interest Kind = "interest" // Minutes paid by the accrual engine
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Deposit, Withdraw, Interest:
		return true
	}
	return false
}

// Credits reports whether the kind adds to the balance.
func (k Kind) Credits() bool {
	return k == Deposit || k == Interest
}

type Transaction struct {
	ID        TransactionID
	SubjectID SubjectID
	Kind      Kind

	// Amount is always non-negative; Kind decides the sign.
	Amount int64

	// Provenance only. Not used by balance or accrual math.
	BaseAmount int64
	Multiplier decimal.NullDecimal
	Category   string

	// For Interest this is the period boundary, not the creation time.
	Timestamp Timestamp

	Note    string
	Message string
}

// Signed returns the transaction's effect on the balance.
func (tx Transaction) Signed() int64 {
	if tx.Kind.Credits() {
		return tx.Amount
	}
	return -tx.Amount
}

// ForSubject returns the transactions belonging to subjectID, preserving order.
func ForSubject(history []Transaction, subjectID SubjectID) []Transaction {
	var out []Transaction
	for _, tx := range history {
		if tx.SubjectID == subjectID {
			out = append(out, tx)
		}
	}
	return out
}
