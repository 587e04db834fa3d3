/*
balance.go - Balance calculation

PURPOSE:
  Computes a subject's balance from the transaction history. There is no
  stored balance field that can drift: the balance is the signed sum of the
  subject's transactions, recomputed on every call.

RULES:
  Deposit  +amount
  Interest +amount
  Withdraw -amount

  Summation is commutative, so the history may arrive in any order.

SEE ALSO:
  - interest.go: Seeds its running balance from ComputeBalance
  - ledger.go: Balance lookups through a Store
*/
package bank

// ComputeBalance returns the balance of subjectID over history.
// An empty history yields 0.
func ComputeBalance(history []Transaction, subjectID SubjectID) int64 {
	var balance int64
	for _, tx := range history {
		if tx.SubjectID != subjectID {
			continue
		}
		balance += tx.Signed()
	}
	return balance
}

// Totals splits a subject's history by kind.
type Totals struct {
	Deposited    int64
	Withdrawn    int64
	InterestPaid int64
}

// Balance returns deposits plus interest minus withdrawals.
func (t Totals) Balance() int64 {
	return t.Deposited + t.InterestPaid - t.Withdrawn
}

// ComputeTotals sums a subject's history per kind.
func ComputeTotals(history []Transaction, subjectID SubjectID) Totals {
	var t Totals
	for _, tx := range history {
		if tx.SubjectID != subjectID {
			continue
		}
		switch tx.Kind {
		case Deposit:
			t.Deposited += tx.Amount
		case Withdraw:
			t.Withdrawn += tx.Amount
		case Interest:
			t.InterestPaid += tx.Amount
		}
	}
	return t
}

// RunningBalances returns, for history sorted by timestamp, the balance after
// each transaction.
func RunningBalances(history []Transaction) []int64 {
	out := make([]int64, len(history))
	var balance int64
	for i, tx := range history {
		balance += tx.Signed()
		out[i] = balance
	}
	return out
}
