/*
interest.go - Interest accrual engine

PURPOSE:
  Synthesizes the interest transactions that should exist but do not yet.
  The engine is invoked opportunistically (on state changes, balance reads,
  or a timer), so it reconstructs every whole period that elapsed since the
  last checkpoint in a single pass.

ALGORITHM:
  1. Take the subject's transactions, sorted by timestamp.
  2. checkpoint = latest Interest timestamp, else the first transaction.
  3. cursor = checkpoint + 1 day; running = current balance.
  4. While cursor <= now:
       - skip if a Withdraw lies in (cursor - threshold, cursor]
       - skip if running <= 0
       - interest = floor(running × rate), capped at MaxBalance - running;
         if > 0 emit at cursor and add it to running (compounding)
       - cursor += 1 day
  Zero-interest and skipped days are still consumed: the cursor never
  revisits them.

IDEMPOTENCY:
  Each emitted transaction has ID "interest-<subject>-<cursor millis>" and
  Timestamp = cursor. Re-running with the same inputs yields identical
  output; after the output is appended, the checkpoint moves past it.

WHY A LOOP:
  Eligibility depends on per-period withdrawal activity, so periods cannot
  be collapsed algebraically. The loop is bounded by the number of elapsed
  days, not by history size. A dormant balance stops growing once it
  reaches MaxBalance.

EXAMPLE:
  history: Deposit 1000 @ t0, policy 5% / 48h, now = t0 + 3 days
  output:  Interest 50 @ t0+1d, 52 @ t0+2d, 55 @ t0+3d

SEE ALSO:
  - balance.go: ComputeBalance seeds the running balance
  - policy.go: Threshold window and floor rounding
*/
package bank

import (
	"fmt"
	"sort"
)

// InterestTransactionID derives the idempotency key for a period boundary.
func InterestTransactionID(subjectID SubjectID, boundary Timestamp) TransactionID {
	return TransactionID(fmt.Sprintf("interest-%s-%d", subjectID, int64(boundary)))
}

// ComputeAccruals returns the new Interest transactions for subjectID,
// earliest first. It does not mutate history.
func ComputeAccruals(history []Transaction, subjectID SubjectID, policy Policy, now Timestamp) ([]Transaction, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	txs := ForSubject(history, subjectID)
	if len(txs) == 0 {
		return nil, nil
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp < txs[j].Timestamp
	})

	var (
		withdrawals []Timestamp
		checkpoint  = txs[0].Timestamp
	)
	for _, tx := range txs {
		switch tx.Kind {
		case Withdraw: // interest never counts as "watched recently"
			withdrawals = append(withdrawals, tx.Timestamp)
		case Interest:
			checkpoint = tx.Timestamp // sorted, so the last one wins
		}
	}

	threshold := policy.Threshold()
	running := ComputeBalance(txs, subjectID)

	var result []Transaction
	for cursor := checkpoint + AccrualPeriod; cursor <= now; cursor += AccrualPeriod {
		if withdrewWithin(withdrawals, cursor-threshold, cursor) {
			continue
		}
		amount := policy.InterestOn(running)
		if amount <= 0 {
			continue
		}
		result = append(result, Transaction{
			ID:        InterestTransactionID(subjectID, cursor),
			SubjectID: subjectID,
			Kind:      Interest,
			Amount:    amount,
			Timestamp: cursor,
			Note:      interestNote(policy),
		})
		running += amount
	}
	return result, nil
}

// withdrewWithin reports whether any timestamp t (ascending) satisfies from < t <= to.
func withdrewWithin(sorted []Timestamp, from, to Timestamp) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > from })
	return i < len(sorted) && sorted[i] <= to
}

func interestNote(policy Policy) string {
	return fmt.Sprintf("No screen time for %gh: %s%% interest paid",
		policy.InterestThresholdHours, policy.RatePercent())
}
