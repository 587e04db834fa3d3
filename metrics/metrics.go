// Package metrics holds the Prometheus collectors for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransactionsRecorded counts appended transactions by kind.
var TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "timebank",
	Name:      "transactions_recorded_total",
	Help:      "Transactions appended to the ledger, by kind.",
}, []string{"kind"})

// InterestMinutesPaid counts minutes paid out as interest.
var InterestMinutesPaid = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "timebank",
	Name:      "interest_minutes_paid_total",
	Help:      "Minutes credited by the interest accrual engine.",
})

// InterestRuns counts accrual invocations by outcome.
var InterestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "timebank",
	Name:      "interest_runs_total",
	Help:      "Interest accrual runs, by outcome (paid, idle, error).",
}, []string{"outcome"})

// EncouragementFallbacks counts canned messages used instead of generated ones.
var EncouragementFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "timebank",
	Name:      "encouragement_fallbacks_total",
	Help:      "Encouragement requests answered with the canned fallback, by reason.",
}, []string{"reason"})

// BalanceMinutes is the last observed balance per subject.
var BalanceMinutes = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "timebank",
	Name:      "balance_minutes",
	Help:      "Current balance in minutes, per subject.",
}, []string{"subject"})
