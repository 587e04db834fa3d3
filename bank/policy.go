/*
policy.go - Interest policy

PURPOSE:
  Defines the two parameters that govern accrual: the per-period interest
  rate and the width of the trailing "no withdrawal" window. A Policy is an
  immutable value passed to the engine on every call; the engine never reads
  ambient settings.

THRESHOLD WINDOW:
  For a period boundary B and threshold H hours, a withdrawal at time t
  suppresses interest for B iff  B - H < t <= B.
  A withdrawal exactly at B counts; one exactly at B - H does not.

EXAMPLE:
  policy := bank.Policy{
      InterestRate:           decimal.RequireFromString("0.05"),
      InterestThresholdHours: 48,
  }
  if err := policy.Validate(); err != nil { ... }
*/
package bank

import (
	"math"

	"github.com/shopspring/decimal"
)

// Policy holds the accrual parameters.
type Policy struct {
	// InterestRate is the fraction of the running balance paid per eligible period.
	InterestRate decimal.Decimal

	// InterestThresholdHours is the width of the trailing window that must be
	// free of withdrawals for a period to earn interest.
	InterestThresholdHours float64
}

// DefaultPolicy returns 5% per day with a 48 hour window.
func DefaultPolicy() Policy {
	return Policy{
		InterestRate:           decimal.NewFromFloat(0.05),
		InterestThresholdHours: 48,
	}
}

// Validate rejects malformed policies. It never clamps.
func (p Policy) Validate() error {
	if math.IsNaN(p.InterestThresholdHours) || math.IsInf(p.InterestThresholdHours, 0) {
		return &InvalidPolicyError{Field: "interest_threshold_hours", Reason: "must be a finite number"}
	}
	if p.InterestThresholdHours < 0 {
		return &InvalidPolicyError{Field: "interest_threshold_hours", Reason: "must not be negative"}
	}
	if p.InterestRate.IsNegative() {
		return &InvalidPolicyError{Field: "interest_rate", Reason: "must not be negative"}
	}
	return nil
}

// Threshold returns the window width in milliseconds.
func (p Policy) Threshold() Timestamp {
	return HoursToSpan(p.InterestThresholdHours)
}

// MaxBalance is the ceiling interest can raise a balance to. It is the
// largest integer a float64 JSON client reads back exactly.
const MaxBalance int64 = 1 << 53

// InterestOn returns floor(balance × rate), capped so that balance plus
// interest never exceeds MaxBalance. Non-positive balances earn nothing.
func (p Policy) InterestOn(balance int64) int64 {
	if balance <= 0 || balance >= MaxBalance {
		return 0
	}
	headroom := MaxBalance - balance
	amount := decimal.NewFromInt(balance).Mul(p.InterestRate).Floor()
	if amount.GreaterThan(decimal.NewFromInt(headroom)) {
		return headroom
	}
	return amount.IntPart()
}

// RatePercent returns the rate as a percentage for display, e.g. "5".
func (p Policy) RatePercent() string {
	return p.InterestRate.Mul(decimal.NewFromInt(100)).String()
}
