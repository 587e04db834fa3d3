/*
errors.go - Centralized error types for the time bank engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these with additional context.

ERROR CATEGORIES:
  1. Policy errors - Malformed rate or threshold, rejected at the boundary
  2. Balance errors - Withdrawals exceeding the derived balance
  3. Ledger errors - Duplicate IDs, unknown subjects

  The balance and accrual functions themselves never fail on valid input.

USAGE:
  if errors.Is(err, bank.ErrInsufficientBalance) {
      var ib *bank.InsufficientBalanceError
      errors.As(err, &ib)
      ...
  }
*/
package bank

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPolicy is returned when a rate, threshold or multiplier is
	// malformed. Values are never silently clamped.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrInsufficientBalance is returned when a withdrawal exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicateTransaction is returned when a transaction ID already exists.
	// For interest transactions this means the period was already paid.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")

	// ErrSubjectNotFound is returned for subjects that are not configured.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrInvalidAmount is returned for non-positive user amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUnknownCategory is returned for categories without a multiplier.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidTransaction is returned when a transaction fails basic checks
	// before reaching the store.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidPolicyError names the offending policy field.
type InvalidPolicyError struct {
	Field  string
	Reason string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid policy: %s %s", e.Field, e.Reason)
}

func (e *InvalidPolicyError) Unwrap() error {
	return ErrInvalidPolicy
}

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	SubjectID SubjectID
	Available int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s: available %d, requested %d, shortfall %d",
		e.SubjectID, e.Available, e.Requested, e.Shortfall())
}

func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Requested - e.Available
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPolicy) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidTransaction)
}

// IsConflict returns true if the request conflicts with ledger state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrDuplicateTransaction)
}

// IsNotFound returns true if the error indicates a missing subject.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSubjectNotFound)
}
