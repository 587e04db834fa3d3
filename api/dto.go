/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the ledger model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Subjects:     SubjectDTO, BalanceDTO
  Activity:     RecordRequest, RecordResultDTO, InterestResultDTO
  Transactions: TransactionDTO
  Stats:        DayTotalsDTO
  Settings:     factory.SettingsJSON (used directly)

VALIDATION:
  Validation is done by the household service, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/timebank/bank"
	"github.com/warp/timebank/household"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SubjectDTO represents a child with their current balance.
type SubjectDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Theme          string `json:"theme,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
}

// BalanceDTO is the balance with lifetime totals.
type BalanceDTO struct {
	SubjectID      string `json:"subject_id"`
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
	Deposited      int64  `json:"deposited"`
	Withdrawn      int64  `json:"withdrawn"`
	InterestPaid   int64  `json:"interest_paid"`
}

// RecordRequest is the body of a deposit or withdrawal.
type RecordRequest struct {
	Category string `json:"category"`
	Minutes  int64  `json:"minutes"`
}

// TransactionDTO represents one ledger entry.
type TransactionDTO struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Amount       int64  `json:"amount"`
	SignedAmount int64  `json:"signed_amount"`
	BaseAmount   int64  `json:"base_amount,omitempty"`
	Multiplier   string `json:"multiplier,omitempty"`
	Category     string `json:"category,omitempty"`
	Note         string `json:"note,omitempty"`
	Message      string `json:"message,omitempty"`
	Timestamp    string `json:"timestamp"`
	TimestampMs  int64  `json:"timestamp_ms"`

	// BalanceAfter is the running balance including this entry.
	BalanceAfter *int64 `json:"balance_after,omitempty"`
}

// RecordResultDTO is returned after a deposit or withdrawal.
type RecordResultDTO struct {
	Transaction     TransactionDTO   `json:"transaction"`
	Balance         int64            `json:"balance"`
	BalanceDisplay  string           `json:"balance_display"`
	Interest        []TransactionDTO `json:"interest"`
	FallbackUsed    bool             `json:"fallback_used"`
	CredentialIssue bool             `json:"credential_issue"`
}

// InterestResultDTO is returned by a manual interest run.
type InterestResultDTO struct {
	SubjectID string           `json:"subject_id"`
	Paid      []TransactionDTO `json:"paid"`
	Balance   int64            `json:"balance"`
}

// DayTotalsDTO is one day of the study-vs-screen summary.
type DayTotalsDTO struct {
	Date   string `json:"date"`
	Label  string `json:"label"`
	Study  int64  `json:"study"`
	Screen int64  `json:"screen"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toTransactionDTO(tx bank.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:           string(tx.ID),
		Kind:         string(tx.Kind),
		Amount:       tx.Amount,
		SignedAmount: tx.Signed(),
		BaseAmount:   tx.BaseAmount,
		Category:     tx.Category,
		Note:         tx.Note,
		Message:      tx.Message,
		Timestamp:    tx.Timestamp.Time().Format(time.RFC3339),
		TimestampMs:  int64(tx.Timestamp),
	}
	if tx.Multiplier.Valid {
		dto.Multiplier = tx.Multiplier.Decimal.String()
	}
	return dto
}

func toTransactionDTOs(txs []bank.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	return dtos
}

// toHistoryDTOs returns history newest first with the running balance
// after each entry.
func toHistoryDTOs(history []bank.Transaction) []TransactionDTO {
	running := bank.RunningBalances(history)
	dtos := make([]TransactionDTO, len(history))
	for i, tx := range history {
		dto := toTransactionDTO(tx)
		after := running[i]
		dto.BalanceAfter = &after
		dtos[len(history)-1-i] = dto
	}
	return dtos
}

func toDayTotalsDTOs(days []household.DayTotals) []DayTotalsDTO {
	dtos := make([]DayTotalsDTO, len(days))
	for i, d := range days {
		dtos[i] = DayTotalsDTO{
			Date:   d.Date.Format(time.DateOnly),
			Label:  d.Label,
			Study:  d.Study,
			Screen: d.Screen,
		}
	}
	return dtos
}
