/*
handlers.go - HTTP API handlers for the time bank

PURPOSE:
  Exposes the household service via REST API. Handles HTTP request/response
  and JSON serialization, and delegates everything else to household.Service.

ENDPOINTS:
  Subjects:
    GET    /api/subjects                       List children with balances
    GET    /api/subjects/{id}/balance          Balance (pays owed interest first)
    GET    /api/subjects/{id}/transactions     History, newest first
    GET    /api/subjects/{id}/stats?days=N     Daily study vs screen minutes

  Activity:
    POST   /api/subjects/{id}/deposits         Log study minutes
    POST   /api/subjects/{id}/withdrawals      Spend screen-time minutes
    POST   /api/subjects/{id}/interest         Run interest accrual now

  Settings:
    GET    /api/settings                       Current settings document
    PUT    /api/settings                       Replace settings
    POST   /api/settings/reset                 Restore defaults

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid policy, amount, category or body
  - 404: Unknown subject
  - 409: Insufficient balance, duplicate transaction
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The server is meant for a home network.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/timebank/bank"
	"github.com/warp/timebank/factory"
	"github.com/warp/timebank/household"
)

// maxStatsDays bounds the stats window.
const maxStatsDays = 31

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service         *household.Service
	SettingsFactory *factory.SettingsFactory

	// Location decides calendar days for stats.
	Location *time.Location
}

// NewHandler creates a handler over the given service.
func NewHandler(service *household.Service) *Handler {
	return &Handler{
		Service:         service,
		SettingsFactory: factory.NewSettingsFactory(),
		Location:        time.Local,
	}
}

func subjectParam(r *http.Request) bank.SubjectID {
	return bank.SubjectID(chi.URLParam(r, "id"))
}

// =============================================================================
// SUBJECT HANDLERS
// =============================================================================

// ListSubjects returns all children with their current balances.
// GET /api/subjects
func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	profiles := h.Service.Profiles()
	dtos := make([]SubjectDTO, len(profiles))
	for i, p := range profiles {
		balance, err := h.Service.Balance(r.Context(), p.ID)
		if err != nil {
			writeServiceError(w, "Failed to compute balance", err)
			return
		}
		dtos[i] = SubjectDTO{
			ID:             string(p.ID),
			Name:           p.Name,
			Theme:          p.Theme,
			Avatar:         p.Avatar,
			Balance:        balance,
			BalanceDisplay: household.FormatMinutes(balance),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBalance pays any owed interest and returns the balance with totals.
// GET /api/subjects/{id}/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	subjectID := subjectParam(r)
	ctx := r.Context()

	if _, err := h.Service.ProcessInterest(ctx, subjectID); err != nil {
		writeServiceError(w, "Failed to process interest", err)
		return
	}
	history, err := h.Service.History(ctx, subjectID)
	if err != nil {
		writeServiceError(w, "Failed to load history", err)
		return
	}

	totals := bank.ComputeTotals(history, subjectID)
	balance := totals.Balance()
	writeJSON(w, http.StatusOK, BalanceDTO{
		SubjectID:      string(subjectID),
		Balance:        balance,
		BalanceDisplay: household.FormatMinutes(balance),
		Deposited:      totals.Deposited,
		Withdrawn:      totals.Withdrawn,
		InterestPaid:   totals.InterestPaid,
	})
}

// GetTransactions returns the history newest first.
// GET /api/subjects/{id}/transactions
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	history, err := h.Service.History(r.Context(), subjectParam(r))
	if err != nil {
		writeServiceError(w, "Failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryDTOs(history))
}

// GetStats returns per-day study and screen minutes.
// GET /api/subjects/{id}/stats?days=N
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	days := household.DefaultSummaryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxStatsDays {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", maxStatsDays), err)
			return
		}
		days = n
	}

	summary, err := h.Service.Summary(r.Context(), subjectParam(r), days, h.Location)
	if err != nil {
		writeServiceError(w, "Failed to build summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toDayTotalsDTOs(summary))
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// CreateDeposit logs study minutes.
// POST /api/subjects/{id}/deposits
func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Service.Deposit(r.Context(), subjectParam(r), household.StudyCategory(req.Category), req.Minutes)
	if err != nil {
		writeServiceError(w, "Failed to record deposit", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResultDTO(result))
}

// CreateWithdrawal spends screen-time minutes.
// POST /api/subjects/{id}/withdrawals
func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Service.Withdraw(r.Context(), subjectParam(r), household.ScreenCategory(req.Category), req.Minutes)
	if err != nil {
		writeServiceError(w, "Failed to record withdrawal", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResultDTO(result))
}

// ProcessInterest runs accrual for one subject now.
// POST /api/subjects/{id}/interest
func (h *Handler) ProcessInterest(w http.ResponseWriter, r *http.Request) {
	subjectID := subjectParam(r)
	ctx := r.Context()

	paid, err := h.Service.ProcessInterest(ctx, subjectID)
	if err != nil {
		writeServiceError(w, "Failed to process interest", err)
		return
	}
	balance, err := h.Service.Ledger.Balance(ctx, subjectID)
	if err != nil {
		writeServiceError(w, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, InterestResultDTO{
		SubjectID: string(subjectID),
		Paid:      toTransactionDTOs(paid),
		Balance:   balance,
	})
}

func toRecordResultDTO(res *household.RecordResult) RecordResultDTO {
	return RecordResultDTO{
		Transaction:     toTransactionDTO(res.Transaction),
		Balance:         res.Balance,
		BalanceDisplay:  household.FormatMinutes(res.Balance),
		Interest:        toTransactionDTOs(res.Interest),
		FallbackUsed:    res.FallbackUsed,
		CredentialIssue: res.CredentialIssue,
	}
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the current settings document.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.CurrentSettings(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.SettingsFactory.ToJSON(settings))
}

// UpdateSettings replaces the settings wholesale.
// PUT /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	settings, err := h.SettingsFactory.ParseSettings(body)
	if err != nil {
		if bank.IsClientError(err) {
			writeServiceError(w, "Invalid settings", err)
		} else {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
		}
		return
	}
	if err := h.Service.UpdateSettings(r.Context(), settings); err != nil {
		writeServiceError(w, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.SettingsFactory.ToJSON(settings))
}

// ResetSettings restores the defaults. History is untouched.
// POST /api/settings/reset
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ResetSettings(r.Context()); err != nil {
		writeServiceError(w, "Failed to reset settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.SettingsFactory.ToJSON(household.DefaultSettings()))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case bank.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case bank.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case bank.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
