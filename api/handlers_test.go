/*
handlers_test.go - HTTP tests for the API handlers

Tests run the full router over an in-memory SQLite store with a fixed clock.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timebank/bank"
	"github.com/warp/timebank/encourage"
	"github.com/warp/timebank/household"
	"github.com/warp/timebank/store/sqlite"
)

var t0 = time.Date(2025, 3, 3, 19, 30, 0, 0, time.UTC)

type testServer struct {
	router *chi.Mux
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ts := &testServer{now: t0}
	service := household.NewService(bank.NewLedger(store), store, encourage.Static{}, household.DefaultProfiles())
	service.Now = func() time.Time { return ts.now }

	h := NewHandler(service)
	h.Location = time.UTC
	ts.router = NewRouter(h, []string{"*"})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateDeposit(t *testing.T) {
	ts := newTestServer(t)

	// WHEN: 45 minutes of workbook study are logged
	rec := ts.do(t, http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"workbook","minutes":45}`)

	// THEN: 90 minutes are credited
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[RecordResultDTO](t, rec)
	assert.Equal(t, int64(90), res.Transaction.Amount)
	assert.Equal(t, int64(45), res.Transaction.BaseAmount)
	assert.Equal(t, "2", res.Transaction.Multiplier)
	assert.Equal(t, "deposit", res.Transaction.Kind)
	assert.Equal(t, int64(90), res.Balance)
	assert.Equal(t, "1h 30m", res.BalanceDisplay)
	assert.Equal(t, encourage.Fallback("Seoa", bank.Deposit), res.Transaction.Message)
	assert.Empty(t, res.Interest)
}

func TestTransactions_NewestFirstWithRunningBalance(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"book","minutes":40}`).Code)
	ts.now = t0.Add(time.Hour)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/subjects/seoa/withdrawals", `{"category":"tv_watch","minutes":20}`).Code)

	rec := ts.do(t, http.MethodGet, "/api/subjects/seoa/transactions", "")

	require.Equal(t, http.StatusOK, rec.Code)
	txs := decode[[]TransactionDTO](t, rec)
	require.Len(t, txs, 2)
	assert.Equal(t, "withdraw", txs[0].Kind)
	assert.Equal(t, int64(-20), txs[0].SignedAmount)
	require.NotNil(t, txs[0].BalanceAfter)
	assert.Equal(t, int64(40), *txs[0].BalanceAfter)
	assert.Equal(t, int64(60), *txs[1].BalanceAfter)
}

func TestCreateWithdrawal_Insufficient(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/subjects/seou/deposits", `{"category":"video","minutes":50}`).Code) // 60

	rec := ts.do(t, http.MethodPost, "/api/subjects/seou/withdrawals", `{"category":"youtube_game","minutes":55}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Contains(t, resp.Details, "insufficient balance")
}

func TestErrorStatusCodes(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown subject", http.MethodPost, "/api/subjects/nobody/deposits", `{"category":"book","minutes":10}`, http.StatusNotFound},
		{"unknown subject balance", http.MethodGet, "/api/subjects/nobody/balance", "", http.StatusNotFound},
		{"unknown category", http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"piano","minutes":10}`, http.StatusBadRequest},
		{"zero minutes", http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"book","minutes":0}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/subjects/seoa/withdrawals", `{"category":`, http.StatusBadRequest},
		{"bad stats window", http.MethodGet, "/api/subjects/seoa/stats?days=0", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestBalance_PaysOwedInterest(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"workbook","minutes":500}`).Code)

	// GIVEN: Three quiet days
	ts.now = t0.Add(72 * time.Hour)

	rec := ts.do(t, http.MethodGet, "/api/subjects/seoa/balance", "")

	require.Equal(t, http.StatusOK, rec.Code)
	balance := decode[BalanceDTO](t, rec)
	assert.Equal(t, int64(1157), balance.Balance)
	assert.Equal(t, int64(1000), balance.Deposited)
	assert.Equal(t, int64(157), balance.InterestPaid)
}

func TestProcessInterest(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"workbook","minutes":500}`).Code)
	ts.now = t0.Add(48 * time.Hour)

	rec := ts.do(t, http.MethodPost, "/api/subjects/seoa/interest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[InterestResultDTO](t, rec)
	require.Len(t, res.Paid, 2)
	assert.Equal(t, int64(50), res.Paid[0].Amount)
	assert.Equal(t, int64(52), res.Paid[1].Amount)
	assert.True(t, strings.HasPrefix(res.Paid[0].ID, "interest-seoa-"))
	assert.Equal(t, int64(1102), res.Balance)

	// A second run pays nothing
	rec = ts.do(t, http.MethodPost, "/api/subjects/seoa/interest", "")
	assert.Empty(t, decode[InterestResultDTO](t, rec).Paid)
}

func TestListSubjects(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/subjects/seou/deposits", `{"category":"book","minutes":20}`).Code)

	rec := ts.do(t, http.MethodGet, "/api/subjects", "")

	require.Equal(t, http.StatusOK, rec.Code)
	subjects := decode[[]SubjectDTO](t, rec)
	require.Len(t, subjects, 2)
	assert.Equal(t, "seoa", subjects[0].ID)
	assert.Zero(t, subjects[0].Balance)
	assert.Equal(t, int64(30), subjects[1].Balance)
	assert.Equal(t, "30m", subjects[1].BalanceDisplay)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"book","minutes":20}`).Code)

	rec := ts.do(t, http.MethodGet, "/api/subjects/seoa/stats?days=3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]DayTotalsDTO](t, rec)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-03-03", days[2].Date)
	assert.Equal(t, int64(30), days[2].Study)
}

func TestSettingsLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"interest_threshold_hours":48`)

	// Invalid document is rejected
	rec = ts.do(t, http.MethodPut, "/api/settings", `{"interest_rate":-0.1,"interest_threshold_hours":48,"multipliers":{"workbook":2,"book":1.5,"video":1.2},"withdraw_multipliers":{"youtube_game":1.2,"tv_watch":1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Valid document replaces the settings
	rec = ts.do(t, http.MethodPut, "/api/settings", `{"interest_rate":0.1,"interest_threshold_hours":24,"multipliers":{"workbook":3,"book":1.5,"video":1.2},"withdraw_multipliers":{"youtube_game":1.2,"tv_watch":1}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"workbook","minutes":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(30), decode[RecordResultDTO](t, rec).Transaction.Amount)

	// Reset restores defaults
	rec = ts.do(t, http.MethodPost, "/api/settings/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/settings", "")
	assert.Contains(t, rec.Body.String(), `"workbook":2`)
}

func TestMetricsAndHealth(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/subjects/seoa/deposits", `{"category":"book","minutes":20}`).Code)

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "timebank_transactions_recorded_total")

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/healthz", "").Code)
}
