package household

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timebank/bank"
)

func TestDailySummary(t *testing.T) {
	now := time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC)
	at := func(day, hour int) bank.Timestamp {
		return bank.FromTime(time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC))
	}
	history := []bank.Transaction{
		{ID: "old", Kind: bank.Deposit, Amount: 999, Timestamp: at(2, 10)},
		{ID: "d1", Kind: bank.Deposit, Amount: 60, Timestamp: at(3, 9)},
		{ID: "i1", Kind: bank.Interest, Amount: 3, Timestamp: at(4, 9)},
		{ID: "d2", Kind: bank.Deposit, Amount: 30, Timestamp: at(7, 8)},
		{ID: "w1", Kind: bank.Withdraw, Amount: 45, Timestamp: at(7, 19)},
	}

	days := DailySummary(history, now, 5, time.UTC)

	require.Len(t, days, 5)
	assert.Equal(t, "3/3", days[0].Label)
	assert.Equal(t, "3/7", days[4].Label)
	assert.Equal(t, int64(60), days[0].Study)
	assert.Equal(t, int64(3), days[1].Study)
	assert.Zero(t, days[2].Study+days[2].Screen)
	assert.Equal(t, int64(30), days[4].Study)
	assert.Equal(t, int64(45), days[4].Screen)
}

func TestDailySummary_UsesLocalCalendarDays(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 2025-03-06 16:00 UTC is 2025-03-07 01:00 in Seoul
	history := []bank.Transaction{
		{ID: "d1", Kind: bank.Deposit, Amount: 10, Timestamp: bank.FromTime(time.Date(2025, 3, 6, 16, 0, 0, 0, time.UTC))},
	}
	now := time.Date(2025, 3, 7, 3, 0, 0, 0, time.UTC)

	days := DailySummary(history, now, 2, seoul)

	require.Len(t, days, 2)
	assert.Equal(t, "3/7", days[1].Label)
	assert.Equal(t, int64(10), days[1].Study)
	assert.Zero(t, days[0].Study)
}

func TestDailySummary_DefaultWindow(t *testing.T) {
	days := DailySummary(nil, time.Now(), 0, nil)
	assert.Len(t, days, DefaultSummaryDays)
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
		{120, "2h"},
		{-75, "1h 15m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.in))
	}
}
