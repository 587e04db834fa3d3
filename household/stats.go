package household

import (
	"fmt"
	"time"

	"github.com/warp/timebank/bank"
)

// DefaultSummaryDays is the window shown on the dashboard chart.
const DefaultSummaryDays = 5

// DayTotals is one bar of the study-vs-screen chart.
type DayTotals struct {
	Date   time.Time // local midnight
	Label  string    // "3/7"
	Study  int64     // deposits plus interest
	Screen int64     // withdrawals
}

// DailySummary buckets history into the last days calendar days ending at
// now, oldest first. Days are calendar days in loc (UTC when nil).
func DailySummary(history []bank.Transaction, now time.Time, days int, loc *time.Location) []DayTotals {
	if days <= 0 {
		days = DefaultSummaryDays
	}
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	out := make([]DayTotals, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-days+1)
		out[i] = DayTotals{
			Date:  day,
			Label: fmt.Sprintf("%d/%d", day.Month(), day.Day()),
		}
		index[day.Format(time.DateOnly)] = i
	}

	for _, tx := range history {
		i, ok := index[tx.Timestamp.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		switch tx.Kind {
		case bank.Deposit, bank.Interest:
			out[i].Study += tx.Amount
		case bank.Withdraw:
			out[i].Screen += tx.Amount
		}
	}
	return out
}
