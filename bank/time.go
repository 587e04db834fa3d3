package bank

import (
	"time"
)

// =============================================================================
// TIMESTAMP - Milliseconds since the Unix epoch
// =============================================================================

// Timestamp is an instant in milliseconds since the Unix epoch. Interest IDs
// embed it, so it must stay an integer.
type Timestamp int64

// Period table used by the accrual engine.
const (
	Second Timestamp = 1000
	Minute           = 60 * Second
	Hour             = 60 * Minute
	Day              = 24 * Hour

	// AccrualPeriod is the fixed step of the interest simulation.
	AccrualPeriod = Day
)

func FromTime(t time.Time) Timestamp { return Timestamp(t.UnixMilli()) }

func (ts Timestamp) Time() time.Time                 { return time.UnixMilli(int64(ts)).UTC() }
func (ts Timestamp) AddDays(n int) Timestamp         { return ts + Timestamp(n)*Day }
func (ts Timestamp) String() string                  { return ts.Time().Format(time.RFC3339) }
func (ts Timestamp) In(loc *time.Location) time.Time { return time.UnixMilli(int64(ts)).In(loc) }

// HoursToSpan converts a fractional hour count to milliseconds.
func HoursToSpan(hours float64) Timestamp {
	return Timestamp(hours * float64(Hour))
}
