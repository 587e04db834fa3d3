package api

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/timebank/bank"
)

type fakeProcessor struct {
	calls atomic.Int32
	paid  map[bank.SubjectID][]bank.Transaction
	err   error
}

func (f *fakeProcessor) ProcessAllInterest(context.Context) (map[bank.SubjectID][]bank.Transaction, error) {
	f.calls.Add(1)
	return f.paid, f.err
}

func TestInterestScheduler_RunNow(t *testing.T) {
	p := &fakeProcessor{paid: map[bank.SubjectID][]bank.Transaction{
		"seoa": {{ID: "interest-seoa-1"}, {ID: "interest-seoa-2"}},
		"seou": {{ID: "interest-seou-1"}},
	}}

	count := NewInterestScheduler(p).RunNow()

	assert.Equal(t, 3, count)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestInterestScheduler_RunNowSurvivesErrors(t *testing.T) {
	p := &fakeProcessor{err: errors.New("seoa: database is locked")}
	assert.Zero(t, NewInterestScheduler(p).RunNow())
}

func TestInterestScheduler_StartRunsImmediately(t *testing.T) {
	p := &fakeProcessor{}
	s := NewInterestScheduler(p)
	s.CheckInterval = time.Hour

	s.Start()
	assert.Eventually(t, func() bool { return p.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	// Stop is idempotent
	s.Stop()
}

func TestInterestScheduler_Disabled(t *testing.T) {
	p := &fakeProcessor{}
	s := NewInterestScheduler(p)
	s.Enabled = false

	s.Start()
	s.Stop()
	assert.Zero(t, p.calls.Load())
}
