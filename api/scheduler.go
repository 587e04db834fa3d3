/*
scheduler.go - Automated interest scheduler

PURPOSE:
  Periodically brings interest up to date for every child, so balances
  grow even when nobody opens the dashboard.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on start, then on every tick
  - Already-paid periods are never paid again, so ticks are idempotent
  - Per-subject failures are logged and do not stop the loop

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewInterestScheduler(service)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ProcessInterest endpoint (manual run)
  - household/service.go: ProcessAllInterest
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/timebank/bank"
)

// InterestProcessor pays owed interest for every configured subject.
type InterestProcessor interface {
	ProcessAllInterest(ctx context.Context) (map[bank.SubjectID][]bank.Transaction, error)
}

// InterestScheduler runs interest accrual on a ticker.
type InterestScheduler struct {
	Processor     InterestProcessor
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewInterestScheduler creates a new scheduler.
func NewInterestScheduler(p InterestProcessor) *InterestScheduler {
	return &InterestScheduler{
		Processor:     p,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the scheduler.
func (s *InterestScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	log.Printf("[Scheduler] Started with check interval: %v", s.CheckInterval)
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (s *InterestScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	log.Println("[Scheduler] Stopped")
}

func (s *InterestScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.RunNow()

	for {
		select {
		case <-ticker.C:
			s.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow performs one check synchronously and returns the number of
// interest transactions appended.
func (s *InterestScheduler) RunNow() int {
	paid, err := s.Processor.ProcessAllInterest(context.Background())
	if err != nil {
		log.Printf("[Scheduler] Errors while processing interest: %v", err)
	}

	count := 0
	for subjectID, txs := range paid {
		count += len(txs)
		log.Printf("[Scheduler] %s: %d interest period(s) paid", subjectID, len(txs))
	}
	return count
}
