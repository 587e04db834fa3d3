/*
service.go - Activity recording and interest processing

PURPOSE:
  The Service is the caller the engine expects: it hands the engine the
  up-to-date history, appends whatever comes back through the ledger, and
  records user activity through the same append path.

RECORD FLOW (Deposit / Withdraw):
  1. Validate subject, category and minutes
  2. Bring interest up to date, then check balance (withdraw only):
       base minutes > balance          -> InsufficientBalanceError
       floor(base × multiplier) > balance -> InsufficientBalanceError
  3. Ask the encourager for a message (outside the lock). On failure use
     the canned fallback; ErrAuthIssue also sets CredentialIssue.
  4. Re-check and append under the lock

  A failed message call never blocks or alters the recorded transaction.

CONCURRENCY:
  Appends are serialized by a service-wide mutex so the read-check-append
  sequences of two requests cannot interleave. Two processes sharing one
  store are still protected by the ID uniqueness of interest transactions.

SEE ALSO:
  - bank/interest.go: ComputeAccruals
  - encourage: Message collaborator
*/
package household

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timebank/bank"
	"github.com/warp/timebank/encourage"
	"github.com/warp/timebank/metrics"
)

// Service records activity for a fixed set of children.
type Service struct {
	Ledger     bank.Ledger
	Settings   SettingsStore
	Encourager encourage.Encourager

	// Now is the wall clock. Tests replace it.
	Now func() time.Time

	profiles []Profile
	mu       sync.Mutex
}

// NewService wires a service. A nil encourager means canned messages only.
func NewService(ledger bank.Ledger, settings SettingsStore, enc encourage.Encourager, profiles []Profile) *Service {
	if enc == nil {
		enc = encourage.Static{}
	}
	return &Service{
		Ledger:     ledger,
		Settings:   settings,
		Encourager: enc,
		Now:        time.Now,
		profiles:   profiles,
	}
}

// RecordResult describes a recorded deposit or withdrawal.
type RecordResult struct {
	Transaction bank.Transaction
	Balance     int64

	// Interest paid while bringing the ledger up to date before recording.
	Interest []bank.Transaction

	// FallbackUsed is set when the canned message replaced a generated one.
	FallbackUsed bool

	// CredentialIssue is set when the message collaborator rejected its key.
	CredentialIssue bool
}

// =============================================================================
// PROFILES
// =============================================================================

func (s *Service) Profiles() []Profile {
	out := make([]Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

func (s *Service) Profile(id bank.SubjectID) (Profile, error) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", bank.ErrSubjectNotFound, id)
}

// =============================================================================
// SETTINGS
// =============================================================================

// CurrentSettings returns the stored settings, or the defaults if none exist.
func (s *Service) CurrentSettings(ctx context.Context) (Settings, error) {
	settings, found, err := s.Settings.LoadSettings(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !found {
		return DefaultSettings(), nil
	}
	return settings, nil
}

// UpdateSettings replaces the settings wholesale after validation.
func (s *Service) UpdateSettings(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.Settings.SaveSettings(ctx, settings)
}

// ResetSettings restores the defaults. Transaction history is untouched.
func (s *Service) ResetSettings(ctx context.Context) error {
	return s.Settings.ResetSettings(ctx)
}

// =============================================================================
// RECORDING
// =============================================================================

// Deposit records study minutes.
func (s *Service) Deposit(ctx context.Context, subjectID bank.SubjectID, category StudyCategory, minutes int64) (*RecordResult, error) {
	settings, err := s.CurrentSettings(ctx)
	if err != nil {
		return nil, err
	}
	multiplier, err := settings.StudyMultiplier(category)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, settings, activity{
		subjectID:  subjectID,
		kind:       bank.Deposit,
		category:   string(category),
		label:      category.Label(),
		minutes:    minutes,
		multiplier: multiplier,
	})
}

// Withdraw records screen-time minutes.
func (s *Service) Withdraw(ctx context.Context, subjectID bank.SubjectID, category ScreenCategory, minutes int64) (*RecordResult, error) {
	settings, err := s.CurrentSettings(ctx)
	if err != nil {
		return nil, err
	}
	multiplier, err := settings.ScreenMultiplier(category)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, settings, activity{
		subjectID:  subjectID,
		kind:       bank.Withdraw,
		category:   string(category),
		label:      category.Label(),
		minutes:    minutes,
		multiplier: multiplier,
	})
}

type activity struct {
	subjectID  bank.SubjectID
	kind       bank.Kind
	category   string
	label      string
	minutes    int64
	multiplier decimal.Decimal
}

func (s *Service) record(ctx context.Context, settings Settings, a activity) (*RecordResult, error) {
	profile, err := s.Profile(a.subjectID)
	if err != nil {
		return nil, err
	}
	if a.minutes <= 0 {
		return nil, fmt.Errorf("%w: %d", bank.ErrInvalidAmount, a.minutes)
	}
	if decimal.NewFromInt(a.minutes).Mul(a.multiplier).GreaterThan(decimal.NewFromInt(bank.MaxBalance)) {
		return nil, fmt.Errorf("%w: %d minutes exceeds the maximum balance", bank.ErrInvalidAmount, a.minutes)
	}
	final := ApplyMultiplier(a.minutes, a.multiplier)

	result := &RecordResult{}

	// Pre-check so a doomed withdrawal never reaches the collaborator.
	s.mu.Lock()
	paid, balance, err := s.catchUpLocked(ctx, a.subjectID, settings.Policy)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	result.Interest = append(result.Interest, paid...)
	if err := checkActivity(a, final, balance); err != nil {
		return nil, err
	}

	message, err := s.Encourager.Encourage(ctx, profile.Name, a.minutes, a.kind)
	if err != nil {
		message = encourage.Fallback(profile.Name, a.kind)
		result.FallbackUsed = true
		reason := "transient"
		if errors.Is(err, encourage.ErrAuthIssue) {
			reason = "auth"
			result.CredentialIssue = true
		}
		metrics.EncouragementFallbacks.WithLabelValues(reason).Inc()
		log.Printf("[Encourage] Using fallback for %s (%s): %v", a.subjectID, reason, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	paid, balance, err = s.catchUpLocked(ctx, a.subjectID, settings.Policy)
	if err != nil {
		return nil, err
	}
	result.Interest = append(result.Interest, paid...)
	if err := checkActivity(a, final, balance); err != nil {
		return nil, err
	}

	tx := bank.Transaction{
		ID:         bank.NewTransactionID(),
		SubjectID:  a.subjectID,
		Kind:       a.kind,
		Amount:     final,
		BaseAmount: a.minutes,
		Multiplier: decimal.NewNullDecimal(a.multiplier),
		Category:   a.category,
		Timestamp:  bank.FromTime(s.Now()),
		Note:       a.label,
		Message:    message,
	}
	if err := s.Ledger.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record %s: %w", a.kind, err)
	}
	metrics.TransactionsRecorded.WithLabelValues(string(a.kind)).Inc()

	balance += tx.Signed()
	metrics.BalanceMinutes.WithLabelValues(string(a.subjectID)).Set(float64(balance))

	result.Transaction = tx
	result.Balance = balance
	return result, nil
}

// checkActivity rejects withdrawals the balance cannot cover and deposits
// that would lift it past bank.MaxBalance.
func checkActivity(a activity, final, balance int64) error {
	if a.kind == bank.Deposit {
		if final > bank.MaxBalance-balance {
			return fmt.Errorf("%w: %d minutes would exceed the maximum balance", bank.ErrInvalidAmount, final)
		}
		return nil
	}
	if a.minutes > balance {
		return &bank.InsufficientBalanceError{SubjectID: a.subjectID, Available: balance, Requested: a.minutes}
	}
	if final > balance {
		return &bank.InsufficientBalanceError{SubjectID: a.subjectID, Available: balance, Requested: final}
	}
	return nil
}

// =============================================================================
// INTEREST
// =============================================================================

// ProcessInterest appends any unpaid interest for the subject and returns it.
func (s *Service) ProcessInterest(ctx context.Context, subjectID bank.SubjectID) ([]bank.Transaction, error) {
	if _, err := s.Profile(subjectID); err != nil {
		return nil, err
	}
	settings, err := s.CurrentSettings(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	paid, _, err := s.catchUpLocked(ctx, subjectID, settings.Policy)
	return paid, err
}

// ProcessAllInterest runs ProcessInterest for every profile. It continues
// past per-subject failures and returns them joined.
func (s *Service) ProcessAllInterest(ctx context.Context) (map[bank.SubjectID][]bank.Transaction, error) {
	out := make(map[bank.SubjectID][]bank.Transaction)
	var errs []error
	for _, p := range s.profiles {
		paid, err := s.ProcessInterest(ctx, p.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.ID, err))
			continue
		}
		if len(paid) > 0 {
			out[p.ID] = paid
		}
	}
	return out, errors.Join(errs...)
}

// catchUpLocked pays outstanding interest and returns it with the new balance.
// Callers hold s.mu.
func (s *Service) catchUpLocked(ctx context.Context, subjectID bank.SubjectID, policy bank.Policy) ([]bank.Transaction, int64, error) {
	history, err := s.Ledger.History(ctx, subjectID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load history: %w", err)
	}

	accrued, err := bank.ComputeAccruals(history, subjectID, policy, bank.FromTime(s.Now()))
	if err != nil {
		metrics.InterestRuns.WithLabelValues("error").Inc()
		return nil, 0, err
	}

	balance := bank.ComputeBalance(history, subjectID)
	if len(accrued) == 0 {
		metrics.InterestRuns.WithLabelValues("idle").Inc()
		return nil, balance, nil
	}

	for i := range accrued {
		accrued[i].Message = encourage.InterestMessage
	}
	if err := s.Ledger.AppendBatch(ctx, accrued); err != nil {
		if errors.Is(err, bank.ErrDuplicateTransaction) {
			// Another writer on the same store paid these periods first.
			log.Printf("[Interest] Periods for %s already paid elsewhere", subjectID)
			balance, err = s.Ledger.Balance(ctx, subjectID)
			return nil, balance, err
		}
		metrics.InterestRuns.WithLabelValues("error").Inc()
		return nil, 0, fmt.Errorf("failed to append interest: %w", err)
	}

	var minutes int64
	for _, tx := range accrued {
		minutes += tx.Amount
	}
	balance += minutes
	metrics.InterestRuns.WithLabelValues("paid").Inc()
	metrics.InterestMinutesPaid.Add(float64(minutes))
	metrics.TransactionsRecorded.WithLabelValues(string(bank.Interest)).Add(float64(len(accrued)))
	metrics.BalanceMinutes.WithLabelValues(string(subjectID)).Set(float64(balance))
	log.Printf("[Interest] Paid %d period(s), %d minutes to %s", len(accrued), minutes, subjectID)

	return accrued, balance, nil
}

// =============================================================================
// READS
// =============================================================================

// Balance brings interest up to date and returns the balance.
func (s *Service) Balance(ctx context.Context, subjectID bank.SubjectID) (int64, error) {
	if _, err := s.ProcessInterest(ctx, subjectID); err != nil {
		return 0, err
	}
	return s.Ledger.Balance(ctx, subjectID)
}

// History returns the subject's transactions, oldest first.
func (s *Service) History(ctx context.Context, subjectID bank.SubjectID) ([]bank.Transaction, error) {
	if _, err := s.Profile(subjectID); err != nil {
		return nil, err
	}
	return s.Ledger.History(ctx, subjectID)
}

// Summary returns per-day study and screen minutes for the last days days.
func (s *Service) Summary(ctx context.Context, subjectID bank.SubjectID, days int, loc *time.Location) ([]DayTotals, error) {
	history, err := s.History(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return DailySummary(history, s.Now(), days, loc), nil
}
