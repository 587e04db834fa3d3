package household

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/timebank/bank"
)

// Settings is the user-editable configuration. It is replaced wholesale,
// never patched field by field.
type Settings struct {
	Policy            bank.Policy
	StudyMultipliers  map[StudyCategory]decimal.Decimal
	ScreenMultipliers map[ScreenCategory]decimal.Decimal
}

// DefaultSettings returns the shipped defaults.
func DefaultSettings() Settings {
	return Settings{
		Policy: bank.DefaultPolicy(),
		StudyMultipliers: map[StudyCategory]decimal.Decimal{
			StudyWorkbook: decimal.RequireFromString("2.0"),
			StudyBook:     decimal.RequireFromString("1.5"),
			StudyVideo:    decimal.RequireFromString("1.2"),
		},
		ScreenMultipliers: map[ScreenCategory]decimal.Decimal{
			ScreenYouTubeGame: decimal.RequireFromString("1.2"),
			ScreenTV:          decimal.RequireFromString("1.0"),
		},
	}
}

// Validate checks the policy and every multiplier. Values are never clamped.
func (s Settings) Validate() error {
	if err := s.Policy.Validate(); err != nil {
		return err
	}
	for _, c := range StudyCategories {
		m, ok := s.StudyMultipliers[c]
		if !ok {
			return &bank.InvalidPolicyError{Field: "multipliers." + string(c), Reason: "is missing"}
		}
		if !m.IsPositive() {
			return &bank.InvalidPolicyError{Field: "multipliers." + string(c), Reason: "must be positive"}
		}
	}
	for _, c := range ScreenCategories {
		m, ok := s.ScreenMultipliers[c]
		if !ok {
			return &bank.InvalidPolicyError{Field: "withdraw_multipliers." + string(c), Reason: "is missing"}
		}
		if !m.IsPositive() {
			return &bank.InvalidPolicyError{Field: "withdraw_multipliers." + string(c), Reason: "must be positive"}
		}
	}
	return nil
}

// StudyMultiplier looks up the multiplier for a study category.
func (s Settings) StudyMultiplier(c StudyCategory) (decimal.Decimal, error) {
	m, ok := s.StudyMultipliers[c]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", bank.ErrUnknownCategory, c)
	}
	return m, nil
}

// ScreenMultiplier looks up the multiplier for a screen category.
func (s Settings) ScreenMultiplier(c ScreenCategory) (decimal.Decimal, error) {
	m, ok := s.ScreenMultipliers[c]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", bank.ErrUnknownCategory, c)
	}
	return m, nil
}

// ApplyMultiplier returns floor(minutes × multiplier).
func ApplyMultiplier(minutes int64, multiplier decimal.Decimal) int64 {
	return decimal.NewFromInt(minutes).Mul(multiplier).Floor().IntPart()
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

// SettingsStore persists the Settings object. Resetting never touches the
// transaction history.
type SettingsStore interface {
	// LoadSettings returns the stored settings, or found=false if none exist.
	LoadSettings(ctx context.Context) (settings Settings, found bool, err error)
	SaveSettings(ctx context.Context, settings Settings) error
	ResetSettings(ctx context.Context) error
}
