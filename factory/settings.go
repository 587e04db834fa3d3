/*
Package factory converts between JSON settings documents and household.Settings.

PURPOSE:
  Settings travel as JSON in two places: the HTTP API and the settings row
  in SQLite. The factory owns that shape so both agree, and so every
  document is validated before it reaches the engine.

JSON SCHEMA:
  {
    "interest_rate": 0.05,
    "interest_threshold_hours": 48,
    "multipliers": {"workbook": 2.0, "book": 1.5, "video": 1.2},
    "withdraw_multipliers": {"youtube_game": 1.2, "tv_watch": 1.0}
  }

  Every field is required. Unknown categories are rejected. Documents are
  never merged with the defaults: settings are replaced wholesale.

USAGE:
  f := factory.NewSettingsFactory()
  settings, err := f.ParseSettings(body)
  doc := f.ToJSON(settings)

SEE ALSO:
  - household/settings.go: Settings and Validate
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/timebank/bank"
	"github.com/warp/timebank/household"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SettingsJSON is the JSON representation of household.Settings.
type SettingsJSON struct {
	InterestRate           *float64           `json:"interest_rate"`
	InterestThresholdHours *float64           `json:"interest_threshold_hours"`
	Multipliers            map[string]float64 `json:"multipliers"`
	WithdrawMultipliers    map[string]float64 `json:"withdraw_multipliers"`
}

// =============================================================================
// SETTINGS FACTORY
// =============================================================================

// SettingsFactory converts settings documents.
type SettingsFactory struct{}

func NewSettingsFactory() *SettingsFactory {
	return &SettingsFactory{}
}

// ParseSettings parses and validates a JSON document.
func (f *SettingsFactory) ParseSettings(data []byte) (household.Settings, error) {
	var sj SettingsJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return household.Settings{}, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts and validates a decoded document.
func (f *SettingsFactory) FromJSON(sj SettingsJSON) (household.Settings, error) {
	if sj.InterestRate == nil {
		return household.Settings{}, &bank.InvalidPolicyError{Field: "interest_rate", Reason: "is missing"}
	}
	if sj.InterestThresholdHours == nil {
		return household.Settings{}, &bank.InvalidPolicyError{Field: "interest_threshold_hours", Reason: "is missing"}
	}

	settings := household.Settings{
		Policy: bank.Policy{
			InterestRate:           decimal.NewFromFloat(*sj.InterestRate),
			InterestThresholdHours: *sj.InterestThresholdHours,
		},
		StudyMultipliers:  make(map[household.StudyCategory]decimal.Decimal, len(sj.Multipliers)),
		ScreenMultipliers: make(map[household.ScreenCategory]decimal.Decimal, len(sj.WithdrawMultipliers)),
	}

	for name, v := range sj.Multipliers {
		c := household.StudyCategory(name)
		if !isStudyCategory(c) {
			return household.Settings{}, &bank.InvalidPolicyError{Field: "multipliers." + name, Reason: "is not a known category"}
		}
		settings.StudyMultipliers[c] = decimal.NewFromFloat(v)
	}
	for name, v := range sj.WithdrawMultipliers {
		c := household.ScreenCategory(name)
		if !isScreenCategory(c) {
			return household.Settings{}, &bank.InvalidPolicyError{Field: "withdraw_multipliers." + name, Reason: "is not a known category"}
		}
		settings.ScreenMultipliers[c] = decimal.NewFromFloat(v)
	}

	if err := settings.Validate(); err != nil {
		return household.Settings{}, err
	}
	return settings, nil
}

// ToJSON converts settings to their JSON document.
func (f *SettingsFactory) ToJSON(s household.Settings) SettingsJSON {
	rate := s.Policy.InterestRate.InexactFloat64()
	hours := s.Policy.InterestThresholdHours

	sj := SettingsJSON{
		InterestRate:           &rate,
		InterestThresholdHours: &hours,
		Multipliers:            make(map[string]float64, len(s.StudyMultipliers)),
		WithdrawMultipliers:    make(map[string]float64, len(s.ScreenMultipliers)),
	}
	for c, m := range s.StudyMultipliers {
		sj.Multipliers[string(c)] = m.InexactFloat64()
	}
	for c, m := range s.ScreenMultipliers {
		sj.WithdrawMultipliers[string(c)] = m.InexactFloat64()
	}
	return sj
}

// Marshal encodes settings as a JSON document.
func (f *SettingsFactory) Marshal(s household.Settings) ([]byte, error) {
	return json.Marshal(f.ToJSON(s))
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func isStudyCategory(c household.StudyCategory) bool {
	for _, known := range household.StudyCategories {
		if c == known {
			return true
		}
	}
	return false
}

func isScreenCategory(c household.ScreenCategory) bool {
	for _, known := range household.ScreenCategories {
		if c == known {
			return true
		}
	}
	return false
}
