/*
Package household implements the family time bank on top of the bank engine.

PURPOSE:
  Children earn screen-time minutes by logging study activity and spend
  them on TV or games. This package owns everything the engine is agnostic
  about: who the children are, which activities exist, how many minutes an
  activity is worth, and when the engine runs.

KEY CONCEPTS:
  - Profile: A child whose ledger is tracked
  - StudyCategory / ScreenCategory: Activities with multipliers
  - Settings: Interest policy plus multiplier tables, replaced wholesale
  - Service: Records activity and keeps interest up to date

SEE ALSO:
  - bank/interest.go: The accrual engine this package drives
  - encourage: Message collaborator used when recording activity
*/
package household

import (
	"github.com/warp/timebank/bank"
)

// =============================================================================
// PROFILES
// =============================================================================

// Profile describes a child. Theme and Avatar are display hints only.
type Profile struct {
	ID     bank.SubjectID `toml:"id"`
	Name   string         `toml:"name"`
	Theme  string         `toml:"theme"`
	Avatar string         `toml:"avatar"`
}

// DefaultProfiles returns the two children the app ships with.
func DefaultProfiles() []Profile {
	return []Profile{
		{ID: "seoa", Name: "Seoa", Theme: "rose", Avatar: "👧🏻"},
		{ID: "seou", Name: "Seou", Theme: "sky", Avatar: "👦🏻"},
	}
}

// =============================================================================
// CATEGORIES
// =============================================================================

// StudyCategory is an activity that earns minutes.
type StudyCategory string

const (
	StudyWorkbook StudyCategory = "workbook"
	StudyBook     StudyCategory = "book"
	StudyVideo    StudyCategory = "video"
)

// StudyCategories lists study categories in display order.
var StudyCategories = []StudyCategory{StudyWorkbook, StudyBook, StudyVideo}

func (c StudyCategory) Label() string {
	switch c {
	case StudyWorkbook:
		return "Workbook"
	case StudyBook:
		return "Reading"
	case StudyVideo:
		return "Video lesson"
	default:
		return "Study"
	}
}

// ScreenCategory is an activity that spends minutes.
type ScreenCategory string

const (
	ScreenYouTubeGame ScreenCategory = "youtube_game"
	ScreenTV          ScreenCategory = "tv_watch"
)

// ScreenCategories lists screen categories in display order.
var ScreenCategories = []ScreenCategory{ScreenYouTubeGame, ScreenTV}

func (c ScreenCategory) Label() string {
	switch c {
	case ScreenYouTubeGame:
		return "YouTube/Games"
	case ScreenTV:
		return "TV"
	default:
		return "Screen time"
	}
}
