package models

import "time"

type LogCategory string

const (
	LogSetWinner       LogCategory = "Set Winner"
	LogChangeWinner    LogCategory = "Change Winner"
	LogRemoveWinner    LogCategory = "Remove Winner"
	LogValidBracket    LogCategory = "Valid Bracket"
	LogInvalidBracket  LogCategory = "Invalid Bracket"
	LogFillBetterSeeds LogCategory = "Fill Better Seeds"
	LogClearPicks      LogCategory = "Clear Picks"
	LogResetGames      LogCategory = "Reset Games"
	LogManageRounds    LogCategory = "Manage Rounds"
	LogManageTeams     LogCategory = "Manage Teams"
	LogManageRegions   LogCategory = "Manage Regions"
)

// LogEntry is one audit record. Every mutation of winners, picks, or bracket
// configuration writes one.
type LogEntry struct {
	ID          int         `json:"id"`
	Category    LogCategory `json:"category"`
	UserID      int         `json:"user_id"`
	Description string      `json:"description"`
	Timestamp   time.Time   `json:"timestamp"`

	UserFullName string `json:"user_full_name,omitempty"`
}
