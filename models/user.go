package models

import "time"

type User struct {
	ID       int    `json:"id"`
	PoolID   int    `json:"pool_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`

	// Per-round realized scores, index 0 = round 1. Mutated only by the
	// standings recalculation.
	RoundScores      [RoundCount]int `json:"round_scores"`
	CurrentScore     int             `json:"current_score"`
	MaxPossibleScore int             `json:"max_possible_score"`

	IsBracketValid  bool       `json:"is_bracket_valid"`
	LastBracketSave *time.Time `json:"last_bracket_save,omitempty"`

	// Predicted final-game totals, used as a manual tie-break outside the
	// scoring engine.
	TiebreakerWinner int `json:"tiebreaker_winner"`
	TiebreakerLoser  int `json:"tiebreaker_loser"`

	CreatedAt time.Time `json:"created_at"`
}
