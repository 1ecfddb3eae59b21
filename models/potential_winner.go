package models

// PotentialWinner is the cached set of team ids that could still win into a
// game given the actual results so far. Rows are fully rebuilt on every
// winner change; there is exactly one row per game.
type PotentialWinner struct {
	GameID  int   `json:"game_id"`
	TeamIDs []int `json:"team_ids"`
}
