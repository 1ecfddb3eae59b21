package models

// Pick is a user's predicted winner for one game. One row per (user, game).
type Pick struct {
	ID     int `json:"id"`
	UserID int `json:"user_id"`
	GameID int `json:"game_id"`
	TeamID int `json:"team_id"`

	Team *Team `json:"team,omitempty"`
}
