package models

// Game is one node of the elimination tree. Team1ID/Team2ID are nil until the
// feeder games produce winners (round-1 games have both set at seeding time).
// WinnerGoesToGameID is nil only for the championship game.
type Game struct {
	ID                 int  `json:"id"`
	PoolID             int  `json:"pool_id"`
	RoundID            int  `json:"round_id"`
	WinnerGoesToGameID *int `json:"winner_goes_to_game_id,omitempty"`
	Team1ID            *int `json:"team1_id,omitempty"`
	Team2ID            *int `json:"team2_id,omitempty"`
	WinningTeamID      *int `json:"winning_team_id,omitempty"`

	Round *Round `json:"round,omitempty"`
	Team1 *Team  `json:"team1,omitempty"`
	Team2 *Team  `json:"team2,omitempty"`
}

// HasTeam reports whether teamID currently occupies one of the game's slots.
func (g *Game) HasTeam(teamID int) bool {
	return (g.Team1ID != nil && *g.Team1ID == teamID) || (g.Team2ID != nil && *g.Team2ID == teamID)
}

// SlotsComplete reports whether both team slots are populated, which is a
// precondition for declaring a winner.
func (g *Game) SlotsComplete() bool {
	return g.Team1ID != nil && g.Team2ID != nil
}
