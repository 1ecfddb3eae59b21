package services

import (
	"github.com/poolside/bracket-pool/models"
)

const testPoolID = 1

func intp(v int) *int { return &v }

// testGames builds an 8-team, 3-round bracket: games 1-4 feed 5 and 6,
// which feed the final, game 7.
func testGames() []*models.Game {
	return []*models.Game{
		{ID: 1, PoolID: testPoolID, RoundID: 1, WinnerGoesToGameID: intp(5), Team1ID: intp(1), Team2ID: intp(2)},
		{ID: 2, PoolID: testPoolID, RoundID: 1, WinnerGoesToGameID: intp(5), Team1ID: intp(3), Team2ID: intp(4)},
		{ID: 3, PoolID: testPoolID, RoundID: 1, WinnerGoesToGameID: intp(6), Team1ID: intp(5), Team2ID: intp(6)},
		{ID: 4, PoolID: testPoolID, RoundID: 1, WinnerGoesToGameID: intp(6), Team1ID: intp(7), Team2ID: intp(8)},
		{ID: 5, PoolID: testPoolID, RoundID: 2, WinnerGoesToGameID: intp(7)},
		{ID: 6, PoolID: testPoolID, RoundID: 2, WinnerGoesToGameID: intp(7)},
		{ID: 7, PoolID: testPoolID, RoundID: 3},
	}
}

func testTeams() []*models.Team {
	return []*models.Team{
		{ID: 1, Seed: 1, Name: "Alphas", RegionID: 1},
		{ID: 2, Seed: 16, Name: "Bravos", RegionID: 1},
		{ID: 3, Seed: 8, Name: "Chargers", RegionID: 1},
		{ID: 4, Seed: 9, Name: "Drifters", RegionID: 1},
		{ID: 5, Seed: 3, Name: "Eagles", RegionID: 2},
		{ID: 6, Seed: 11, Name: "Foxes", RegionID: 2},
		{ID: 7, Seed: 4, Name: "Giants", RegionID: 2},
		{ID: 8, Seed: 13, Name: "Hawks", RegionID: 2},
	}
}

func testRounds() []*models.Round {
	return []*models.Round{
		{ID: 1, Name: "First Round", Points: 1},
		{ID: 2, Name: "Semifinals", Points: 2},
		{ID: 3, Name: "Championship", Points: 3},
	}
}

func testUser(id int, name string) *models.User {
	return &models.User{ID: id, PoolID: testPoolID, FullName: name}
}
