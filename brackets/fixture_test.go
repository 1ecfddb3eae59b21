package brackets

import (
	"github.com/poolside/bracket-pool/models"
)

func intp(v int) *int { return &v }

// testBracket builds an eight-team, three-round bracket:
//
//	g1: t1 (seed 1) vs t2 (seed 16) ─┐
//	g2: t3 (seed 8) vs t4 (seed 9)  ─┴→ g5 ─┐
//	g3: t5 (seed 3) vs t6 (seed 11) ─┐      ├→ g7
//	g4: t7 (seed 4) vs t8 (seed 13) ─┴→ g6 ─┘
func testBracket() ([]*models.Game, map[int]*models.Team) {
	games := []*models.Game{
		{ID: 1, PoolID: 1, RoundID: 1, WinnerGoesToGameID: intp(5), Team1ID: intp(1), Team2ID: intp(2)},
		{ID: 2, PoolID: 1, RoundID: 1, WinnerGoesToGameID: intp(5), Team1ID: intp(3), Team2ID: intp(4)},
		{ID: 3, PoolID: 1, RoundID: 1, WinnerGoesToGameID: intp(6), Team1ID: intp(5), Team2ID: intp(6)},
		{ID: 4, PoolID: 1, RoundID: 1, WinnerGoesToGameID: intp(6), Team1ID: intp(7), Team2ID: intp(8)},
		{ID: 5, PoolID: 1, RoundID: 2, WinnerGoesToGameID: intp(7)},
		{ID: 6, PoolID: 1, RoundID: 2, WinnerGoesToGameID: intp(7)},
		{ID: 7, PoolID: 1, RoundID: 3},
	}
	teams := map[int]*models.Team{
		1: {ID: 1, Seed: 1, Name: "Top Seeds", RegionID: 1},
		2: {ID: 2, Seed: 16, Name: "Long Shots", RegionID: 1},
		3: {ID: 3, Seed: 8, Name: "Middlers", RegionID: 1},
		4: {ID: 4, Seed: 9, Name: "Nine Lives", RegionID: 1},
		5: {ID: 5, Seed: 3, Name: "Contenders", RegionID: 2},
		6: {ID: 6, Seed: 11, Name: "Upstarts", RegionID: 2},
		7: {ID: 7, Seed: 4, Name: "Fourth Estate", RegionID: 2},
		8: {ID: 8, Seed: 13, Name: "Baker's Dozen", RegionID: 2},
	}
	return games, teams
}

func testRounds() map[int]*models.Round {
	return map[int]*models.Round{
		1: {ID: 1, Name: "First Round", Points: 1},
		2: {ID: 2, Name: "Semifinals", Points: 2},
		3: {ID: 3, Name: "Championship", Points: 3},
	}
}

// declareWinner is a test helper that fails on error.
func declareWinner(g *Graph, gameID, teamID int) *ApplyResult {
	result, err := ApplyWinner(g, gameID, intp(teamID))
	if err != nil {
		panic(err)
	}
	return result
}
