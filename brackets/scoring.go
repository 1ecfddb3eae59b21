package brackets

import "github.com/poolside/bracket-pool/models"

// ScoreBreakdown is one user's realized and projected score.
type ScoreBreakdown struct {
	RoundScores      [models.RoundCount]int
	CurrentScore     int
	MaxPossibleScore int
}

// Score computes a user's breakdown from their picks, the declared winners on
// the graph, the round point values, and the current potential-winner sets.
// A correct pick on a decided game earns that round's points; a pick on an
// undecided game counts toward the maximum only while the team remains in the
// game's potential-winner set. A game with no potential-winner entry
// contributes nothing.
func Score(g *Graph, picks map[int]int, rounds map[int]*models.Round, potentials map[int][]int) ScoreBreakdown {
	var breakdown ScoreBreakdown
	potentialPoints := 0

	for gameID, teamID := range picks {
		game := g.Game(gameID)
		if game == nil {
			continue
		}
		round := rounds[game.RoundID]
		if round == nil {
			continue
		}

		if game.WinningTeamID != nil {
			if *game.WinningTeamID == teamID && game.RoundID >= 1 && game.RoundID <= models.RoundCount {
				breakdown.RoundScores[game.RoundID-1] += round.Points
			}
			continue
		}

		for _, potential := range potentials[gameID] {
			if potential == teamID {
				potentialPoints += round.Points
				break
			}
		}
	}

	for _, score := range breakdown.RoundScores {
		breakdown.CurrentScore += score
	}
	breakdown.MaxPossibleScore = breakdown.CurrentScore + potentialPoints
	return breakdown
}
