package brackets

// PotentialWinners computes the teams that could still mathematically win
// into a game given the declared results only. A declared winner collapses
// the set to that one team; otherwise the sets of the feeder games union.
// User picks play no part here.
func PotentialWinners(g *Graph, gameID int) []int {
	return potentialWinners(g, gameID, make(map[int][]int))
}

// AllPotentialWinners rebuilds the potential-winner set for every game from
// scratch. A single winner change can alter the set of games far downstream
// through shared ancestry, so the cache is never patched incrementally.
func AllPotentialWinners(g *Graph) map[int][]int {
	memo := make(map[int][]int)
	result := make(map[int][]int, len(g.Games()))
	for _, game := range g.Games() {
		result[game.ID] = potentialWinners(g, game.ID, memo)
	}
	return result
}

func potentialWinners(g *Graph, gameID int, memo map[int][]int) []int {
	if cached, ok := memo[gameID]; ok {
		return cached
	}

	game := g.Game(gameID)
	if game == nil {
		return nil
	}

	var result []int
	switch {
	case game.WinningTeamID != nil:
		result = []int{*game.WinningTeamID}
	case game.RoundID == 1:
		result = make([]int, 0, 2)
		if game.Team1ID != nil {
			result = append(result, *game.Team1ID)
		}
		if game.Team2ID != nil {
			result = append(result, *game.Team2ID)
		}
	default:
		for _, feeder := range g.Feeders(gameID) {
			result = append(result, potentialWinners(g, feeder.ID, memo)...)
		}
	}

	memo[gameID] = result
	return result
}

// LosingTeams returns the ids of teams eliminated by a declared result.
func LosingTeams(g *Graph) map[int]bool {
	lost := make(map[int]bool)
	for _, game := range g.Games() {
		if game.WinningTeamID == nil {
			continue
		}
		if game.Team1ID != nil && *game.Team1ID != *game.WinningTeamID {
			lost[*game.Team1ID] = true
		}
		if game.Team2ID != nil && *game.Team2ID != *game.WinningTeamID {
			lost[*game.Team2ID] = true
		}
	}
	return lost
}
