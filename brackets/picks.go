package brackets

import (
	"sort"

	"github.com/poolside/bracket-pool/models"
)

type pickKey struct {
	gameID    int
	useStored bool
}

// PotentialPicks computes the set of teams a user may legally pick for a
// game. With useStoredPick set, a stored pick for the game short-circuits the
// walk: a prior pick already narrows the field to one team, and recursing
// past it would widen the options to every possible bracket outcome instead
// of the user's own predicted path.
func PotentialPicks(g *Graph, gameID int, useStoredPick bool, picks map[int]int) []int {
	return potentialPicks(g, gameID, useStoredPick, picks, make(map[pickKey][]int))
}

// PotentialPicksAll resolves the legal-pick options for every game at once,
// sharing one memo across the walks.
func PotentialPicksAll(g *Graph, picks map[int]int) map[int][]int {
	memo := make(map[pickKey][]int)
	options := make(map[int][]int, len(g.Games()))
	for _, game := range g.Games() {
		options[game.ID] = potentialPicks(g, game.ID, false, picks, memo)
	}
	return options
}

func potentialPicks(g *Graph, gameID int, useStoredPick bool, picks map[int]int, memo map[pickKey][]int) []int {
	key := pickKey{gameID: gameID, useStored: useStoredPick}
	if cached, ok := memo[key]; ok {
		return cached
	}

	game := g.Game(gameID)
	if game == nil {
		return nil
	}

	if useStoredPick {
		if teamID, ok := picks[gameID]; ok {
			result := []int{teamID}
			memo[key] = result
			return result
		}
	}

	if game.RoundID == 1 {
		result := make([]int, 0, 2)
		if game.Team1ID != nil {
			result = append(result, *game.Team1ID)
		}
		if game.Team2ID != nil {
			result = append(result, *game.Team2ID)
		}
		memo[key] = result
		return result
	}

	var result []int
	for _, feeder := range g.Feeders(gameID) {
		result = append(result, potentialPicks(g, feeder.ID, true, picks, memo)...)
	}
	memo[key] = result
	return result
}

// IsBracketValid reports whether the user's picks form a self-consistent
// bracket: every game beyond round 1 has a pick, and each such pick matches
// the user's pick for one of the game's feeder games.
func IsBracketValid(g *Graph, picks map[int]int) bool {
	for _, game := range g.Games() {
		if game.RoundID == 1 {
			continue
		}
		teamID, ok := picks[game.ID]
		if !ok {
			return false
		}
		matched := false
		for _, feeder := range g.Feeders(game.ID) {
			feederPick, ok := picks[feeder.ID]
			if !ok {
				return false
			}
			if feederPick == teamID {
				matched = true
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// LaterRoundPick walks downstream from the given game looking for the first
// selection the user made in a later round. A pick entered directly for a
// later round implies picks for the skipped earlier games along that path.
func LaterRoundPick(g *Graph, game *models.Game, selections map[int]int) (int, bool) {
	for next := g.Downstream(game); next != nil; next = g.Downstream(next) {
		if teamID, ok := selections[next.ID]; ok {
			return teamID, true
		}
	}
	return 0, false
}

// BestSeedPick picks the candidate with the numerically lowest seed. Ties
// resolve to the first candidate encountered.
func BestSeedPick(candidates []int, teams map[int]*models.Team) (int, bool) {
	bestID := 0
	bestSeed := 0
	found := false
	for _, teamID := range candidates {
		team := teams[teamID]
		if team == nil {
			continue
		}
		if !found || team.Seed < bestSeed {
			bestID = teamID
			bestSeed = team.Seed
			found = true
		}
	}
	return bestID, found
}

// AutoFillPicks fills every unpicked game with the best-seeded team from its
// potential-pick set and returns the picks that were added. Games are
// processed round by round with a fresh memo per round, so a later round sees
// the picks filled into the rounds before it.
func AutoFillPicks(g *Graph, picks map[int]int, teams map[int]*models.Team) map[int]int {
	byRound := make(map[int][]*models.Game)
	roundIDs := make([]int, 0, models.RoundCount)
	for _, game := range g.Games() {
		if _, seen := byRound[game.RoundID]; !seen {
			roundIDs = append(roundIDs, game.RoundID)
		}
		byRound[game.RoundID] = append(byRound[game.RoundID], game)
	}
	sort.Ints(roundIDs)

	added := make(map[int]int)
	for _, roundID := range roundIDs {
		memo := make(map[pickKey][]int)
		for _, game := range byRound[roundID] {
			if _, picked := picks[game.ID]; picked {
				continue
			}
			candidates := potentialPicks(g, game.ID, false, picks, memo)
			teamID, ok := BestSeedPick(candidates, teams)
			if !ok {
				continue
			}
			picks[game.ID] = teamID
			added[game.ID] = teamID
		}
	}
	return added
}
