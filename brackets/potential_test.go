package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPotentialWinnersRoundOne(t *testing.T) {
	games, _ := testBracket()
	g := NewGraph(games)

	for _, gameID := range []int{1, 2, 3, 4} {
		game := g.Game(gameID)
		assert.Equal(t, []int{*game.Team1ID, *game.Team2ID}, PotentialWinners(g, gameID))
	}
}

func TestPotentialWinnersUnionAndIdempotence(t *testing.T) {
	games, _ := testBracket()
	g := NewGraph(games)

	first := AllPotentialWinners(g)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, first[5])
	assert.ElementsMatch(t, []int{5, 6, 7, 8}, first[6])
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, first[7])

	// With no intervening winner change a rebuild returns the same sets.
	assert.Equal(t, first, AllPotentialWinners(g))
}

func TestPotentialWinnersCollapseOnDeclaredResult(t *testing.T) {
	games, _ := testBracket()
	g := NewGraph(games)

	// Seed 1 beats seed 16: downstream games now include seed 1's team and
	// exclude seed 16's.
	declareWinner(g, 1, 1)

	potentials := AllPotentialWinners(g)
	assert.Equal(t, []int{1}, potentials[1])
	assert.ElementsMatch(t, []int{1, 3, 4}, potentials[5])
	assert.Contains(t, potentials[7], 1)
	assert.NotContains(t, potentials[7], 2)
}

func TestPotentialWinnersIgnoreUserPicks(t *testing.T) {
	// The calculator reads only declared results; compare against the pick
	// resolver, which honors the user's committed path.
	games, _ := testBracket()
	g := NewGraph(games)

	picks := map[int]int{1: 2, 2: 3}
	assert.ElementsMatch(t, []int{2, 3}, PotentialPicks(g, 5, false, picks))
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, PotentialWinners(g, 5))
}

func TestLosingTeams(t *testing.T) {
	games, _ := testBracket()
	g := NewGraph(games)

	assert.Empty(t, LosingTeams(g))

	declareWinner(g, 1, 1)
	declareWinner(g, 2, 3)
	declareWinner(g, 5, 3)

	lost := LosingTeams(g)
	require.Len(t, lost, 3)
	assert.True(t, lost[2])
	assert.True(t, lost[4])
	assert.True(t, lost[1], "team 1 lost in the semifinal")
}
