package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolside/bracket-pool/models"
)

func newTxSeedService(gameRepo *fakeGameRepo, potentialRepo *fakePotentialRepo, logRepo *fakeLogRepo) (SeedService, *fakeTx) {
	svc := NewSeedService(nil, gameRepo, potentialRepo, logRepo, discardLogger()).(*seedService)
	tx := &fakeTx{}
	svc.begin = beginFake(tx)
	return svc, tx
}

func testSeeds() []GameSeed {
	return []GameSeed{
		{GameID: 1, RoundID: 1, Team1ID: intp(1), Team2ID: intp(2), WinnerGoesToGameID: intp(5)},
		{GameID: 2, RoundID: 1, Team1ID: intp(3), Team2ID: intp(4), WinnerGoesToGameID: intp(5)},
		{GameID: 3, RoundID: 1, Team1ID: intp(5), Team2ID: intp(6), WinnerGoesToGameID: intp(6)},
		{GameID: 4, RoundID: 1, Team1ID: intp(7), Team2ID: intp(8), WinnerGoesToGameID: intp(6)},
		{GameID: 5, RoundID: 2, WinnerGoesToGameID: intp(7)},
		{GameID: 6, RoundID: 2, WinnerGoesToGameID: intp(7)},
		{GameID: 7, RoundID: 3},
	}
}

func TestSeedBracketBuildsGraph(t *testing.T) {
	gameRepo := newFakeGameRepo(nil)
	potentialRepo := &fakePotentialRepo{}
	logRepo := &fakeLogRepo{}
	svc, tx := newTxSeedService(gameRepo, potentialRepo, logRepo)

	require.NoError(t, svc.SeedBracket(context.Background(), testPoolID, 1, testSeeds()))

	games, err := gameRepo.ListByPool(context.Background(), nil, testPoolID)
	require.NoError(t, err)
	require.Len(t, games, 7)
	require.NotNil(t, games[0].WinnerGoesToGameID)
	assert.Equal(t, 5, *games[0].WinnerGoesToGameID)

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, potentialRepo.byGame[7])

	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, models.LogResetGames, logRepo.entries[0].Category)
	assert.Equal(t, 1, tx.commits)
}

func TestSeedBracketCarriesDecidedWinners(t *testing.T) {
	// A mid-tournament skeleton: game 1 is already decided and its winner
	// occupies a slot in game 5.
	seeds := testSeeds()
	seeds[0].WinningTeamID = intp(1)
	seeds[4].Team1ID = intp(1)

	gameRepo := newFakeGameRepo(nil)
	potentialRepo := &fakePotentialRepo{}
	svc, _ := newTxSeedService(gameRepo, potentialRepo, &fakeLogRepo{})

	require.NoError(t, svc.SeedBracket(context.Background(), testPoolID, 1, seeds))

	g1, err := gameRepo.GetByID(context.Background(), nil, 1)
	require.NoError(t, err)
	require.NotNil(t, g1.WinningTeamID)
	assert.Equal(t, 1, *g1.WinningTeamID)

	// The decided game collapses to its winner in the potential sets.
	assert.Equal(t, []int{1}, potentialRepo.byGame[1])
	assert.ElementsMatch(t, []int{1, 3, 4}, potentialRepo.byGame[5])
}

func TestSeedBracketRejectsEmptySeedList(t *testing.T) {
	svc, tx := newTxSeedService(newFakeGameRepo(nil), &fakePotentialRepo{}, &fakeLogRepo{})

	err := svc.SeedBracket(context.Background(), testPoolID, 1, nil)
	assert.ErrorIs(t, err, ErrBracketCorrupt)
	assert.Zero(t, tx.commits)
}
