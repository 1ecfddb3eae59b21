package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolside/bracket-pool/models"
)

func newTestPickService(gameRepo *fakeGameRepo, pickRepo *fakePickRepo, userRepo *fakeUserRepo, deadline time.Time) PickService {
	standings := newTestStandingsService(gameRepo, pickRepo, userRepo)
	return NewPickService(
		nil,
		gameRepo,
		pickRepo,
		newFakeTeamRepo(testTeams()),
		userRepo,
		&fakeLogRepo{},
		standings,
		deadline,
		discardLogger(),
	)
}

// newTxPickService routes the service's transactions through a fakeTx so the
// mutating flows can run against the in-memory repositories.
func newTxPickService(gameRepo *fakeGameRepo, pickRepo *fakePickRepo, userRepo *fakeUserRepo) (PickService, *fakeTx) {
	svc := newTestPickService(gameRepo, pickRepo, userRepo, time.Time{}).(*pickService)
	tx := &fakeTx{}
	svc.begin = beginFake(tx)
	return svc, tx
}

func TestSavePicksDropsIllegalPickKeepsRest(t *testing.T) {
	pickRepo := newFakePickRepo()
	svc, tx := newTxPickService(newFakeGameRepo(testGames()), pickRepo, newFakeUserRepo([]*models.User{testUser(10, "Ada")}))

	// Team 5 plays in game 3, not game 2; that pick is dropped while the
	// rest of the batch lands.
	result, err := svc.SavePicks(context.Background(), testPoolID, 10, map[int]*int{1: intp(1), 2: intp(5)})
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 1}, result.Saved)
	assert.Equal(t, map[int]int{2: 5}, result.Dropped)
	assert.Empty(t, result.Cleared)
	assert.False(t, result.IsBracketValid)

	stored, err := pickRepo.MapByUser(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1}, stored, "only the legal pick persisted")
	assert.Equal(t, 1, tx.commits)
}

func TestSavePicksBackfillsEarlierRounds(t *testing.T) {
	pickRepo := newFakePickRepo()
	svc, _ := newTxPickService(newFakeGameRepo(testGames()), pickRepo, newFakeUserRepo([]*models.User{testUser(10, "Ada")}))

	// Picking team 1 in game 5 with game 1 unpicked implies team 1 won
	// game 1, so that pick is backfilled.
	result, err := svc.SavePicks(context.Background(), testPoolID, 10, map[int]*int{5: intp(1)})
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 1, 5: 1}, result.Saved)
	assert.Equal(t, map[int]int{1: 1}, result.Inferred)
	assert.Empty(t, result.Dropped, "the other feeder of game 5 stays open, not dropped")

	stored, err := pickRepo.MapByUser(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 5: 1}, stored)
}

func TestSavePicksClearInvalidatesBracket(t *testing.T) {
	user := testUser(10, "Ada")
	user.IsBracketValid = true
	pickRepo := newFakePickRepo()
	for gameID, teamID := range map[int]int{1: 1, 2: 3, 3: 5, 4: 7, 5: 1, 6: 5, 7: 1} {
		pickRepo.set(10, gameID, teamID)
	}

	svc, tx := newTxPickService(newFakeGameRepo(testGames()), pickRepo, newFakeUserRepo([]*models.User{user}))
	result, err := svc.SavePicks(context.Background(), testPoolID, 10, map[int]*int{7: nil})
	require.NoError(t, err)

	assert.Equal(t, []int{7}, result.Cleared)
	assert.False(t, result.IsBracketValid, "bracket incomplete after the clear")
	assert.False(t, user.IsBracketValid)

	stored, err := pickRepo.MapByUser(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.NotContains(t, stored, 7)
	assert.Equal(t, 1, tx.commits)
}

func TestAutoFillPicksBetterSeeds(t *testing.T) {
	user := testUser(10, "Ada")
	pickRepo := newFakePickRepo()
	svc, tx := newTxPickService(newFakeGameRepo(testGames()), pickRepo, newFakeUserRepo([]*models.User{user}))

	result, err := svc.AutoFill(context.Background(), testPoolID, 10)
	require.NoError(t, err)

	assert.Len(t, result.Added, 7)
	assert.True(t, result.IsBracketValid)
	assert.True(t, user.IsBracketValid)

	stored, err := pickRepo.MapByUser(context.Background(), nil, 10)
	require.NoError(t, err)
	// Best seeds all the way: 1 over 16, 8 over 9, 3 over 11, 4 over 13,
	// then the better seed of each pairing.
	assert.Equal(t, map[int]int{1: 1, 2: 3, 3: 5, 4: 7, 5: 1, 6: 5, 7: 1}, stored)
	assert.Equal(t, 1, tx.commits)
}

func TestPickMutationsRejectedAfterDeadline(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	svc := newTestPickService(newFakeGameRepo(testGames()), newFakePickRepo(), newFakeUserRepo(nil), past)

	_, err := svc.SavePicks(context.Background(), testPoolID, 10, map[int]*int{1: intp(1)})
	assert.ErrorIs(t, err, ErrPicksLocked)

	err = svc.ClearPicks(context.Background(), testPoolID, 10)
	assert.ErrorIs(t, err, ErrPicksLocked)

	_, err = svc.AutoFill(context.Background(), testPoolID, 10)
	assert.ErrorIs(t, err, ErrPicksLocked)
}

func TestPickOptionsFollowStoredPicks(t *testing.T) {
	pickRepo := newFakePickRepo()
	pickRepo.set(10, 1, 1) // user committed to team 1 in game 1

	svc := newTestPickService(newFakeGameRepo(testGames()), pickRepo, newFakeUserRepo([]*models.User{testUser(10, "Ada")}), time.Time{})
	options, err := svc.PickOptions(context.Background(), testPoolID, 10)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 2}, options[1], "round-1 options are the seeded teams")
	// The stored round-1 pick narrows game 5 to team 1 plus game 2's field.
	assert.ElementsMatch(t, []int{1, 3, 4}, options[5])
	assert.ElementsMatch(t, []int{1, 3, 4, 5, 6, 7, 8}, options[7])
}

func TestUserBracketReportsEliminatedTeams(t *testing.T) {
	games := testGames()
	games[0].WinningTeamID = intp(2) // team 1 out

	pickRepo := newFakePickRepo()
	pickRepo.set(10, 1, 1)
	pickRepo.set(10, 5, 1) // same dead team picked twice

	user := testUser(10, "Ada")
	user.IsBracketValid = false

	svc := newTestPickService(newFakeGameRepo(games), pickRepo, newFakeUserRepo([]*models.User{user}), time.Time{})
	view, err := svc.UserBracket(context.Background(), testPoolID, 10)
	require.NoError(t, err)

	assert.Equal(t, "Ada", view.FullName)
	assert.Len(t, view.Picks, 2)
	assert.Equal(t, []int{1}, view.EliminatedTeams, "dead team listed once")
}

func TestUserBracketUnknownUser(t *testing.T) {
	svc := newTestPickService(newFakeGameRepo(testGames()), newFakePickRepo(), newFakeUserRepo(nil), time.Time{})
	_, err := svc.UserBracket(context.Background(), testPoolID, 99)
	assert.Error(t, err)
}
