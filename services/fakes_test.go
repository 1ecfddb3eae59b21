package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/repositories"
)

// In-memory repository fakes. Each holds plain maps and ignores the exec
// argument; transactional flows run through fakeTx so the whole service
// surface is testable without a live database.

type fakeTx struct {
	commits   int
	rollbacks int
}

func (f *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.commits++
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rollbacks++
	return nil
}

// beginFake wires a service's transaction seam to a shared fakeTx.
func beginFake(tx *fakeTx) txBeginner {
	return func(context.Context) (sqlTx, error) {
		return tx, nil
	}
}

type fakeGameRepo struct {
	games map[int]*models.Game
}

func newFakeGameRepo(games []*models.Game) *fakeGameRepo {
	byID := make(map[int]*models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}
	return &fakeGameRepo{games: byID}
}

func (f *fakeGameRepo) ListByPool(_ context.Context, _ repositories.SQLExecutor, poolID int) ([]*models.Game, error) {
	var out []*models.Game
	for _, g := range f.games {
		if g.PoolID == poolID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGameRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	return g, nil
}

func (f *fakeGameRepo) Insert(_ context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	f.games[game.ID] = game
	return nil
}

func (f *fakeGameRepo) SetDownstream(_ context.Context, _ repositories.SQLExecutor, gameID int, downstreamGameID *int) error {
	g, ok := f.games[gameID]
	if !ok {
		return repositories.ErrGameNotFound
	}
	g.WinnerGoesToGameID = downstreamGameID
	return nil
}

func (f *fakeGameRepo) UpdateBracketState(_ context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	if _, ok := f.games[game.ID]; !ok {
		return repositories.ErrGameNotFound
	}
	f.games[game.ID] = game
	return nil
}

func (f *fakeGameRepo) DeleteByPool(_ context.Context, _ repositories.SQLExecutor, poolID int) error {
	for id, g := range f.games {
		if g.PoolID == poolID {
			delete(f.games, id)
		}
	}
	return nil
}

type fakePickRepo struct {
	// picks[userID][gameID] = teamID
	picks map[int]map[int]int
}

func newFakePickRepo() *fakePickRepo {
	return &fakePickRepo{picks: make(map[int]map[int]int)}
}

func (f *fakePickRepo) set(userID, gameID, teamID int) {
	if f.picks[userID] == nil {
		f.picks[userID] = make(map[int]int)
	}
	f.picks[userID][gameID] = teamID
}

func (f *fakePickRepo) MapByUser(_ context.Context, _ repositories.SQLExecutor, userID int) (map[int]int, error) {
	out := make(map[int]int, len(f.picks[userID]))
	for gameID, teamID := range f.picks[userID] {
		out[gameID] = teamID
	}
	return out, nil
}

func (f *fakePickRepo) ListByUser(_ context.Context, _ repositories.SQLExecutor, userID int) ([]*models.Pick, error) {
	var out []*models.Pick
	for gameID, teamID := range f.picks[userID] {
		out = append(out, &models.Pick{UserID: userID, GameID: gameID, TeamID: teamID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out, nil
}

func (f *fakePickRepo) MapByGame(_ context.Context, _ repositories.SQLExecutor, gameID int) (map[int]int, error) {
	out := make(map[int]int)
	for userID, byGame := range f.picks {
		if teamID, ok := byGame[gameID]; ok {
			out[userID] = teamID
		}
	}
	return out, nil
}

func (f *fakePickRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, userID, gameID, teamID int) error {
	f.set(userID, gameID, teamID)
	return nil
}

func (f *fakePickRepo) Delete(_ context.Context, _ repositories.SQLExecutor, userID, gameID int) error {
	delete(f.picks[userID], gameID)
	return nil
}

func (f *fakePickRepo) DeleteByUser(_ context.Context, _ repositories.SQLExecutor, userID int) error {
	delete(f.picks, userID)
	return nil
}

type fakeRoundRepo struct {
	rounds map[int]*models.Round
}

func newFakeRoundRepo(rounds []*models.Round) *fakeRoundRepo {
	byID := make(map[int]*models.Round, len(rounds))
	for _, r := range rounds {
		byID[r.ID] = r
	}
	return &fakeRoundRepo{rounds: byID}
}

func (f *fakeRoundRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.Round, error) {
	var out []*models.Round
	for _, r := range f.rounds {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRoundRepo) MapByID(_ context.Context, _ repositories.SQLExecutor) (map[int]*models.Round, error) {
	out := make(map[int]*models.Round, len(f.rounds))
	for id, r := range f.rounds {
		out[id] = r
	}
	return out, nil
}

func (f *fakeRoundRepo) UpdatePoints(_ context.Context, _ repositories.SQLExecutor, roundID, points int) error {
	r, ok := f.rounds[roundID]
	if !ok {
		return repositories.ErrRoundNotFound
	}
	r.Points = points
	return nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams []*models.Team) *fakeTeamRepo {
	byID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return &fakeTeamRepo{teams: byID}
}

func (f *fakeTeamRepo) ListByPool(_ context.Context, _ repositories.SQLExecutor, _ int) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range f.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTeamRepo) MapByPool(_ context.Context, _ repositories.SQLExecutor, _ int) (map[int]*models.Team, error) {
	out := make(map[int]*models.Team, len(f.teams))
	for id, t := range f.teams {
		out[id] = t
	}
	return out, nil
}

func (f *fakeTeamRepo) Rename(_ context.Context, _ repositories.SQLExecutor, teamID int, name string) error {
	t, ok := f.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Name = name
	return nil
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(users []*models.User) *fakeUserRepo {
	byID := make(map[int]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &fakeUserRepo{users: byID}
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ListByPool(_ context.Context, _ repositories.SQLExecutor, poolID int, validBracketsOnly bool) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.PoolID != poolID {
			continue
		}
		if validBracketsOnly && !u.IsBracketValid {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) UpdateScores(_ context.Context, _ repositories.SQLExecutor, user *models.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	stored.RoundScores = user.RoundScores
	stored.CurrentScore = user.CurrentScore
	stored.MaxPossibleScore = user.MaxPossibleScore
	return nil
}

func (f *fakeUserRepo) UpdateBracketStatus(_ context.Context, _ repositories.SQLExecutor, userID int, valid bool, savedAt time.Time) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsBracketValid = valid
	u.LastBracketSave = &savedAt
	return nil
}

type fakeLogRepo struct {
	entries []*models.LogEntry
}

func (f *fakeLogRepo) Create(_ context.Context, _ repositories.SQLExecutor, entry *models.LogEntry) error {
	entry.ID = len(f.entries) + 1
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLogRepo) ListByPool(_ context.Context, _ repositories.SQLExecutor, _ int, category *models.LogCategory, userID *int) ([]*models.LogEntry, error) {
	var out []*models.LogEntry
	for _, e := range f.entries {
		if category != nil && e.Category != *category {
			continue
		}
		if userID != nil && e.UserID != *userID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakePotentialRepo struct {
	byGame map[int][]int
}

func (f *fakePotentialRepo) ReplaceAll(_ context.Context, _ repositories.SQLExecutor, _ int, byGame map[int][]int) error {
	f.byGame = byGame
	return nil
}

func (f *fakePotentialRepo) MapByPool(_ context.Context, _ repositories.SQLExecutor, _ int) (map[int][]int, error) {
	return f.byGame, nil
}
