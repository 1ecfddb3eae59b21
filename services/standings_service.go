package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/poolside/bracket-pool/brackets"
	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/repositories"
)

// StandingsQuery controls how the ranked list is presented. Rank itself is
// always computed from the current score; sorting only reorders the rows.
type StandingsQuery struct {
	SortField  string // "rank" (default), "name", "max", "round1".."round6"
	Ascending  bool
	NameFilter string
}

type StandingsRow struct {
	Rank             int                    `json:"rank"`
	UserID           int                    `json:"user_id"`
	FullName         string                 `json:"full_name"`
	RoundScores      [models.RoundCount]int `json:"round_scores"`
	CurrentScore     int                    `json:"current_score"`
	MaxPossibleScore int                    `json:"max_possible_score"`
	IsBracketValid   bool                   `json:"is_bracket_valid"`

	// The user's championship-game pick, with elimination status so the
	// standings view can strike through dead champions.
	ChampionPick       *models.Team `json:"champion_pick,omitempty"`
	ChampionEliminated bool         `json:"champion_eliminated"`
}

type StandingsService interface {
	Recalculate(ctx context.Context, exec repositories.SQLExecutor, poolID int, onlyUserID *int) error
	Standings(ctx context.Context, poolID int, query StandingsQuery) ([]*StandingsRow, error)
	UpdateRoundPoints(ctx context.Context, poolID, actorID, roundID, points int) error
}

type standingsService struct {
	begin     txBeginner
	gameRepo  repositories.GameRepository
	pickRepo  repositories.PickRepository
	roundRepo repositories.RoundRepository
	teamRepo  repositories.TeamRepository
	userRepo  repositories.UserRepository
	logRepo   repositories.LogRepository
	logger    *slog.Logger
}

func NewStandingsService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	pickRepo repositories.PickRepository,
	roundRepo repositories.RoundRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	logRepo repositories.LogRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		begin:     beginFromDB(db),
		gameRepo:  gameRepo,
		pickRepo:  pickRepo,
		roundRepo: roundRepo,
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		logRepo:   logRepo,
		logger:    logger,
	}
}

// Recalculate recomputes every score field from scratch: per-round realized
// points, their sum, and the maximum still reachable given the current
// potential-winner sets. With onlyUserID set, only that user's row is
// recomputed (pick saves); winner changes recompute the whole pool.
func (s *standingsService) Recalculate(ctx context.Context, exec repositories.SQLExecutor, poolID int, onlyUserID *int) error {
	graph, err := loadGraph(ctx, exec, s.gameRepo, poolID)
	if err != nil {
		return err
	}

	rounds, err := s.roundRepo.MapByID(ctx, exec)
	if err != nil {
		return fmt.Errorf("failed to load rounds: %w", err)
	}
	potentials := brackets.AllPotentialWinners(graph)

	var users []*models.User
	if onlyUserID != nil {
		user, err := s.userRepo.GetByID(ctx, exec, *onlyUserID)
		if err != nil {
			return fmt.Errorf("failed to load user %d: %w", *onlyUserID, err)
		}
		users = []*models.User{user}
	} else {
		users, err = s.userRepo.ListByPool(ctx, exec, poolID, false)
		if err != nil {
			return fmt.Errorf("failed to list users for pool %d: %w", poolID, err)
		}
	}

	for _, user := range users {
		picks, err := s.pickRepo.MapByUser(ctx, exec, user.ID)
		if err != nil {
			return fmt.Errorf("failed to load picks for user %d: %w", user.ID, err)
		}
		breakdown := brackets.Score(graph, picks, rounds, potentials)
		user.RoundScores = breakdown.RoundScores
		user.CurrentScore = breakdown.CurrentScore
		user.MaxPossibleScore = breakdown.MaxPossibleScore
		if err := s.userRepo.UpdateScores(ctx, exec, user); err != nil {
			return fmt.Errorf("failed to store scores for user %d: %w", user.ID, err)
		}
	}
	return nil
}

func (s *standingsService) Standings(ctx context.Context, poolID int, query StandingsQuery) ([]*StandingsRow, error) {
	graph, err := loadGraph(ctx, nil, s.gameRepo, poolID)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByPool(ctx, nil, poolID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for pool %d: %w", poolID, err)
	}

	teams, err := s.teamRepo.MapByPool(ctx, nil, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for pool %d: %w", poolID, err)
	}

	championPicks := map[int]int{}
	root := graph.Root()
	if root != nil {
		championPicks, err = s.pickRepo.MapByGame(ctx, nil, root.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load championship picks: %w", err)
		}
	}
	eliminated := brackets.LosingTeams(graph)

	rows := make([]*StandingsRow, 0, len(users))
	for _, user := range users {
		if query.NameFilter != "" && !strings.Contains(strings.ToLower(user.FullName), strings.ToLower(query.NameFilter)) {
			continue
		}
		row := &StandingsRow{
			UserID:           user.ID,
			FullName:         user.FullName,
			RoundScores:      user.RoundScores,
			CurrentScore:     user.CurrentScore,
			MaxPossibleScore: user.MaxPossibleScore,
			IsBracketValid:   user.IsBracketValid,
		}
		if teamID, ok := championPicks[user.ID]; ok {
			row.ChampionPick = teams[teamID]
			row.ChampionEliminated = eliminated[teamID]
		}
		rows = append(rows, row)
	}

	sortStandings(rows, query)
	assignRanks(rows, query.SortField)
	return rows, nil
}

// sortValue is the column a query orders and ranks by. Names sort as strings;
// everything else, including the default and any unknown field, sorts by
// current score.
func sortValue(row *StandingsRow, field string) interface{} {
	switch {
	case field == "name":
		return strings.ToLower(row.FullName)
	case field == "max":
		return row.MaxPossibleScore
	case strings.HasPrefix(field, "round"):
		idx := int(field[len(field)-1] - '1')
		if idx >= 0 && idx < models.RoundCount {
			return row.RoundScores[idx]
		}
	}
	return row.CurrentScore
}

func sortStandings(rows []*StandingsRow, query StandingsQuery) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi := sortValue(rows[i], query.SortField)
		vj := sortValue(rows[j], query.SortField)
		switch a := vi.(type) {
		case string:
			// Names always read A to Z.
			return a < vj.(string)
		case int:
			b := vj.(int)
			if query.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
}

// assignRanks applies competition ranking over the displayed sort column:
// tied rows share a rank and the next distinct value skips ahead by the
// tie-group size, so scores [50, 50, 40] rank [1, 1, 3].
func assignRanks(rows []*StandingsRow, field string) {
	for i, row := range rows {
		if i > 0 && sortValue(row, field) == sortValue(rows[i-1], field) {
			row.Rank = rows[i-1].Rank
			continue
		}
		row.Rank = i + 1
	}
}

// UpdateRoundPoints changes the point value of one round and recomputes the
// whole pool, since every realized and potential score depends on it.
func (s *standingsService) UpdateRoundPoints(ctx context.Context, poolID, actorID, roundID, points int) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.roundRepo.UpdatePoints(ctx, tx, roundID, points); err != nil {
		return fmt.Errorf("failed to update round %d points: %w", roundID, err)
	}
	if err := s.Recalculate(ctx, tx, poolID, nil); err != nil {
		return err
	}

	entry := &models.LogEntry{
		Category:    models.LogManageRounds,
		UserID:      actorID,
		Description: fmt.Sprintf("Round %d set to %d points", roundID, points),
		Timestamp:   time.Now().UTC(),
	}
	if err := s.logRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Info("round points updated", slog.Int("round_id", roundID), slog.Int("points", points), slog.Int("actor_id", actorID))
	return nil
}
