package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/poolside/bracket-pool/brackets"
	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/repositories"
)

// SavePicksResult reports what a save actually changed. Illegal picks are
// dropped per game rather than failing the batch, so callers need the
// breakdown to tell the user what stuck.
type SavePicksResult struct {
	Saved   map[int]int `json:"saved"`
	Dropped map[int]int `json:"dropped"`
	Cleared []int       `json:"cleared"`

	// Picks backfilled for skipped games, inferred from a later-round
	// selection along the same path. Also present in Saved.
	Inferred map[int]int `json:"inferred"`

	IsBracketValid bool `json:"is_bracket_valid"`
}

type AutoFillResult struct {
	Added          map[int]int `json:"added"`
	IsBracketValid bool        `json:"is_bracket_valid"`
}

// UserBracketView is the read model for looking at one user's bracket:
// their picks with team detail, validity, and which picked teams are
// already eliminated.
type UserBracketView struct {
	UserID          int            `json:"user_id"`
	FullName        string         `json:"full_name"`
	IsBracketValid  bool           `json:"is_bracket_valid"`
	LastBracketSave *time.Time     `json:"last_bracket_save,omitempty"`
	Picks           []*models.Pick `json:"picks"`
	EliminatedTeams []int          `json:"eliminated_teams"`
}

type PickService interface {
	SavePicks(ctx context.Context, poolID, userID int, selections map[int]*int) (*SavePicksResult, error)
	ClearPicks(ctx context.Context, poolID, userID int) error
	AutoFill(ctx context.Context, poolID, userID int) (*AutoFillResult, error)
	PickOptions(ctx context.Context, poolID, userID int) (map[int][]int, error)
	UserBracket(ctx context.Context, poolID, userID int) (*UserBracketView, error)
}

type pickService struct {
	begin     txBeginner
	gameRepo  repositories.GameRepository
	pickRepo  repositories.PickRepository
	teamRepo  repositories.TeamRepository
	userRepo  repositories.UserRepository
	logRepo   repositories.LogRepository
	standings StandingsService
	deadline  time.Time
	logger    *slog.Logger
}

func NewPickService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	pickRepo repositories.PickRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	logRepo repositories.LogRepository,
	standings StandingsService,
	deadline time.Time,
	logger *slog.Logger,
) PickService {
	return &pickService{
		begin:     beginFromDB(db),
		gameRepo:  gameRepo,
		pickRepo:  pickRepo,
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		logRepo:   logRepo,
		standings: standings,
		deadline:  deadline,
		logger:    logger,
	}
}

func (s *pickService) picksLocked() bool {
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

// SavePicks applies a batch of pick changes for one user. A nil team id
// clears the pick for that game. Submitted picks are checked game by game
// against the user's legal-pick options; an illegal pick is dropped while the
// rest of the batch proceeds. A selection for a later round with no picks in
// the games feeding it backfills the implied earlier picks.
func (s *pickService) SavePicks(ctx context.Context, poolID, userID int, selections map[int]*int) (*SavePicksResult, error) {
	if s.picksLocked() {
		return nil, ErrPicksLocked
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	graph, err := loadGraph(ctx, tx, s.gameRepo, poolID)
	if err != nil {
		return nil, err
	}

	working, err := s.pickRepo.MapByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for user %d: %w", userID, err)
	}

	result := &SavePicksResult{
		Saved:    make(map[int]int),
		Dropped:  make(map[int]int),
		Inferred: make(map[int]int),
	}

	// Clears first, so a cleared game no longer narrows the legal options
	// of the games downstream of it.
	for gameID, sel := range selections {
		if sel != nil {
			continue
		}
		if _, had := working[gameID]; !had {
			continue
		}
		if err := s.pickRepo.Delete(ctx, tx, userID, gameID); err != nil {
			return nil, fmt.Errorf("failed to clear pick for game %d: %w", gameID, err)
		}
		delete(working, gameID)
		result.Cleared = append(result.Cleared, gameID)
	}
	sort.Ints(result.Cleared)

	// The submitted picks alone, used for the later-round lookahead.
	submitted := make(map[int]int, len(selections))
	for gameID, sel := range selections {
		if sel != nil {
			submitted[gameID] = *sel
		}
	}

	// Walk games in bracket order so earlier rounds settle before the
	// games they feed are checked.
	for _, game := range graph.Games() {
		teamID, ok := submitted[game.ID]
		inferred := false
		if !ok {
			if _, picked := working[game.ID]; picked {
				continue
			}
			teamID, ok = brackets.LaterRoundPick(graph, game, submitted)
			if !ok {
				continue
			}
			inferred = true
		}

		allowed := brackets.PotentialPicks(graph, game.ID, false, working)
		if !containsTeam(allowed, teamID) {
			if !inferred {
				result.Dropped[game.ID] = teamID
			}
			continue
		}

		if err := s.pickRepo.Upsert(ctx, tx, userID, game.ID, teamID); err != nil {
			return nil, fmt.Errorf("failed to save pick for game %d: %w", game.ID, err)
		}
		working[game.ID] = teamID
		result.Saved[game.ID] = teamID
		if inferred {
			result.Inferred[game.ID] = teamID
		}
	}

	result.IsBracketValid = brackets.IsBracketValid(graph, working)
	now := time.Now().UTC()
	if err := s.userRepo.UpdateBracketStatus(ctx, tx, userID, result.IsBracketValid, now); err != nil {
		return nil, fmt.Errorf("failed to update bracket status for user %d: %w", userID, err)
	}

	category := models.LogInvalidBracket
	if result.IsBracketValid {
		category = models.LogValidBracket
	}
	entry := &models.LogEntry{
		Category:    category,
		UserID:      userID,
		Description: fmt.Sprintf("Saved %d picks (%d dropped, %d cleared)", len(result.Saved), len(result.Dropped), len(result.Cleared)),
		Timestamp:   now,
	}
	if err := s.logRepo.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to write audit entry: %w", err)
	}

	if err := s.standings.Recalculate(ctx, tx, poolID, &userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("picks saved",
		slog.Int("user_id", userID),
		slog.Int("saved", len(result.Saved)),
		slog.Int("dropped", len(result.Dropped)),
		slog.Bool("valid", result.IsBracketValid),
	)
	return result, nil
}

func (s *pickService) ClearPicks(ctx context.Context, poolID, userID int) error {
	if s.picksLocked() {
		return ErrPicksLocked
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.pickRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return fmt.Errorf("failed to delete picks for user %d: %w", userID, err)
	}
	now := time.Now().UTC()
	if err := s.userRepo.UpdateBracketStatus(ctx, tx, userID, false, now); err != nil {
		return fmt.Errorf("failed to update bracket status for user %d: %w", userID, err)
	}

	entry := &models.LogEntry{
		Category:    models.LogClearPicks,
		UserID:      userID,
		Description: "Cleared all picks",
		Timestamp:   now,
	}
	if err := s.logRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	if err := s.standings.Recalculate(ctx, tx, poolID, &userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Info("picks cleared", slog.Int("user_id", userID))
	return nil
}

// AutoFill completes the user's bracket by filling every unpicked game with
// the best-seeded team among its legal options, round by round.
func (s *pickService) AutoFill(ctx context.Context, poolID, userID int) (*AutoFillResult, error) {
	if s.picksLocked() {
		return nil, ErrPicksLocked
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	graph, err := loadGraph(ctx, tx, s.gameRepo, poolID)
	if err != nil {
		return nil, err
	}
	picks, err := s.pickRepo.MapByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for user %d: %w", userID, err)
	}
	teams, err := s.teamRepo.MapByPool(ctx, tx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for pool %d: %w", poolID, err)
	}

	added := brackets.AutoFillPicks(graph, picks, teams)
	gameIDs := make([]int, 0, len(added))
	for gameID := range added {
		gameIDs = append(gameIDs, gameID)
	}
	sort.Ints(gameIDs)
	for _, gameID := range gameIDs {
		if err := s.pickRepo.Upsert(ctx, tx, userID, gameID, added[gameID]); err != nil {
			return nil, fmt.Errorf("failed to save auto-filled pick for game %d: %w", gameID, err)
		}
	}

	valid := brackets.IsBracketValid(graph, picks)
	now := time.Now().UTC()
	if err := s.userRepo.UpdateBracketStatus(ctx, tx, userID, valid, now); err != nil {
		return nil, fmt.Errorf("failed to update bracket status for user %d: %w", userID, err)
	}

	entry := &models.LogEntry{
		Category:    models.LogFillBetterSeeds,
		UserID:      userID,
		Description: fmt.Sprintf("Auto-filled %d picks with better seeds", len(added)),
		Timestamp:   now,
	}
	if err := s.logRepo.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to write audit entry: %w", err)
	}

	if err := s.standings.Recalculate(ctx, tx, poolID, &userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Info("bracket auto-filled", slog.Int("user_id", userID), slog.Int("added", len(added)))
	return &AutoFillResult{Added: added, IsBracketValid: valid}, nil
}

// PickOptions returns the per-game legal-pick-options map for a user, with
// their stored picks narrowing later rounds along their predicted path.
func (s *pickService) PickOptions(ctx context.Context, poolID, userID int) (map[int][]int, error) {
	graph, err := loadGraph(ctx, nil, s.gameRepo, poolID)
	if err != nil {
		return nil, err
	}
	picks, err := s.pickRepo.MapByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for user %d: %w", userID, err)
	}
	return brackets.PotentialPicksAll(graph, picks), nil
}

func (s *pickService) UserBracket(ctx context.Context, poolID, userID int) (*UserBracketView, error) {
	graph, err := loadGraph(ctx, nil, s.gameRepo, poolID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	picks, err := s.pickRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for user %d: %w", userID, err)
	}

	lost := brackets.LosingTeams(graph)
	seen := make(map[int]bool)
	eliminated := make([]int, 0)
	for _, pick := range picks {
		if lost[pick.TeamID] && !seen[pick.TeamID] {
			seen[pick.TeamID] = true
			eliminated = append(eliminated, pick.TeamID)
		}
	}
	sort.Ints(eliminated)

	return &UserBracketView{
		UserID:          user.ID,
		FullName:        user.FullName,
		IsBracketValid:  user.IsBracketValid,
		LastBracketSave: user.LastBracketSave,
		Picks:           picks,
		EliminatedTeams: eliminated,
	}, nil
}
