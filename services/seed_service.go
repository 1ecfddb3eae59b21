package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/poolside/bracket-pool/brackets"
	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/repositories"
)

// GameSeed is one game of the bracket skeleton. Round-1 seeds carry both
// team slots; later rounds carry empty slots to be fed by earlier games.
// WinnerGoesToGameID is nil only for the championship game. WinningTeamID
// lets an admin seed a bracket mid-tournament with results already decided.
type GameSeed struct {
	GameID             int  `json:"game_id"`
	RoundID            int  `json:"round_id"`
	Team1ID            *int `json:"team1_id"`
	Team2ID            *int `json:"team2_id"`
	WinnerGoesToGameID *int `json:"winner_goes_to_game_id"`
	WinningTeamID      *int `json:"winning_team_id"`
}

type SeedService interface {
	SeedBracket(ctx context.Context, poolID, actorID int, seeds []GameSeed) error
}

type seedService struct {
	begin         txBeginner
	gameRepo      repositories.GameRepository
	potentialRepo repositories.PotentialWinnerRepository
	logRepo       repositories.LogRepository
	logger        *slog.Logger
}

func NewSeedService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	potentialRepo repositories.PotentialWinnerRepository,
	logRepo repositories.LogRepository,
	logger *slog.Logger,
) SeedService {
	return &seedService{
		begin:         beginFromDB(db),
		gameRepo:      gameRepo,
		potentialRepo: potentialRepo,
		logRepo:       logRepo,
		logger:        logger,
	}
}

// SeedBracket replaces a pool's game graph. Games are inserted in two phases
// because winner_goes_to_game_id references games that may not exist yet:
// first the rows without downstream links, then the links. The assembled
// graph is validated before commit so a malformed seed never lands.
func (s *seedService) SeedBracket(ctx context.Context, poolID, actorID int, seeds []GameSeed) error {
	if len(seeds) == 0 {
		return fmt.Errorf("%w: empty seed list", ErrBracketCorrupt)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.gameRepo.DeleteByPool(ctx, tx, poolID); err != nil {
		return fmt.Errorf("failed to clear games for pool %d: %w", poolID, err)
	}

	games := make([]*models.Game, 0, len(seeds))
	for _, seed := range seeds {
		game := &models.Game{
			ID:            seed.GameID,
			PoolID:        poolID,
			RoundID:       seed.RoundID,
			Team1ID:       seed.Team1ID,
			Team2ID:       seed.Team2ID,
			WinningTeamID: seed.WinningTeamID,
		}
		if err := s.gameRepo.Insert(ctx, tx, game); err != nil {
			return fmt.Errorf("failed to insert game %d: %w", seed.GameID, err)
		}
		game.WinnerGoesToGameID = seed.WinnerGoesToGameID
		games = append(games, game)
	}
	for _, seed := range seeds {
		if seed.WinnerGoesToGameID == nil {
			continue
		}
		if err := s.gameRepo.SetDownstream(ctx, tx, seed.GameID, seed.WinnerGoesToGameID); err != nil {
			return fmt.Errorf("failed to link game %d downstream: %w", seed.GameID, err)
		}
	}

	graph := brackets.NewGraph(games)
	if err := graph.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBracketCorrupt, err)
	}

	if err := s.potentialRepo.ReplaceAll(ctx, tx, poolID, brackets.AllPotentialWinners(graph)); err != nil {
		return fmt.Errorf("failed to rebuild potential winners: %w", err)
	}

	entry := &models.LogEntry{
		Category:    models.LogResetGames,
		UserID:      actorID,
		Description: fmt.Sprintf("Seeded bracket with %d games", len(seeds)),
		Timestamp:   time.Now().UTC(),
	}
	if err := s.logRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Info("bracket seeded", slog.Int("pool_id", poolID), slog.Int("games", len(seeds)))
	return nil
}
