package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/poolside/bracket-pool/brackets"
	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/repositories"
)

const (
	wsWinnersUpdated   = "WINNERS_UPDATED"
	wsStandingsUpdated = "STANDINGS_UPDATED"
)

type AppliedWinner struct {
	GameID   int                `json:"game_id"`
	TeamID   *int               `json:"team_id"`
	Category models.LogCategory `json:"category"`
}

// SetWinnersResult distinguishes declarations that changed the bracket from
// no-ops and from per-game rejections (incomplete slots, team not in game).
type SetWinnersResult struct {
	Applied  []AppliedWinner `json:"applied"`
	NoOps    []int           `json:"no_ops"`
	Rejected map[int]string  `json:"rejected"`
}

type ResultService interface {
	SetWinners(ctx context.Context, poolID, actorID int, declarations map[int]*int) (*SetWinnersResult, error)
	PotentialWinners(ctx context.Context, poolID int) (map[int][]int, error)
}

type resultService struct {
	begin         txBeginner
	gameRepo      repositories.GameRepository
	teamRepo      repositories.TeamRepository
	potentialRepo repositories.PotentialWinnerRepository
	logRepo       repositories.LogRepository
	standings     StandingsService
	snapshots     SnapshotService
	hub           *brackets.Hub
	logger        *slog.Logger
}

func NewResultService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	potentialRepo repositories.PotentialWinnerRepository,
	logRepo repositories.LogRepository,
	standings StandingsService,
	snapshots SnapshotService,
	hub *brackets.Hub,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		begin:         beginFromDB(db),
		gameRepo:      gameRepo,
		teamRepo:      teamRepo,
		potentialRepo: potentialRepo,
		logRepo:       logRepo,
		standings:     standings,
		snapshots:     snapshots,
		hub:           hub,
		logger:        logger,
	}
}

// SetWinners applies a batch of winner declarations (nil team id retracts)
// against the in-memory graph, cascading slot changes downstream, then
// persists every touched game, rebuilds the potential-winner sets, and
// recomputes the whole pool's standings, all in one transaction. A rejected
// declaration skips that game without aborting the batch.
func (s *resultService) SetWinners(ctx context.Context, poolID, actorID int, declarations map[int]*int) (*SetWinnersResult, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	graph, err := loadGraph(ctx, tx, s.gameRepo, poolID)
	if err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.MapByPool(ctx, tx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for pool %d: %w", poolID, err)
	}

	gameIDs := make([]int, 0, len(declarations))
	for gameID := range declarations {
		gameIDs = append(gameIDs, gameID)
	}
	sort.Ints(gameIDs)

	result := &SetWinnersResult{Rejected: make(map[int]string)}
	touched := make(map[int]*models.Game)
	now := time.Now().UTC()

	for _, gameID := range gameIDs {
		teamID := declarations[gameID]
		applied, err := brackets.ApplyWinner(graph, gameID, teamID)
		if err != nil {
			if errors.Is(err, brackets.ErrSlotsIncomplete) ||
				errors.Is(err, brackets.ErrWinnerNotInGame) ||
				errors.Is(err, brackets.ErrGameNotFound) {
				result.Rejected[gameID] = err.Error()
				continue
			}
			return nil, fmt.Errorf("failed to apply winner for game %d: %w", gameID, err)
		}
		if applied.NoOp {
			result.NoOps = append(result.NoOps, gameID)
			continue
		}
		for _, game := range applied.Changed {
			touched[game.ID] = game
		}
		result.Applied = append(result.Applied, AppliedWinner{GameID: gameID, TeamID: teamID, Category: applied.Category})

		entry := &models.LogEntry{
			Category:    applied.Category,
			UserID:      actorID,
			Description: describeDeclaration(gameID, teamID, teams),
			Timestamp:   now,
		}
		if err := s.logRepo.Create(ctx, tx, entry); err != nil {
			return nil, fmt.Errorf("failed to write audit entry: %w", err)
		}
	}

	if len(result.Applied) == 0 {
		// Nothing moved; skip the rebuild and keep the tx read-only.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return result, nil
	}

	touchedIDs := make([]int, 0, len(touched))
	for id := range touched {
		touchedIDs = append(touchedIDs, id)
	}
	sort.Ints(touchedIDs)
	for _, id := range touchedIDs {
		if err := s.gameRepo.UpdateBracketState(ctx, tx, touched[id]); err != nil {
			return nil, fmt.Errorf("failed to persist game %d: %w", id, err)
		}
	}

	potentials := brackets.AllPotentialWinners(graph)
	if err := s.potentialRepo.ReplaceAll(ctx, tx, poolID, potentials); err != nil {
		return nil, fmt.Errorf("failed to rebuild potential winners: %w", err)
	}

	if err := s.standings.Recalculate(ctx, tx, poolID, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("winners updated",
		slog.Int("pool_id", poolID),
		slog.Int("actor_id", actorID),
		slog.Int("applied", len(result.Applied)),
		slog.Int("rejected", len(result.Rejected)),
	)

	room := strconv.Itoa(poolID)
	s.hub.BroadcastToRoom(room, brackets.WebSocketMessage{Type: wsWinnersUpdated, Payload: result.Applied, RoomID: room})
	s.hub.BroadcastToRoom(room, brackets.WebSocketMessage{Type: wsStandingsUpdated, RoomID: room})

	// Snapshot archival is best-effort; a storage outage must not fail a
	// committed winner change.
	if s.snapshots != nil {
		if _, err := s.snapshots.Archive(ctx, poolID); err != nil {
			s.logger.Error("snapshot archival failed", slog.Int("pool_id", poolID), slog.Any("error", err))
		}
	}
	return result, nil
}

func (s *resultService) PotentialWinners(ctx context.Context, poolID int) (map[int][]int, error) {
	byGame, err := s.potentialRepo.MapByPool(ctx, nil, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load potential winners for pool %d: %w", poolID, err)
	}
	return byGame, nil
}

func describeDeclaration(gameID int, teamID *int, teams map[int]*models.Team) string {
	if teamID == nil {
		return fmt.Sprintf("Removed winner of game %d", gameID)
	}
	if team := teams[*teamID]; team != nil {
		return fmt.Sprintf("%s declared winner of game %d", team.Name, gameID)
	}
	return fmt.Sprintf("Team %d declared winner of game %d", *teamID, gameID)
}
