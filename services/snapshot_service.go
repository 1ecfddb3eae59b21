package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/repositories"
	"github.com/poolside/bracket-pool/storage"
)

// PoolSnapshot is the archived JSON document: the full public state of a
// pool at one point in time.
type PoolSnapshot struct {
	PoolID      int             `json:"pool_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Games       []*models.Game  `json:"games"`
	Teams       []*models.Team  `json:"teams"`
	Rounds      []*models.Round `json:"rounds"`
	Standings   []*StandingsRow `json:"standings"`
}

type SnapshotService interface {
	Archive(ctx context.Context, poolID int) (*storage.UploadResult, error)
}

type snapshotService struct {
	gameRepo  repositories.GameRepository
	teamRepo  repositories.TeamRepository
	roundRepo repositories.RoundRepository
	standings StandingsService
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewSnapshotService(
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	roundRepo repositories.RoundRepository,
	standings StandingsService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) SnapshotService {
	return &snapshotService{
		gameRepo:  gameRepo,
		teamRepo:  teamRepo,
		roundRepo: roundRepo,
		standings: standings,
		uploader:  uploader,
		logger:    logger,
	}
}

// Archive assembles the pool's current state and uploads it as a timestamped
// JSON object. The four reads are independent, so they run concurrently.
func (s *snapshotService) Archive(ctx context.Context, poolID int) (*storage.UploadResult, error) {
	snapshot := &PoolSnapshot{
		PoolID:      poolID,
		GeneratedAt: time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		games, err := s.gameRepo.ListByPool(gctx, nil, poolID)
		if err != nil {
			return fmt.Errorf("failed to load games: %w", err)
		}
		snapshot.Games = games
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.ListByPool(gctx, nil, poolID)
		if err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		snapshot.Teams = teams
		return nil
	})
	g.Go(func() error {
		rounds, err := s.roundRepo.List(gctx, nil)
		if err != nil {
			return fmt.Errorf("failed to load rounds: %w", err)
		}
		snapshot.Rounds = rounds
		return nil
	})
	g.Go(func() error {
		rows, err := s.standings.Standings(gctx, poolID, StandingsQuery{})
		if err != nil {
			return fmt.Errorf("failed to load standings: %w", err)
		}
		snapshot.Standings = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := fmt.Sprintf("pools/%d/snapshots/%s.json", poolID, snapshot.GeneratedAt.Format("20060102T150405Z"))
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	s.logger.Info("pool snapshot archived", slog.Int("pool_id", poolID), slog.String("key", result.Key))
	return result, nil
}
