package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/repositories"
)

var ErrEmptyName = fmt.Errorf("name must not be empty")

// AdminService covers the small administrative corrections that do not touch
// bracket state: renaming teams and regions, and reading the audit log.
type AdminService interface {
	RenameTeam(ctx context.Context, actorID, teamID int, name string) error
	RenameRegion(ctx context.Context, actorID, regionID int, name string) error
	Logs(ctx context.Context, poolID int, category *models.LogCategory, userID *int) ([]*models.LogEntry, error)
}

type adminService struct {
	begin      txBeginner
	teamRepo   repositories.TeamRepository
	regionRepo repositories.RegionRepository
	logRepo    repositories.LogRepository
	logger     *slog.Logger
}

func NewAdminService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	regionRepo repositories.RegionRepository,
	logRepo repositories.LogRepository,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		begin:      beginFromDB(db),
		teamRepo:   teamRepo,
		regionRepo: regionRepo,
		logRepo:    logRepo,
		logger:     logger,
	}
}

func (s *adminService) RenameTeam(ctx context.Context, actorID, teamID int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.teamRepo.Rename(ctx, tx, teamID, name); err != nil {
		return fmt.Errorf("failed to rename team %d: %w", teamID, err)
	}
	entry := &models.LogEntry{
		Category:    models.LogManageTeams,
		UserID:      actorID,
		Description: fmt.Sprintf("Team %d renamed to %q", teamID, name),
		Timestamp:   time.Now().UTC(),
	}
	if err := s.logRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Info("team renamed", slog.Int("team_id", teamID), slog.String("name", name))
	return nil
}

func (s *adminService) RenameRegion(ctx context.Context, actorID, regionID int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.regionRepo.Rename(ctx, tx, regionID, name); err != nil {
		return fmt.Errorf("failed to rename region %d: %w", regionID, err)
	}
	entry := &models.LogEntry{
		Category:    models.LogManageRegions,
		UserID:      actorID,
		Description: fmt.Sprintf("Region %d renamed to %q", regionID, name),
		Timestamp:   time.Now().UTC(),
	}
	if err := s.logRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Info("region renamed", slog.Int("region_id", regionID), slog.String("name", name))
	return nil
}

func (s *adminService) Logs(ctx context.Context, poolID int, category *models.LogCategory, userID *int) ([]*models.LogEntry, error) {
	entries, err := s.logRepo.ListByPool(ctx, nil, poolID, category, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries for pool %d: %w", poolID, err)
	}
	return entries, nil
}
