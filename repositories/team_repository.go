package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/poolside/bracket-pool/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	ListByPool(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.Team, error)
	MapByPool(ctx context.Context, exec SQLExecutor, poolID int) (map[int]*models.Team, error)
	Rename(ctx context.Context, exec SQLExecutor, teamID int, name string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) ListByPool(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT t.id, t.seed, t.name, t.region_id, r.id, r.pool_id, r.name
		FROM teams t
		JOIN regions r ON r.id = t.region_id
		WHERE r.pool_id = $1
		ORDER BY t.id ASC`

	rows, err := executor.QueryContext(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0, 64)
	for rows.Next() {
		var team models.Team
		var region models.Region
		if scanErr := rows.Scan(
			&team.ID, &team.Seed, &team.Name, &team.RegionID,
			&region.ID, &region.PoolID, &region.Name,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		team.Region = &region
		teams = append(teams, &team)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) MapByPool(ctx context.Context, exec SQLExecutor, poolID int) (map[int]*models.Team, error) {
	teams, err := r.ListByPool(ctx, exec, poolID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*models.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	return byID, nil
}

func (r *postgresTeamRepository) Rename(ctx context.Context, exec SQLExecutor, teamID int, name string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE teams SET name = $1 WHERE id = $2`, name, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
