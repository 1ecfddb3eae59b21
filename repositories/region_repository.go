package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/poolside/bracket-pool/models"
)

var ErrRegionNotFound = errors.New("region not found")

type RegionRepository interface {
	ListByPool(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.Region, error)
	Rename(ctx context.Context, exec SQLExecutor, regionID int, name string) error
}

type postgresRegionRepository struct {
	db *sql.DB
}

func NewPostgresRegionRepository(db *sql.DB) RegionRepository {
	return &postgresRegionRepository{db: db}
}

func (r *postgresRegionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRegionRepository) ListByPool(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.Region, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT id, pool_id, name FROM regions WHERE pool_id = $1 ORDER BY id ASC`, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	regions := make([]*models.Region, 0, 4)
	for rows.Next() {
		var region models.Region
		if scanErr := rows.Scan(&region.ID, &region.PoolID, &region.Name); scanErr != nil {
			return nil, fmt.Errorf("failed to scan region row: %w", scanErr)
		}
		regions = append(regions, &region)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during region rows iteration: %w", err)
	}
	return regions, nil
}

func (r *postgresRegionRepository) Rename(ctx context.Context, exec SQLExecutor, regionID int, name string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE regions SET name = $1 WHERE id = $2`, name, regionID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegionNotFound)
}
