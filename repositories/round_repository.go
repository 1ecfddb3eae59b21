package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/poolside/bracket-pool/models"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	List(ctx context.Context, exec SQLExecutor) ([]*models.Round, error)
	MapByID(ctx context.Context, exec SQLExecutor) (map[int]*models.Round, error)
	UpdatePoints(ctx context.Context, exec SQLExecutor, roundID, points int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Round, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT id, name, points FROM rounds ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0, models.RoundCount)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(&round.ID, &round.Name, &round.Points); scanErr != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", scanErr)
		}
		rounds = append(rounds, &round)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during round rows iteration: %w", err)
	}
	return rounds, nil
}

func (r *postgresRoundRepository) MapByID(ctx context.Context, exec SQLExecutor) (map[int]*models.Round, error) {
	rounds, err := r.List(ctx, exec)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*models.Round, len(rounds))
	for _, round := range rounds {
		byID[round.ID] = round
	}
	return byID, nil
}

func (r *postgresRoundRepository) UpdatePoints(ctx context.Context, exec SQLExecutor, roundID, points int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE rounds SET points = $1 WHERE id = $2`, points, roundID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}
