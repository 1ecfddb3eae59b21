package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/poolside/bracket-pool/models"
)

var ErrPoolNotFound = errors.New("pool not found")

type PoolRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Pool, error)
}

type postgresPoolRepository struct {
	db *sql.DB
}

func NewPostgresPoolRepository(db *sql.DB) PoolRepository {
	return &postgresPoolRepository{db: db}
}

func (r *postgresPoolRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPoolRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Pool, error) {
	executor := r.getExecutor(exec)
	var pool models.Pool
	err := executor.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM pools WHERE id = $1`, id,
	).Scan(&pool.ID, &pool.Name, &pool.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return &pool, nil
}
