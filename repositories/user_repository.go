package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/poolside/bracket-pool/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error)
	ListByPool(ctx context.Context, exec SQLExecutor, poolID int, validBracketsOnly bool) ([]*models.User, error)
	// UpdateScores persists the per-round, current, and maximum-possible
	// score columns. Only the standings recalculation writes these.
	UpdateScores(ctx context.Context, exec SQLExecutor, user *models.User) error
	UpdateBracketStatus(ctx context.Context, exec SQLExecutor, userID int, valid bool, savedAt time.Time) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const userColumns = `id, pool_id, full_name, email, is_admin,
	r1_score, r2_score, r3_score, r4_score, r5_score, r6_score,
	current_score, max_possible_score,
	is_bracket_valid, last_bracket_save, tiebreaker_winner, tiebreaker_loser, created_at`

func scanUser(rowScanner interface{ Scan(...interface{}) error }) (*models.User, error) {
	var user models.User
	err := rowScanner.Scan(
		&user.ID, &user.PoolID, &user.FullName, &user.Email, &user.IsAdmin,
		&user.RoundScores[0], &user.RoundScores[1], &user.RoundScores[2],
		&user.RoundScores[3], &user.RoundScores[4], &user.RoundScores[5],
		&user.CurrentScore, &user.MaxPossibleScore,
		&user.IsBracketValid, &user.LastBracketSave,
		&user.TiebreakerWinner, &user.TiebreakerLoser, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) ListByPool(ctx context.Context, exec SQLExecutor, poolID int, validBracketsOnly bool) ([]*models.User, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + userColumns + ` FROM users WHERE pool_id = $1`
	if validBracketsOnly {
		query += ` AND is_bracket_valid`
	}
	query += ` ORDER BY lower(full_name) ASC`

	rows, err := executor.QueryContext(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query users for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", scanErr)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during user rows iteration: %w", err)
	}
	return users, nil
}

func (r *postgresUserRepository) UpdateScores(ctx context.Context, exec SQLExecutor, user *models.User) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE users SET
			r1_score = $1, r2_score = $2, r3_score = $3,
			r4_score = $4, r5_score = $5, r6_score = $6,
			current_score = $7, max_possible_score = $8
		WHERE id = $9`

	result, err := executor.ExecContext(ctx, query,
		user.RoundScores[0], user.RoundScores[1], user.RoundScores[2],
		user.RoundScores[3], user.RoundScores[4], user.RoundScores[5],
		user.CurrentScore, user.MaxPossibleScore, user.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateBracketStatus(ctx context.Context, exec SQLExecutor, userID int, valid bool, savedAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE users SET is_bracket_valid = $1, last_bracket_save = $2 WHERE id = $3`,
		valid, savedAt, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
