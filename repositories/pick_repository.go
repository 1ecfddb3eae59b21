package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/poolside/bracket-pool/models"
)

var (
	ErrPickNotFound    = errors.New("pick not found")
	ErrPickGameInvalid = errors.New("pick game conflict or invalid")
	ErrPickTeamInvalid = errors.New("pick team conflict or invalid")
	ErrPickUserInvalid = errors.New("pick user conflict or invalid")
)

type PickRepository interface {
	// MapByUser returns the user's picks as a game-id to team-id map, the
	// shape every bracket walk consumes.
	MapByUser(ctx context.Context, exec SQLExecutor, userID int) (map[int]int, error)
	ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.Pick, error)
	// MapByGame returns user-id to team-id for one game, used for the
	// champion column in standings.
	MapByGame(ctx context.Context, exec SQLExecutor, gameID int) (map[int]int, error)
	Upsert(ctx context.Context, exec SQLExecutor, userID, gameID, teamID int) error
	Delete(ctx context.Context, exec SQLExecutor, userID, gameID int) error
	DeleteByUser(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresPickRepository struct {
	db *sql.DB
}

func NewPostgresPickRepository(db *sql.DB) PickRepository {
	return &postgresPickRepository{db: db}
}

func (r *postgresPickRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPickRepository) MapByUser(ctx context.Context, exec SQLExecutor, userID int) (map[int]int, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT game_id, team_id FROM picks WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks for user %d: %w", userID, err)
	}
	defer rows.Close()

	picks := make(map[int]int)
	for rows.Next() {
		var gameID, teamID int
		if scanErr := rows.Scan(&gameID, &teamID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan pick row: %w", scanErr)
		}
		picks[gameID] = teamID
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during pick rows iteration: %w", err)
	}
	return picks, nil
}

func (r *postgresPickRepository) ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.Pick, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT p.id, p.user_id, p.game_id, p.team_id, t.id, t.seed, t.name, t.region_id
		FROM picks p
		JOIN teams t ON t.id = p.team_id
		WHERE p.user_id = $1
		ORDER BY p.game_id ASC`

	rows, err := executor.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks for user %d: %w", userID, err)
	}
	defer rows.Close()

	picks := make([]*models.Pick, 0)
	for rows.Next() {
		var pick models.Pick
		var team models.Team
		if scanErr := rows.Scan(
			&pick.ID, &pick.UserID, &pick.GameID, &pick.TeamID,
			&team.ID, &team.Seed, &team.Name, &team.RegionID,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan pick row: %w", scanErr)
		}
		pick.Team = &team
		picks = append(picks, &pick)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during pick rows iteration: %w", err)
	}
	return picks, nil
}

func (r *postgresPickRepository) MapByGame(ctx context.Context, exec SQLExecutor, gameID int) (map[int]int, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT user_id, team_id FROM picks WHERE game_id = $1`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks for game %d: %w", gameID, err)
	}
	defer rows.Close()

	picks := make(map[int]int)
	for rows.Next() {
		var userID, teamID int
		if scanErr := rows.Scan(&userID, &teamID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan pick row: %w", scanErr)
		}
		picks[userID] = teamID
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during pick rows iteration: %w", err)
	}
	return picks, nil
}

func (r *postgresPickRepository) Upsert(ctx context.Context, exec SQLExecutor, userID, gameID, teamID int) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO picks (user_id, game_id, team_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, game_id) DO UPDATE SET team_id = EXCLUDED.team_id`

	_, err := executor.ExecContext(ctx, query, userID, gameID, teamID)
	return r.handlePickError(err)
}

func (r *postgresPickRepository) Delete(ctx context.Context, exec SQLExecutor, userID, gameID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM picks WHERE user_id = $1 AND game_id = $2`, userID, gameID)
	return err
}

func (r *postgresPickRepository) DeleteByUser(ctx context.Context, exec SQLExecutor, userID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM picks WHERE user_id = $1`, userID)
	return err
}

func (r *postgresPickRepository) handlePickError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "picks_user_id_fkey":
			return ErrPickUserInvalid
		case "picks_game_id_fkey":
			return ErrPickGameInvalid
		case "picks_team_id_fkey":
			return ErrPickTeamInvalid
		}
	}
	return err
}
