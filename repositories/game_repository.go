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
	ErrGameNotFound      = errors.New("game not found")
	ErrGameRoundInvalid  = errors.New("game round conflict or invalid")
	ErrGameTeamInvalid   = errors.New("game team conflict or invalid")
	ErrGamePoolInvalid   = errors.New("game pool conflict or invalid")
	ErrGameAlreadyExists = errors.New("game id already exists")
)

type GameRepository interface {
	ListByPool(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.Game, error)
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	// Insert creates a game without its downstream reference; the reference
	// is backfilled in a second pass because downstream games may not exist
	// yet when the skeleton is loaded.
	Insert(ctx context.Context, exec SQLExecutor, game *models.Game) error
	SetDownstream(ctx context.Context, exec SQLExecutor, gameID int, downstreamGameID *int) error
	// UpdateBracketState persists the slot and winner columns of one game,
	// typically after a winner cascade touched it.
	UpdateBracketState(ctx context.Context, exec SQLExecutor, game *models.Game) error
	DeleteByPool(ctx context.Context, exec SQLExecutor, poolID int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `id, pool_id, round_id, winner_goes_to_game_id, team1_id, team2_id, winning_team_id`

func scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var game models.Game
	err := rowScanner.Scan(
		&game.ID,
		&game.PoolID,
		&game.RoundID,
		&game.WinnerGoesToGameID,
		&game.Team1ID,
		&game.Team2ID,
		&game.WinningTeamID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (r *postgresGameRepository) ListByPool(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gameColumns + ` FROM games WHERE pool_id = $1 ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		game, scanErr := scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, game)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return scanGame(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) Insert(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games (id, pool_id, round_id, team1_id, team2_id, winning_team_id)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := executor.ExecContext(ctx, query,
		game.ID, game.PoolID, game.RoundID, game.Team1ID, game.Team2ID, game.WinningTeamID)
	return r.handleGameError(err)
}

func (r *postgresGameRepository) SetDownstream(ctx context.Context, exec SQLExecutor, gameID int, downstreamGameID *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE games SET winner_goes_to_game_id = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, downstreamGameID, gameID)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateBracketState(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `UPDATE games SET team1_id = $1, team2_id = $2, winning_team_id = $3 WHERE id = $4`

	result, err := executor.ExecContext(ctx, query, game.Team1ID, game.Team2ID, game.WinningTeamID, game.ID)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) DeleteByPool(ctx context.Context, exec SQLExecutor, poolID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM games WHERE pool_id = $1`, poolID)
	return err
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "games_pkey":
			return ErrGameAlreadyExists
		case "games_pool_id_fkey":
			return ErrGamePoolInvalid
		case "games_round_id_fkey":
			return ErrGameRoundInvalid
		case "games_team1_id_fkey", "games_team2_id_fkey", "games_winning_team_id_fkey":
			return ErrGameTeamInvalid
		}
	}
	return err
}
