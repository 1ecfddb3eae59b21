package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

type PotentialWinnerRepository interface {
	// ReplaceAll drops and rewrites the cache for a whole pool. The cache is
	// only ever rebuilt from scratch; there is no row-level update.
	ReplaceAll(ctx context.Context, exec SQLExecutor, poolID int, byGame map[int][]int) error
	MapByPool(ctx context.Context, exec SQLExecutor, poolID int) (map[int][]int, error)
}

type postgresPotentialWinnerRepository struct {
	db *sql.DB
}

func NewPostgresPotentialWinnerRepository(db *sql.DB) PotentialWinnerRepository {
	return &postgresPotentialWinnerRepository{db: db}
}

func (r *postgresPotentialWinnerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPotentialWinnerRepository) ReplaceAll(ctx context.Context, exec SQLExecutor, poolID int, byGame map[int][]int) error {
	executor := r.getExecutor(exec)

	_, err := executor.ExecContext(ctx, `
		DELETE FROM potential_winners
		WHERE game_id IN (SELECT id FROM games WHERE pool_id = $1)`, poolID)
	if err != nil {
		return fmt.Errorf("failed to clear potential winners for pool %d: %w", poolID, err)
	}

	for gameID, teamIDs := range byGame {
		_, err = executor.ExecContext(ctx,
			`INSERT INTO potential_winners (game_id, potential_winner_ids) VALUES ($1, $2)`,
			gameID, joinTeamIDs(teamIDs))
		if err != nil {
			return fmt.Errorf("failed to insert potential winners for game %d: %w", gameID, err)
		}
	}
	return nil
}

func (r *postgresPotentialWinnerRepository) MapByPool(ctx context.Context, exec SQLExecutor, poolID int) (map[int][]int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT pw.game_id, pw.potential_winner_ids
		FROM potential_winners pw
		JOIN games g ON g.id = pw.game_id
		WHERE g.pool_id = $1`

	rows, err := executor.QueryContext(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query potential winners for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	byGame := make(map[int][]int)
	for rows.Next() {
		var gameID int
		var joined string
		if scanErr := rows.Scan(&gameID, &joined); scanErr != nil {
			return nil, fmt.Errorf("failed to scan potential winner row: %w", scanErr)
		}
		byGame[gameID] = splitTeamIDs(joined)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during potential winner rows iteration: %w", err)
	}
	return byGame, nil
}

func joinTeamIDs(teamIDs []int) string {
	parts := make([]string, len(teamIDs))
	for i, id := range teamIDs {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func splitTeamIDs(joined string) []int {
	if joined == "" {
		return []int{}
	}
	parts := strings.Split(joined, ",")
	teamIDs := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		teamIDs = append(teamIDs, id)
	}
	return teamIDs
}
