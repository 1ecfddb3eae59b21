package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poolside/bracket-pool/brackets"
	"github.com/poolside/bracket-pool/repositories"
)

// sqlTx is the slice of *sql.Tx the services rely on.
type sqlTx interface {
	repositories.SQLExecutor
	Commit() error
	Rollback() error
}

// txBeginner opens a transaction. Services hold one instead of a *sql.DB
// so transactional flows can be exercised without a live database.
type txBeginner func(ctx context.Context) (sqlTx, error)

func beginFromDB(db *sql.DB) txBeginner {
	return func(ctx context.Context) (sqlTx, error) {
		return db.BeginTx(ctx, nil)
	}
}

// loadGraph reads a pool's games and assembles the in-memory bracket graph
// every core operation walks. The graph is request-scoped and never shared
// across requests.
func loadGraph(ctx context.Context, exec repositories.SQLExecutor, games repositories.GameRepository, poolID int) (*brackets.Graph, error) {
	list, err := games.ListByPool(ctx, exec, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for pool %d: %w", poolID, err)
	}
	if len(list) == 0 {
		return nil, ErrBracketNotSeeded
	}
	return brackets.NewGraph(list), nil
}

func containsTeam(teamIDs []int, teamID int) bool {
	for _, id := range teamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
