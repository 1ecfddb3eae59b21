package brackets

import (
	"errors"
	"fmt"

	"github.com/poolside/bracket-pool/models"
)

var (
	ErrSlotsIncomplete = errors.New("game does not have both teams set")
	ErrWinnerNotInGame = errors.New("winning team does not play in this game")
)

// ApplyResult describes the outcome of one winner mutation. Changed holds
// every game whose slots or winner were touched, including the game itself,
// so the caller can persist exactly what moved.
type ApplyResult struct {
	NoOp     bool
	Category models.LogCategory
	Changed  []*models.Game
}

type cascade struct {
	graph   *Graph
	changed map[int]*models.Game
}

func (c *cascade) touch(game *models.Game) {
	c.changed[game.ID] = game
}

// ApplyWinner declares, changes, or clears (newWinner nil) the winner of a
// game, propagating the effect through the downstream slots in memory.
// Re-declaring the current winner is a no-op. When switching winners the old
// winner's path is cleared before the new winner advances; doing it in the
// other order would let stale cleanup overwrite the new advancement.
func ApplyWinner(g *Graph, gameID int, newWinner *int) (*ApplyResult, error) {
	game := g.Game(gameID)
	if game == nil {
		return nil, fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}

	previous := game.WinningTeamID
	if equalTeamID(previous, newWinner) {
		return &ApplyResult{NoOp: true}, nil
	}

	if newWinner != nil {
		if !game.SlotsComplete() {
			return nil, fmt.Errorf("%w: game %d", ErrSlotsIncomplete, gameID)
		}
		if !game.HasTeam(*newWinner) {
			return nil, fmt.Errorf("%w: team %d, game %d", ErrWinnerNotInGame, *newWinner, gameID)
		}
	}

	c := &cascade{graph: g, changed: make(map[int]*models.Game)}
	result := &ApplyResult{}

	switch {
	case newWinner == nil:
		game.WinningTeamID = nil
		c.touch(game)
		c.clearDownstream(game, *previous)
		result.Category = models.LogRemoveWinner
	case previous == nil:
		winner := *newWinner
		game.WinningTeamID = &winner
		c.touch(game)
		c.advance(game, winner)
		result.Category = models.LogSetWinner
	default:
		winner := *newWinner
		game.WinningTeamID = &winner
		c.touch(game)
		c.clearDownstream(game, *previous)
		c.advance(game, winner)
		result.Category = models.LogChangeWinner
	}

	for _, changed := range g.Games() {
		if _, ok := c.changed[changed.ID]; ok {
			result.Changed = append(result.Changed, changed)
		}
	}
	return result, nil
}

// clearDownstream removes teamID from the slot it occupied in the next game
// and keeps cascading while the team was also recorded as that game's winner.
// A first-round correction retracts the team all the way to the championship
// if it had advanced that far.
func (c *cascade) clearDownstream(game *models.Game, teamID int) {
	next := c.graph.Downstream(game)
	if next == nil {
		return
	}

	switch {
	case next.Team1ID != nil && *next.Team1ID == teamID:
		next.Team1ID = nil
	case next.Team2ID != nil && *next.Team2ID == teamID:
		next.Team2ID = nil
	default:
		// The team never reached this game, so it is nowhere further down.
		return
	}
	c.touch(next)

	if next.WinningTeamID != nil && *next.WinningTeamID == teamID {
		next.WinningTeamID = nil
		c.clearDownstream(next, teamID)
	}
}

// advance places teamID into the correct slot of the next game. The slot is
// positional: the lower-id feeder fills team1, the higher-id feeder team2,
// falling back to the first empty slot for a single-feeder game.
func (c *cascade) advance(game *models.Game, teamID int) {
	next := c.graph.Downstream(game)
	if next == nil {
		return
	}

	feeders := c.graph.Feeders(next.ID)
	winner := teamID
	if len(feeders) >= 2 {
		if game.ID == feeders[0].ID {
			next.Team1ID = &winner
		} else {
			next.Team2ID = &winner
		}
	} else {
		if next.Team1ID == nil {
			next.Team1ID = &winner
		} else {
			next.Team2ID = &winner
		}
	}
	c.touch(next)
}

func equalTeamID(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
