package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/poolside/bracket-pool/models"
)

var (
	ErrGameNotFound  = errors.New("game not found in bracket")
	ErrNoRootGame    = errors.New("bracket has no championship game")
	ErrMultipleRoots = errors.New("bracket has more than one championship game")
	ErrBrokenEdge    = errors.New("game advances into a game that does not exist")
	ErrTooManyFeeds  = errors.New("game has more than two feeder games")
	ErrCycleDetected = errors.New("bracket contains a cycle")
)

// Graph is the static structure of one pool's elimination tree, loaded once
// per request and traversed in memory. Feeder lists are ordered by game id
// ascending; that order decides slot assignment when a winner advances.
type Graph struct {
	games   map[int]*models.Game
	feeders map[int][]*models.Game
	ordered []*models.Game
	root    *models.Game
}

// NewGraph indexes the given games. The slice is not copied: cascade
// operations mutate the underlying games so callers can persist the result.
func NewGraph(games []*models.Game) *Graph {
	g := &Graph{
		games:   make(map[int]*models.Game, len(games)),
		feeders: make(map[int][]*models.Game, len(games)),
		ordered: make([]*models.Game, len(games)),
	}
	copy(g.ordered, games)
	sort.Slice(g.ordered, func(i, j int) bool { return g.ordered[i].ID < g.ordered[j].ID })

	for _, game := range g.ordered {
		g.games[game.ID] = game
		if game.WinnerGoesToGameID == nil {
			g.root = game
		}
	}
	for _, game := range g.ordered {
		if game.WinnerGoesToGameID != nil {
			g.feeders[*game.WinnerGoesToGameID] = append(g.feeders[*game.WinnerGoesToGameID], game)
		}
	}
	return g
}

// Game returns the game with the given id, or nil.
func (g *Graph) Game(id int) *models.Game {
	return g.games[id]
}

// Games returns all games ordered by id ascending, which for a seeded bracket
// is also round order.
func (g *Graph) Games() []*models.Game {
	return g.ordered
}

// Feeders returns the games whose winners advance into the given game,
// ordered by id ascending. Round-1 games have none.
func (g *Graph) Feeders(gameID int) []*models.Game {
	return g.feeders[gameID]
}

// Downstream returns the game the given game's winner advances into, or nil
// for the championship.
func (g *Graph) Downstream(game *models.Game) *models.Game {
	if game == nil || game.WinnerGoesToGameID == nil {
		return nil
	}
	return g.games[*game.WinnerGoesToGameID]
}

// Root returns the championship game.
func (g *Graph) Root() *models.Game {
	return g.root
}

// Validate fails fast on structural corruption: a missing or duplicated root,
// dangling advancement edges, more than two feeders, or a cycle. The rest of
// the engine assumes a validated forest, so this runs at seeding time only.
func (g *Graph) Validate() error {
	if g.root == nil {
		return ErrNoRootGame
	}
	roots := 0
	for _, game := range g.ordered {
		if game.WinnerGoesToGameID == nil {
			roots++
			continue
		}
		if g.games[*game.WinnerGoesToGameID] == nil {
			return fmt.Errorf("%w: game %d -> %d", ErrBrokenEdge, game.ID, *game.WinnerGoesToGameID)
		}
	}
	if roots > 1 {
		return ErrMultipleRoots
	}
	for id, feeds := range g.feeders {
		if len(feeds) > 2 {
			return fmt.Errorf("%w: game %d has %d", ErrTooManyFeeds, id, len(feeds))
		}
	}
	// Every walk to the root must terminate within the number of games.
	limit := len(g.ordered)
	for _, game := range g.ordered {
		steps := 0
		for current := game; current != nil; current = g.Downstream(current) {
			steps++
			if steps > limit {
				return fmt.Errorf("%w: starting at game %d", ErrCycleDetected, game.ID)
			}
		}
	}
	return nil
}
