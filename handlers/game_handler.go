package handlers

import (
	"net/http"

	"github.com/poolside/bracket-pool/middleware"
	"github.com/poolside/bracket-pool/repositories"
	"github.com/poolside/bracket-pool/services"
)

type GameHandler struct {
	poolRepo repositories.PoolRepository
	gameRepo repositories.GameRepository
	seeds    services.SeedService
}

func NewGameHandler(poolRepo repositories.PoolRepository, gameRepo repositories.GameRepository, seeds services.SeedService) *GameHandler {
	return &GameHandler{poolRepo: poolRepo, gameRepo: gameRepo, seeds: seeds}
}

func (h *GameHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pool, err := h.poolRepo.GetByID(r.Context(), nil, poolID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, pool, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListGames returns the pool's full bracket graph with current slots and
// winners.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.gameRepo.ListByPool(r.Context(), nil, poolID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type seedBracketRequest struct {
	Games []services.GameSeed `json:"games"`
}

// SeedBracket replaces the pool's game graph from the submitted skeleton.
// Admin only.
func (h *GameHandler) SeedBracket(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, err.Error())
		return
	}

	var input seedBracketRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.seeds.SeedBracket(r.Context(), poolID, actorID, input.Games); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"seeded": len(input.Games)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
