package handlers

import (
	"net/http"

	"github.com/poolside/bracket-pool/middleware"
	"github.com/poolside/bracket-pool/services"
)

type WinnerHandler struct {
	results services.ResultService
}

func NewWinnerHandler(results services.ResultService) *WinnerHandler {
	return &WinnerHandler{results: results}
}

type setWinnersRequest struct {
	// Game id to winning team id; null retracts the winner.
	Declarations map[int]*int `json:"declarations"`
}

// SetWinners applies admin winner declarations and returns what was applied,
// what was a no-op, and what was rejected per game.
func (h *WinnerHandler) SetWinners(w http.ResponseWriter, r *http.Request) {
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

	var input setWinnersRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.results.SetWinners(r.Context(), poolID, actorID, input.Declarations)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PotentialWinners returns the cached per-game potential-winner sets.
func (h *WinnerHandler) PotentialWinners(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	byGame, err := h.results.PotentialWinners(r.Context(), poolID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"potential_winners": byGame}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
