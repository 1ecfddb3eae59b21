package handlers

import (
	"net/http"

	"github.com/poolside/bracket-pool/middleware"
	"github.com/poolside/bracket-pool/services"
)

type StandingsHandler struct {
	standings services.StandingsService
}

func NewStandingsHandler(standings services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standings: standings}
}

// Standings returns the ranked list. Supported query parameters: sort
// (rank, name, max, round1..round6), order (asc, desc), name (substring
// filter).
func (h *StandingsHandler) Standings(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	query := services.StandingsQuery{
		SortField:  r.URL.Query().Get("sort"),
		Ascending:  r.URL.Query().Get("order") == "asc",
		NameFilter: r.URL.Query().Get("name"),
	}

	rows, err := h.standings.Standings(r.Context(), poolID, query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateRoundRequest struct {
	RoundID int `json:"round_id"`
	Points  int `json:"points"`
}

// UpdateRoundPoints changes a round's point value and recomputes the pool.
// Admin only.
func (h *StandingsHandler) UpdateRoundPoints(w http.ResponseWriter, r *http.Request) {
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

	var input updateRoundRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.standings.UpdateRoundPoints(r.Context(), poolID, actorID, input.RoundID, input.Points); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
