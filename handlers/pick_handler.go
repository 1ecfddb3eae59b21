package handlers

import (
	"net/http"

	"github.com/poolside/bracket-pool/middleware"
	"github.com/poolside/bracket-pool/services"
)

type PickHandler struct {
	picks services.PickService
}

func NewPickHandler(picks services.PickService) *PickHandler {
	return &PickHandler{picks: picks}
}

type savePicksRequest struct {
	// Game id to chosen team id; null clears the pick for that game.
	Selections map[int]*int `json:"selections"`
}

// SavePicks applies a batch of pick changes for the authenticated user and
// reports per-game what was saved, dropped, or cleared.
func (h *PickHandler) SavePicks(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, err.Error())
		return
	}

	var input savePicksRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.picks.SavePicks(r.Context(), poolID, userID, input.Selections)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PickHandler) ClearPicks(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, err.Error())
		return
	}

	if err := h.picks.ClearPicks(r.Context(), poolID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PickHandler) AutoFill(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, err.Error())
		return
	}

	result, err := h.picks.AutoFill(r.Context(), poolID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PickOptions returns the per-game legal-pick-options map for the
// authenticated user.
func (h *PickHandler) PickOptions(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, err.Error())
		return
	}

	options, err := h.picks.PickOptions(r.Context(), poolID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"options": options}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UserBracket shows any user's picks with validity and eliminated teams.
func (h *PickHandler) UserBracket(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := urlParamInt(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.picks.UserBracket(r.Context(), poolID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
