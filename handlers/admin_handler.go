package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/poolside/bracket-pool/middleware"
	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/services"
)

type AdminHandler struct {
	admin services.AdminService
}

func NewAdminHandler(admin services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *AdminHandler) RenameTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlParamInt(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, err.Error())
		return
	}

	var input renameRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.admin.RenameTeam(r.Context(), actorID, teamID, input.Name); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) RenameRegion(w http.ResponseWriter, r *http.Request) {
	regionID, err := urlParamInt(r, "regionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, err.Error())
		return
	}

	var input renameRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.admin.RenameRegion(r.Context(), actorID, regionID, input.Name); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Logs returns the pool's audit trail, optionally filtered by category and
// user id.
func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	poolID, err := urlParamInt(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var category *models.LogCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		c := models.LogCategory(raw)
		category = &c
	}
	var userID *int
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errors.New("invalid user_id parameter"))
			return
		}
		userID = &id
	}

	entries, err := h.admin.Logs(r.Context(), poolID, category, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"logs": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
