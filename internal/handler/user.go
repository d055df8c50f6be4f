package handler

import (
	"encoding/json"
	"net/http"

	"github.com/islandlabs/dreamtrack/internal/respond"
	"github.com/islandlabs/dreamtrack/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type setBuddyRequest struct {
	BuddyID int64 `json:"buddy_id"`
	Trust   bool  `json:"trust"`
}

func (h *UserHandler) SetBuddy(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setBuddyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BuddyID <= 0 {
		respond.Error(w, http.StatusBadRequest, "buddy_id is required")
		return
	}

	if err := h.userService.SetBuddy(r.Context(), userID, req.BuddyID, req.Trust); err != nil {
		writeError(w, err)
		return
	}

	respond.OK(w)
}

func (h *UserHandler) ClearBuddy(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.ClearBuddy(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	respond.OK(w)
}
