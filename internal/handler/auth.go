package handler

import (
	"encoding/json"
	"net/http"

	"github.com/islandlabs/dreamtrack/internal/respond"
	"github.com/islandlabs/dreamtrack/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]int64{"id": user.ID})
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"id":        user.ID,
		"full_name": user.FullName(),
		"city":      user.City,
		"phone":     user.Phone,
	})
}
