package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/islandlabs/dreamtrack/internal/repository"
	"github.com/islandlabs/dreamtrack/internal/respond"
	"github.com/islandlabs/dreamtrack/internal/service"
)

// writeError maps the domain error taxonomy onto HTTP statuses. Not-found
// and forbidden stay distinct on every endpoint.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, http.StatusBadRequest, "invalid phone or password")
	case errors.Is(err, service.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrDreamNotFound):
		respond.Error(w, http.StatusNotFound, "dream not found")
	case errors.Is(err, repository.ErrStepNotFound):
		respond.Error(w, http.StatusNotFound, "step not found")
	case errors.Is(err, repository.ErrUserNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, repository.ErrDuplicatePhone):
		respond.Error(w, http.StatusConflict, "phone already registered")
	default:
		slog.Error("request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
