package handler

import (
	"net/http"

	"github.com/islandlabs/dreamtrack/internal/respond"
	"github.com/islandlabs/dreamtrack/internal/service"
)

type StatsHandler struct {
	dreamService *service.DreamService
}

func NewStatsHandler(dreamService *service.DreamService) *StatsHandler {
	return &StatsHandler{
		dreamService: dreamService,
	}
}

// Stats reports the global fulfillment aggregates.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dreamService.GlobalStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, stats)
}
