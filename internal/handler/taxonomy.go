package handler

import (
	"net/http"

	"github.com/islandlabs/dreamtrack/internal/respond"
	"github.com/islandlabs/dreamtrack/internal/service"
)

type TaxonomyHandler struct {
	taxonomyService *service.TaxonomyService
}

func NewTaxonomyHandler(taxonomyService *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomyService: taxonomyService,
	}
}

func (h *TaxonomyHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.taxonomyService.Statuses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, statuses)
}

func (h *TaxonomyHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.taxonomyService.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, categories)
}
