package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-openapi/strfmt"

	"github.com/islandlabs/dreamtrack/internal/model"
	"github.com/islandlabs/dreamtrack/internal/respond"
	"github.com/islandlabs/dreamtrack/internal/service"
)

type DreamHandler struct {
	dreamService *service.DreamService
}

func NewDreamHandler(dreamService *service.DreamService) *DreamHandler {
	return &DreamHandler{
		dreamService: dreamService,
	}
}

// List returns a user's dreams with steps, taxonomy metadata and the three
// fulfillment counters. as_user lets a buddy view a shared list.
func (h *DreamHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := queryID(r, "user_id")
	if err != nil || ownerID == 0 {
		respond.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	viewerID, err := queryID(r, "as_user")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.dreamService.List(r.Context(), ownerID, viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, list)
}

type createDreamRequest struct {
	UserID     int64        `json:"user_id"`
	ActorID    int64        `json:"actor_id"`
	Dream      string       `json:"dream"`
	StatusID   *int64       `json:"status_id"`
	CategoryID *int64       `json:"category_id"`
	Deadline   *strfmt.Date `json:"deadline"`
	Price      *float64     `json:"price"`
	IsPublic   *bool        `json:"is_public"`
}

func (h *DreamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		respond.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	actorID := req.ActorID
	if actorID == 0 {
		actorID = req.UserID
	}

	dream, err := h.dreamService.Create(r.Context(), req.UserID, actorID, service.CreateDreamInput{
		Dream:      req.Dream,
		StatusID:   req.StatusID,
		CategoryID: req.CategoryID,
		Deadline:   req.Deadline,
		Price:      req.Price,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, dream)
}

func (h *DreamHandler) Update(w http.ResponseWriter, r *http.Request) {
	dreamID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	actorID, err := queryID(r, "actor_id")
	if err != nil || actorID == 0 {
		respond.Error(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	var patch model.DreamPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.dreamService.Update(r.Context(), dreamID, actorID, patch); err != nil {
		writeError(w, err)
		return
	}

	respond.OK(w)
}

func (h *DreamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	dreamID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	actorID, err := queryID(r, "actor_id")
	if err != nil || actorID == 0 {
		respond.Error(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	if err := h.dreamService.Delete(r.Context(), dreamID, actorID); err != nil {
		writeError(w, err)
		return
	}

	respond.OK(w)
}

type createStepRequest struct {
	Title    string       `json:"title"`
	Deadline *strfmt.Date `json:"deadline"`
}

func (h *DreamHandler) CreateStep(w http.ResponseWriter, r *http.Request) {
	dreamID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	actorID, err := queryID(r, "actor_id")
	if err != nil || actorID == 0 {
		respond.Error(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	var req createStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	step, err := h.dreamService.CreateStep(r.Context(), dreamID, actorID, req.Title, req.Deadline)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, step)
}

func (h *DreamHandler) GetStep(w http.ResponseWriter, r *http.Request) {
	dreamID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	stepID, err := pathID(r, "stepID")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	actorID, err := queryID(r, "actor_id")
	if err != nil || actorID == 0 {
		respond.Error(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	step, err := h.dreamService.Step(r.Context(), dreamID, stepID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, step)
}

func (h *DreamHandler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	dreamID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	stepID, err := pathID(r, "stepID")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	actorID, err := queryID(r, "actor_id")
	if err != nil || actorID == 0 {
		respond.Error(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	var patch model.StepPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.dreamService.UpdateStep(r.Context(), dreamID, stepID, actorID, patch); err != nil {
		writeError(w, err)
		return
	}

	respond.OK(w)
}
