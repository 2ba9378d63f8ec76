package handlers

import (
	"net/http"

	"github.com/liskovpm/scrum-service/internal/adapters/http/dto"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// QueryHandler handles HTTP requests for read-only aggregation views:
// the project overview listing, per-project counts, and the actor's
// dashboard.
type QueryHandler struct {
	svc ports.QueryService
}

// NewQueryHandler creates a new QueryHandler with the given service port.
func NewQueryHandler(svc ports.QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

// ProjectSummaries handles GET /api/v1/projects/summaries.
func (h *QueryHandler) ProjectSummaries(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	summaries, err := h.svc.ProjectSummaries(r.Context(), actorID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectSummaryListResponse(summaries))
}

// ProjectCounts handles GET /api/v1/projects/{id}/counts. Story query
// parameters narrow which stories are counted.
func (h *QueryHandler) ProjectCounts(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	filter, err := storyFilterFromQuery(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	sprints, stories, err := h.svc.ProjectCounts(r.Context(), actorID, id, filter)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectCountsResponse{
		ProjectID:   id,
		SprintCount: sprints,
		StoryCount:  stories,
	})
}

// MyWork handles GET /api/v1/dashboard.
func (h *QueryHandler) MyWork(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	board, err := h.svc.MyWork(r.Context(), actorID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDashboardResponse(board))
}
