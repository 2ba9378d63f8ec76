package handlers

import (
	"net/http"

	"github.com/liskovpm/scrum-service/internal/adapters/http/dto"
	"github.com/liskovpm/scrum-service/internal/domain/sprint"
	"github.com/liskovpm/scrum-service/internal/domain/story"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// SprintHandler handles HTTP requests for sprint operations.
type SprintHandler struct {
	sprints ports.SprintService
	stories ports.StoryService
}

// NewSprintHandler creates a new SprintHandler with the given service ports.
// The story service backs the sprint-scoped story listing.
func NewSprintHandler(sprints ports.SprintService, stories ports.StoryService) *SprintHandler {
	return &SprintHandler{sprints: sprints, stories: stories}
}

// ListSprints handles GET /api/v1/projects/{projectId}/sprints.
func (h *SprintHandler) ListSprints(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	projectID, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	sprints, err := h.sprints.ListSprints(r.Context(), actorID, projectID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintListResponse(sprints))
}

// CreateSprint handles POST /api/v1/projects/{projectId}/sprints.
func (h *SprintHandler) CreateSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	projectID, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateSprintRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	s := &sprint.Sprint{
		ProjectID: projectID,
		Number:    req.Number,
		Name:      req.Name,
		Goal:      req.Goal,
		Status:    sprint.StatusPlanned,
	}
	if req.Status != "" {
		s.Status = sprint.Status(req.Status)
	}
	if t, err := dto.ParseDate(req.StartDate); err == nil {
		s.StartDate = t
	}
	if t, err := dto.ParseDate(req.EndDate); err == nil {
		s.EndDate = t
	}

	created, err := h.sprints.CreateSprint(r.Context(), actorID, s)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToSprintResponse(created))
}

// GetSprint handles GET /api/v1/sprints/{id}.
func (h *SprintHandler) GetSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	s, err := h.sprints.GetSprint(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintResponse(s))
}

// UpdateSprint handles PATCH /api/v1/sprints/{id}. Absent fields keep
// their current values; status changes go through TransitionSprint.
func (h *SprintHandler) UpdateSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateSprintRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	current, err := h.sprints.GetSprint(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	applySprintUpdate(current, &req)

	updated, err := h.sprints.UpdateSprint(r.Context(), actorID, id, current)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintResponse(updated))
}

// applySprintUpdate merges the non-nil request fields into the current
// sprint state. Date fields have already passed validation.
func applySprintUpdate(s *sprint.Sprint, req *dto.UpdateSprintRequest) {
	if req.Number != nil {
		s.Number = *req.Number
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Goal != nil {
		s.Goal = *req.Goal
	}
	if req.StartDate != nil {
		if t, err := dto.ParseDate(*req.StartDate); err == nil {
			s.StartDate = t
		}
	}
	if req.EndDate != nil {
		if t, err := dto.ParseDate(*req.EndDate); err == nil {
			s.EndDate = t
		}
	}
	if req.Velocity != nil {
		s.Velocity = req.Velocity
	}
}

// TransitionSprint handles POST /api/v1/sprints/{id}/transition.
func (h *SprintHandler) TransitionSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.TransitionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	s, err := h.sprints.TransitionSprint(r.Context(), actorID, id, sprint.Status(req.Status))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintResponse(s))
}

// DeleteSprint handles DELETE /api/v1/sprints/{id}. Stories in the
// sprint return to the product backlog.
func (h *SprintHandler) DeleteSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.sprints.DeleteSprint(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSprintStories handles GET /api/v1/sprints/{id}/stories.
func (h *SprintHandler) ListSprintStories(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	// Resolving the sprint first yields a 404 for unknown sprints instead
	// of an empty list.
	s, err := h.sprints.GetSprint(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	stories, err := h.stories.ListStories(r.Context(), actorID, story.Filter{SprintID: &s.ID})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryListResponse(stories))
}
