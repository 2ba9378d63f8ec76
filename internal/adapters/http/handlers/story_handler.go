package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/liskovpm/scrum-service/internal/adapters/http/dto"
	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/story"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// StoryHandler handles HTTP requests for user story operations,
// including the story's comments.
type StoryHandler struct {
	svc ports.StoryService
}

// NewStoryHandler creates a new StoryHandler with the given service port.
func NewStoryHandler(svc ports.StoryService) *StoryHandler {
	return &StoryHandler{svc: svc}
}

// storyFilterFromQuery builds a story filter from the request's query
// string. Supported parameters: status, priority, assignee_id.
func storyFilterFromQuery(r *http.Request) (story.Filter, error) {
	var filter story.Filter
	fields := make(map[string]string)

	q := r.URL.Query()
	if raw := q.Get("status"); raw != "" {
		if !story.Status(raw).IsValid() {
			fields["status"] = fmt.Sprintf("invalid: %q", raw)
		} else {
			filter.Status = story.Status(raw)
		}
	}
	if raw := q.Get("priority"); raw != "" {
		if !story.Priority(raw).IsValid() {
			fields["priority"] = fmt.Sprintf("invalid: %q", raw)
		} else {
			filter.Priority = story.Priority(raw)
		}
	}
	if raw := q.Get("assignee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			fields["assignee_id"] = "must be a valid integer"
		} else {
			filter.AssigneeID = &id
		}
	}

	if len(fields) > 0 {
		return story.Filter{}, &domain.ValidationError{Fields: fields}
	}
	return filter, nil
}

// ListProjectStories handles GET /api/v1/projects/{projectId}/stories.
func (h *StoryHandler) ListProjectStories(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	projectID, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	filter, err := storyFilterFromQuery(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	filter.ProjectID = &projectID

	stories, err := h.svc.ListStories(r.Context(), actorID, filter)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryListResponse(stories))
}

// CreateStory handles POST /api/v1/projects/{projectId}/stories. The
// acting user is recorded as the story's creator.
func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	projectID, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateStoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st := &story.Story{
		ProjectID:          projectID,
		SprintID:           req.SprintID,
		Title:              req.Title,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		StoryPoints:        req.StoryPoints,
		Priority:           story.Priority(req.Priority),
		Status:             story.Status(req.Status),
		AssignedToID:       req.AssignedToID,
	}

	created, err := h.svc.CreateStory(r.Context(), actorID, st)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToStoryResponse(created))
}

// GetStory handles GET /api/v1/stories/{id}. The response includes the
// story's tasks and comments.
func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	st, err := h.svc.GetStory(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryResponse(st))
}

// UpdateStory handles PATCH /api/v1/stories/{id}. Absent fields keep
// their current values; status, sprint placement, and assignment have
// dedicated endpoints.
func (h *StoryHandler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateStoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	current, err := h.svc.GetStory(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.AcceptanceCriteria != nil {
		current.AcceptanceCriteria = *req.AcceptanceCriteria
	}
	if req.StoryPoints != nil {
		current.StoryPoints = req.StoryPoints
	}
	if req.Priority != nil {
		current.Priority = story.Priority(*req.Priority)
	}

	updated, err := h.svc.UpdateStory(r.Context(), actorID, id, current)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryResponse(updated))
}

// TransitionStory handles POST /api/v1/stories/{id}/transition.
func (h *StoryHandler) TransitionStory(w http.ResponseWriter, r *http.Request) {
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

	st, err := h.svc.TransitionStory(r.Context(), actorID, id, story.Status(req.Status))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryResponse(st))
}

// AssignStory handles POST /api/v1/stories/{id}/assign. A null assignee
// clears the assignment.
func (h *StoryHandler) AssignStory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.AssignRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st, err := h.svc.AssignStory(r.Context(), actorID, id, req.AssigneeID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryResponse(st))
}

// MoveToSprint handles POST /api/v1/stories/{id}/sprint. A null sprint
// returns the story to the product backlog.
func (h *StoryHandler) MoveToSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.MoveToSprintRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st, err := h.svc.MoveToSprint(r.Context(), actorID, id, req.SprintID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryResponse(st))
}

// DeleteStory handles DELETE /api/v1/stories/{id}. The story's tasks
// and comments are deleted with it.
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteStory(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /api/v1/stories/{id}/comments.
func (h *StoryHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	comments, err := h.svc.ListComments(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCommentListResponse(comments))
}

// AddComment handles POST /api/v1/stories/{id}/comments. The acting
// user is recorded as the author.
func (h *StoryHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.svc.AddComment(r.Context(), actorID, id, req.Content)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToCommentResponse(c))
}

// DeleteComment handles DELETE /api/v1/comments/{id}. Only the author
// or a project editor may delete a comment.
func (h *StoryHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteComment(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
