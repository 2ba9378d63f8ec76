// Package handlers provides HTTP request handlers for the service's API endpoints.
package handlers

import (
	"net/http"

	"github.com/liskovpm/scrum-service/internal/adapters/http/dto"
	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// ProjectHandler handles HTTP requests for project CRUD and team
// membership operations.
type ProjectHandler struct {
	svc ports.ProjectService
}

// NewProjectHandler creates a new ProjectHandler with the given service port.
func NewProjectHandler(svc ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects handles GET /api/v1/projects. Only projects visible to
// the acting user are returned.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	projects, err := h.svc.ListProjects(r.Context(), actorID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectListResponse(projects))
}

// CreateProject handles POST /api/v1/projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p := &project.Project{
		Name:           req.Name,
		Description:    req.Description,
		Status:         project.StatusPlanning,
		ProductOwnerID: req.ProductOwnerID,
		ScrumMasterID:  req.ScrumMasterID,
		TeamMemberIDs:  req.TeamMemberIDs,
	}
	if req.Status != "" {
		p.Status = project.Status(req.Status)
	}
	if t, err := dto.ParseDate(req.StartDate); err == nil {
		p.StartDate = t
	}
	if req.EndDate != nil {
		if t, err := dto.ParseDate(*req.EndDate); err == nil {
			p.EndDate = &t
		}
	}

	created, err := h.svc.CreateProject(r.Context(), actorID, p)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToProjectResponse(created))
}

// GetProject handles GET /api/v1/projects/{id}. The response includes
// the project's sprints and stories.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	p, err := h.svc.GetProject(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectResponse(p))
}

// UpdateProject handles PATCH /api/v1/projects/{id}. Absent fields keep
// their current values.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	current, err := h.svc.GetProject(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	applyProjectUpdate(current, &req)

	updated, err := h.svc.UpdateProject(r.Context(), actorID, id, current)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectResponse(updated))
}

// applyProjectUpdate merges the non-nil request fields into the current
// project state. Date fields have already passed validation.
func applyProjectUpdate(p *project.Project, req *dto.UpdateProjectRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Status != nil {
		p.Status = project.Status(*req.Status)
	}
	if req.StartDate != nil {
		if t, err := dto.ParseDate(*req.StartDate); err == nil {
			p.StartDate = t
		}
	}
	if req.EndDate != nil {
		if t, err := dto.ParseDate(*req.EndDate); err == nil {
			p.EndDate = &t
		}
	}
	if req.ProductOwnerID != nil {
		p.ProductOwnerID = *req.ProductOwnerID
	}
	if req.ScrumMasterID != nil {
		p.ScrumMasterID = *req.ScrumMasterID
	}
	if req.TeamMemberIDs != nil {
		p.TeamMemberIDs = *req.TeamMemberIDs
	}
}

// DeleteProject handles DELETE /api/v1/projects/{id}. The project's
// sprints, stories, tasks, and comments are deleted with it.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteProject(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddTeamMember handles POST /api/v1/projects/{id}/members.
func (h *ProjectHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.MemberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.AddTeamMember(r.Context(), actorID, id, req.UserID); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveTeamMember handles DELETE /api/v1/projects/{id}/members/{userId}.
func (h *ProjectHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	userID, err := parseID(r, "userId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.RemoveTeamMember(r.Context(), actorID, id, userID); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
