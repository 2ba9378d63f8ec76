// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and the persistent store through port
// interfaces.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// Compile-time check that ProjectService implements ports.ProjectService.
var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService implements ports.ProjectService. It handles validation,
// authorization, and structured logging; uniqueness and cascade rules live
// in the store.
type ProjectService struct {
	projects ports.ProjectStore
	users    ports.UserStore
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(projects ports.ProjectStore, users ports.UserStore, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProjectService{
		projects: projects,
		users:    users,
		logger:   logger,
	}
}

// ListProjects returns the projects visible to the actor without populating
// their sprints or stories.
func (s *ProjectService) ListProjects(ctx context.Context, actorID int64) ([]project.Project, error) {
	s.logger.InfoContext(ctx, "listing projects", slog.Int64("actor_id", actorID))

	projects, err := s.projects.ListVisibleProjects(ctx, actorID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list projects",
			slog.String("operation", "ListProjects"),
			slog.Int64("actor_id", actorID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return projects, nil
}

// Embedding limits for the project detail view. Full listings live on the
// dedicated sprint and story endpoints.
const (
	detailSprintLimit = 5
	detailStoryLimit  = 10
)

// GetProject returns a single project by ID with its most recent sprints
// and stories embedded.
func (s *ProjectService) GetProject(ctx context.Context, actorID, id int64) (*project.Project, error) {
	s.logger.InfoContext(ctx, "fetching project", slog.Int64("id", id))

	proj, err := s.projects.GetProjectDetail(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch project",
			slog.String("operation", "GetProject"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	if len(proj.Sprints) > detailSprintLimit {
		proj.Sprints = proj.Sprints[:detailSprintLimit]
	}
	if len(proj.Stories) > detailStoryLimit {
		proj.Stories = proj.Stories[:detailStoryLimit]
	}

	return proj, nil
}

// CreateProject validates and creates a new project, returning the created
// entity with server-assigned fields (ID, timestamps).
func (s *ProjectService) CreateProject(ctx context.Context, actorID int64, p *project.Project) (*project.Project, error) {
	s.logger.InfoContext(ctx, "creating project",
		slog.Int64("actor_id", actorID),
		slog.String("name", p.Name),
	)

	if p.Status == "" {
		p.Status = project.StatusPlanning
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created, err := s.projects.CreateProject(ctx, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create project",
			slog.String("operation", "CreateProject"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// UpdateProject validates and updates an existing project's fields,
// including its team membership.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID, id int64, p *project.Project) (*project.Project, error) {
	s.logger.InfoContext(ctx, "updating project", slog.Int64("id", id))

	existing, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := requireEdit(existing, actorID); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.projects.UpdateProject(ctx, id, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update project",
			slog.String("operation", "UpdateProject"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteProject deletes a project together with its whole subtree of
// sprints, stories, tasks, and comments.
func (s *ProjectService) DeleteProject(ctx context.Context, actorID, id int64) error {
	s.logger.InfoContext(ctx, "deleting project", slog.Int64("id", id))

	existing, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	if err := requireEdit(existing, actorID); err != nil {
		return err
	}

	if err := s.projects.DeleteProject(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete project",
			slog.String("operation", "DeleteProject"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// AddTeamMember adds a user to the project team. Adding an existing member
// is a no-op.
func (s *ProjectService) AddTeamMember(ctx context.Context, actorID, projectID, userID int64) error {
	s.logger.InfoContext(ctx, "adding team member",
		slog.Int64("project_id", projectID),
		slog.Int64("user_id", userID),
	)

	proj, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	if err := requireEdit(proj, actorID); err != nil {
		return err
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return fmt.Errorf("verifying user: %w", err)
	}

	if proj.HasMember(userID) {
		return nil
	}
	proj.TeamMemberIDs = append(proj.TeamMemberIDs, userID)

	if _, err := s.projects.UpdateProject(ctx, projectID, proj); err != nil {
		s.logger.ErrorContext(ctx, "failed to add team member",
			slog.String("operation", "AddTeamMember"),
			slog.Int64("project_id", projectID),
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// RemoveTeamMember removes a user from the project team. Existing story and
// task assignments of the removed user are kept.
func (s *ProjectService) RemoveTeamMember(ctx context.Context, actorID, projectID, userID int64) error {
	s.logger.InfoContext(ctx, "removing team member",
		slog.Int64("project_id", projectID),
		slog.Int64("user_id", userID),
	)

	proj, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	if err := requireEdit(proj, actorID); err != nil {
		return err
	}

	if !proj.HasMember(userID) {
		return nil
	}
	proj.TeamMemberIDs = slices.DeleteFunc(proj.TeamMemberIDs, func(id int64) bool {
		return id == userID
	})

	if _, err := s.projects.UpdateProject(ctx, projectID, proj); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove team member",
			slog.String("operation", "RemoveTeamMember"),
			slog.Int64("project_id", projectID),
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
