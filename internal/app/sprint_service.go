package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/sprint"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// Compile-time check that SprintService implements ports.SprintService.
var _ ports.SprintService = (*SprintService)(nil)

// SprintService implements ports.SprintService. Sprint mutations require
// project edit rights; the per-project number uniqueness rule lives in the
// store where it can be checked atomically with the write.
type SprintService struct {
	sprints  ports.SprintStore
	projects ports.ProjectStore
	logger   *slog.Logger
}

// NewSprintService creates a SprintService.
func NewSprintService(sprints ports.SprintStore, projects ports.ProjectStore, logger *slog.Logger) *SprintService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SprintService{
		sprints:  sprints,
		projects: projects,
		logger:   logger,
	}
}

// ListSprints returns the project's sprints ordered by number descending.
func (s *SprintService) ListSprints(ctx context.Context, actorID, projectID int64) ([]sprint.Sprint, error) {
	s.logger.InfoContext(ctx, "listing sprints", slog.Int64("project_id", projectID))

	proj, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	sprints, err := s.sprints.ListSprints(ctx, projectID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list sprints",
			slog.String("operation", "ListSprints"),
			slog.Int64("project_id", projectID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return sprints, nil
}

// GetSprint returns a single sprint by ID.
func (s *SprintService) GetSprint(ctx context.Context, actorID, id int64) (*sprint.Sprint, error) {
	s.logger.InfoContext(ctx, "fetching sprint", slog.Int64("id", id))

	sp, err := s.sprints.GetSprint(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch sprint",
			slog.String("operation", "GetSprint"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	proj, err := s.projects.GetProject(ctx, sp.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	return sp, nil
}

// CreateSprint validates and creates a new sprint. An empty status defaults
// to PLANNED; velocity cannot be set at creation.
func (s *SprintService) CreateSprint(ctx context.Context, actorID int64, sp *sprint.Sprint) (*sprint.Sprint, error) {
	s.logger.InfoContext(ctx, "creating sprint",
		slog.Int64("project_id", sp.ProjectID),
		slog.Int("number", sp.Number),
	)

	proj, err := s.projects.GetProject(ctx, sp.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := requireEdit(proj, actorID); err != nil {
		return nil, err
	}

	if sp.Status == "" {
		sp.Status = sprint.StatusPlanned
	}
	if sp.Velocity != nil {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"velocity": "can only be set on a completed sprint",
		}}
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	created, err := s.sprints.CreateSprint(ctx, sp)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create sprint",
			slog.String("operation", "CreateSprint"),
			slog.Int64("project_id", sp.ProjectID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// UpdateSprint validates and updates a sprint's fields. The status is kept
// as-is; changing it goes through TransitionSprint. Velocity may only be
// set once the sprint is completed, and only ever as an explicit input.
func (s *SprintService) UpdateSprint(ctx context.Context, actorID, id int64, sp *sprint.Sprint) (*sprint.Sprint, error) {
	s.logger.InfoContext(ctx, "updating sprint", slog.Int64("id", id))

	existing, err := s.sprints.GetSprint(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading sprint: %w", err)
	}

	proj, err := s.projects.GetProject(ctx, existing.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := requireEdit(proj, actorID); err != nil {
		return nil, err
	}

	sp.ProjectID = existing.ProjectID
	sp.Status = existing.Status

	if sp.Velocity != nil && existing.Status != sprint.StatusCompleted {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"velocity": "can only be set on a completed sprint",
		}}
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.sprints.UpdateSprint(ctx, id, sp)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update sprint",
			slog.String("operation", "UpdateSprint"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// TransitionSprint moves the sprint to the given status if the transition
// is legal.
func (s *SprintService) TransitionSprint(ctx context.Context, actorID, id int64, to sprint.Status) (*sprint.Sprint, error) {
	s.logger.InfoContext(ctx, "transitioning sprint",
		slog.Int64("id", id),
		slog.String("to", to.String()),
	)

	existing, err := s.sprints.GetSprint(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading sprint: %w", err)
	}

	proj, err := s.projects.GetProject(ctx, existing.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := requireEdit(proj, actorID); err != nil {
		return nil, err
	}

	if !to.IsValid() {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"status": fmt.Sprintf("invalid: %q", to),
		}}
	}
	if !existing.Status.CanTransitionTo(to) {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"status": fmt.Sprintf("cannot transition from %s to %s", existing.Status, to),
		}}
	}
	if existing.Status == to {
		return existing, nil
	}

	existing.Status = to

	updated, err := s.sprints.UpdateSprint(ctx, id, existing)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to transition sprint",
			slog.String("operation", "TransitionSprint"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteSprint deletes a sprint. Stories in the sprint return to the
// product backlog; they are not deleted.
func (s *SprintService) DeleteSprint(ctx context.Context, actorID, id int64) error {
	s.logger.InfoContext(ctx, "deleting sprint", slog.Int64("id", id))

	existing, err := s.sprints.GetSprint(ctx, id)
	if err != nil {
		return fmt.Errorf("loading sprint: %w", err)
	}

	proj, err := s.projects.GetProject(ctx, existing.ProjectID)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	if err := requireEdit(proj, actorID); err != nil {
		return err
	}

	if err := s.sprints.DeleteSprint(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete sprint",
			slog.String("operation", "DeleteSprint"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
