package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/domain/task"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// Compile-time check that TaskService implements ports.TaskService.
var _ ports.TaskService = (*TaskService)(nil)

// TaskService implements ports.TaskService. Tasks inherit their
// authorization scope from the owning story's project; the assignment rule
// mirrors the story one.
type TaskService struct {
	tasks    ports.TaskStore
	stories  ports.StoryStore
	projects ports.ProjectStore
	logger   *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks ports.TaskStore, stories ports.StoryStore, projects ports.ProjectStore, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TaskService{
		tasks:    tasks,
		stories:  stories,
		projects: projects,
		logger:   logger,
	}
}

// projectOfStory loads the project owning the given story.
func (s *TaskService) projectOfStory(ctx context.Context, storyID int64) (*project.Project, error) {
	st, err := s.stories.GetStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}
	proj, err := s.projects.GetProject(ctx, st.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return proj, nil
}

// ListTasks returns the story's tasks ordered by status then recency.
func (s *TaskService) ListTasks(ctx context.Context, actorID, storyID int64) ([]task.Task, error) {
	s.logger.InfoContext(ctx, "listing tasks", slog.Int64("story_id", storyID))

	proj, err := s.projectOfStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasks(ctx, storyID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list tasks",
			slog.String("operation", "ListTasks"),
			slog.Int64("story_id", storyID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return tasks, nil
}

// GetTask returns a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, actorID, id int64) (*task.Task, error) {
	s.logger.InfoContext(ctx, "fetching task", slog.Int64("id", id))

	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch task",
			slog.String("operation", "GetTask"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	proj, err := s.projectOfStory(ctx, t.StoryID)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	return t, nil
}

// CreateTask validates and creates a new task within a story. An empty
// status defaults to TODO.
func (s *TaskService) CreateTask(ctx context.Context, actorID int64, t *task.Task) (*task.Task, error) {
	s.logger.InfoContext(ctx, "creating task",
		slog.Int64("story_id", t.StoryID),
		slog.String("title", t.Title),
	)

	proj, err := s.projectOfStory(ctx, t.StoryID)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	if t.Status == "" {
		t.Status = task.StatusTodo
	}
	if t.AssignedToID != nil && !proj.HasMember(*t.AssignedToID) {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"assigned_to": "must be a member of the project team",
		}}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	created, err := s.tasks.CreateTask(ctx, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create task",
			slog.String("operation", "CreateTask"),
			slog.Int64("story_id", t.StoryID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// UpdateTask validates and updates a task's fields. Story, status, and
// assignment are kept as-is; those change through their dedicated
// operations.
func (s *TaskService) UpdateTask(ctx context.Context, actorID, id int64, t *task.Task) (*task.Task, error) {
	s.logger.InfoContext(ctx, "updating task", slog.Int64("id", id))

	existing, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}

	proj, err := s.projectOfStory(ctx, existing.StoryID)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	t.StoryID = existing.StoryID
	t.Status = existing.Status
	t.AssignedToID = existing.AssignedToID

	if err := t.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.tasks.UpdateTask(ctx, id, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update task",
			slog.String("operation", "UpdateTask"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// TransitionTask moves the task to the given status if the transition is
// legal.
func (s *TaskService) TransitionTask(ctx context.Context, actorID, id int64, to task.Status) (*task.Task, error) {
	s.logger.InfoContext(ctx, "transitioning task",
		slog.Int64("id", id),
		slog.String("to", to.String()),
	)

	existing, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}

	proj, err := s.projectOfStory(ctx, existing.StoryID)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
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

	updated, err := s.tasks.UpdateTask(ctx, id, existing)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to transition task",
			slog.String("operation", "TransitionTask"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// AssignTask sets or clears the task's assignee. A non-nil assignee must be
// a current team member of the owning project.
func (s *TaskService) AssignTask(ctx context.Context, actorID, id int64, assigneeID *int64) (*task.Task, error) {
	s.logger.InfoContext(ctx, "assigning task", slog.Int64("id", id))

	existing, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}

	proj, err := s.projectOfStory(ctx, existing.StoryID)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	if assigneeID != nil && !proj.HasMember(*assigneeID) {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"assigned_to": "must be a member of the project team",
		}}
	}

	existing.AssignedToID = assigneeID

	updated, err := s.tasks.UpdateTask(ctx, id, existing)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to assign task",
			slog.String("operation", "AssignTask"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteTask deletes a task.
func (s *TaskService) DeleteTask(ctx context.Context, actorID, id int64) error {
	s.logger.InfoContext(ctx, "deleting task", slog.Int64("id", id))

	existing, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("loading task: %w", err)
	}

	proj, err := s.projectOfStory(ctx, existing.StoryID)
	if err != nil {
		return err
	}
	if err := requireView(proj, actorID); err != nil {
		return err
	}

	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete task",
			slog.String("operation", "DeleteTask"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
