package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liskovpm/scrum-service/internal/app/fanout"
	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/domain/story"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// Compile-time check that QueryService implements ports.QueryService.
var _ ports.QueryService = (*QueryService)(nil)

// QueryService implements ports.QueryService. All operations are read-only
// and recompute from current store state on each call. Per-project counts
// are fanned out with bounded concurrency.
type QueryService struct {
	projects      ports.ProjectStore
	sprints       ports.SprintStore
	stories       ports.StoryStore
	tasks         ports.TaskStore
	dashboardSize int
	maxWorkers    int
	logger        *slog.Logger
}

// NewQueryService creates a QueryService. dashboardSize bounds each MyWork
// list; maxWorkers bounds the per-project count fan-out.
func NewQueryService(
	projects ports.ProjectStore,
	sprints ports.SprintStore,
	stories ports.StoryStore,
	tasks ports.TaskStore,
	dashboardSize int,
	maxWorkers int,
	logger *slog.Logger,
) *QueryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &QueryService{
		projects:      projects,
		sprints:       sprints,
		stories:       stories,
		tasks:         tasks,
		dashboardSize: dashboardSize,
		maxWorkers:    maxWorkers,
		logger:        logger,
	}
}

// ProjectSummaries returns the actor's visible projects together with
// per-project sprint and story counts, computed concurrently.
func (s *QueryService) ProjectSummaries(ctx context.Context, actorID int64) ([]ports.ProjectSummary, error) {
	s.logger.InfoContext(ctx, "building project summaries", slog.Int64("actor_id", actorID))

	visible, err := s.projects.ListVisibleProjects(ctx, actorID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list visible projects",
			slog.String("operation", "ProjectSummaries"),
			slog.Int64("actor_id", actorID),
			slog.Any("error", err),
		)
		return nil, err
	}

	results := fanout.Run(ctx, s.maxWorkers, visible,
		func(ctx context.Context, p project.Project) (ports.ProjectSummary, error) {
			sprintCount, err := s.sprints.CountSprints(ctx, p.ID)
			if err != nil {
				return ports.ProjectSummary{}, fmt.Errorf("counting sprints: %w", err)
			}
			storyCount, err := s.stories.CountStories(ctx, p.ID, story.Filter{})
			if err != nil {
				return ports.ProjectSummary{}, fmt.Errorf("counting stories: %w", err)
			}
			return ports.ProjectSummary{
				Project:     p,
				SprintCount: sprintCount,
				StoryCount:  storyCount,
			}, nil
		})

	summaries := make([]ports.ProjectSummary, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			s.logger.ErrorContext(ctx, "failed to count project children",
				slog.String("operation", "ProjectSummaries"),
				slog.Int64("project_id", visible[i].ID),
				slog.Any("error", r.Err),
			)
			return nil, r.Err
		}
		summaries = append(summaries, r.Value)
	}

	return summaries, nil
}

// ProjectCounts returns the sprint count and the story count for one
// project. The filter restricts which stories are counted.
func (s *QueryService) ProjectCounts(ctx context.Context, actorID, projectID int64, filter story.Filter) (int, int, error) {
	s.logger.InfoContext(ctx, "counting project children", slog.Int64("project_id", projectID))

	proj, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return 0, 0, fmt.Errorf("loading project: %w", err)
	}
	if err := requireView(proj, actorID); err != nil {
		return 0, 0, err
	}

	sprintCount, err := s.sprints.CountSprints(ctx, projectID)
	if err != nil {
		return 0, 0, fmt.Errorf("counting sprints: %w", err)
	}
	storyCount, err := s.stories.CountStories(ctx, projectID, filter)
	if err != nil {
		return 0, 0, fmt.Errorf("counting stories: %w", err)
	}

	return sprintCount, storyCount, nil
}

// MyWork returns the actor's dashboard: stories and tasks assigned to them,
// newest first, each list bounded to the configured page size.
func (s *QueryService) MyWork(ctx context.Context, actorID int64) (*ports.Dashboard, error) {
	s.logger.InfoContext(ctx, "building dashboard", slog.Int64("actor_id", actorID))

	visible, err := s.projects.ListVisibleProjects(ctx, actorID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list visible projects",
			slog.String("operation", "MyWork"),
			slog.Int64("actor_id", actorID),
			slog.Any("error", err),
		)
		return nil, err
	}
	if len(visible) > s.dashboardSize {
		visible = visible[:s.dashboardSize]
	}

	stories, err := s.stories.ListAssignedStories(ctx, actorID, s.dashboardSize)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list assigned stories",
			slog.String("operation", "MyWork"),
			slog.Int64("actor_id", actorID),
			slog.Any("error", err),
		)
		return nil, err
	}

	tasks, err := s.tasks.ListAssignedTasks(ctx, actorID, s.dashboardSize)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list assigned tasks",
			slog.String("operation", "MyWork"),
			slog.Int64("actor_id", actorID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &ports.Dashboard{
		Projects: visible,
		Stories:  stories,
		Tasks:    tasks,
	}, nil
}
