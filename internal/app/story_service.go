package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/comment"
	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/domain/story"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// Compile-time check that StoryService implements ports.StoryService.
var _ ports.StoryService = (*StoryService)(nil)

// StoryService implements ports.StoryService. Story, task, and comment
// mutations are open to any project participant; the assignment rule
// (assignee must be a current team member) is checked here at assignment
// time, never retroactively.
type StoryService struct {
	stories  ports.StoryStore
	sprints  ports.SprintStore
	projects ports.ProjectStore
	comments ports.CommentStore
	logger   *slog.Logger
}

// NewStoryService creates a StoryService.
func NewStoryService(
	stories ports.StoryStore,
	sprints ports.SprintStore,
	projects ports.ProjectStore,
	comments ports.CommentStore,
	logger *slog.Logger,
) *StoryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StoryService{
		stories:  stories,
		sprints:  sprints,
		projects: projects,
		comments: comments,
		logger:   logger,
	}
}

// projectOf loads the owning project of a story.
func (s *StoryService) projectOf(ctx context.Context, st *story.Story) (*project.Project, error) {
	proj, err := s.projects.GetProject(ctx, st.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return proj, nil
}

// ListStories returns stories matching the filter, restricted to projects
// the actor can view.
func (s *StoryService) ListStories(ctx context.Context, actorID int64, filter story.Filter) ([]story.Story, error) {
	s.logger.InfoContext(ctx, "listing stories", slog.Int64("actor_id", actorID))

	if filter.ProjectID != nil {
		proj, err := s.projects.GetProject(ctx, *filter.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("loading project: %w", err)
		}
		if err := requireView(proj, actorID); err != nil {
			return nil, err
		}

		stories, err := s.stories.ListStories(ctx, filter)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to list stories",
				slog.String("operation", "ListStories"),
				slog.Any("error", err),
			)
			return nil, err
		}
		return stories, nil
	}

	// No project restriction: list across the actor's visible projects.
	visible, err := s.projects.ListVisibleProjects(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("loading visible projects: %w", err)
	}

	var out []story.Story
	for _, proj := range visible {
		f := filter
		f.ProjectID = &proj.ID
		stories, err := s.stories.ListStories(ctx, f)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to list stories",
				slog.String("operation", "ListStories"),
				slog.Int64("project_id", proj.ID),
				slog.Any("error", err),
			)
			return nil, err
		}
		out = append(out, stories...)
	}

	// Restore the global ordering across projects.
	slices.SortStableFunc(out, func(a, b story.Story) int {
		if d := b.Priority.Rank() - a.Priority.Rank(); d != 0 {
			return d
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return out, nil
}

// GetStory returns a single story by ID with its tasks and comments
// populated.
func (s *StoryService) GetStory(ctx context.Context, actorID, id int64) (*story.Story, error) {
	s.logger.InfoContext(ctx, "fetching story", slog.Int64("id", id))

	st, err := s.stories.GetStoryDetail(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch story",
			slog.String("operation", "GetStory"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	proj, err := s.projectOf(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	return st, nil
}

// CreateStory validates and creates a new story. An empty status defaults
// to BACKLOG and the actor is recorded as the creator.
func (s *StoryService) CreateStory(ctx context.Context, actorID int64, st *story.Story) (*story.Story, error) {
	s.logger.InfoContext(ctx, "creating story",
		slog.Int64("project_id", st.ProjectID),
		slog.String("title", st.Title),
	)

	proj, err := s.projects.GetProject(ctx, st.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	if st.Status == "" {
		st.Status = story.StatusBacklog
	}
	if st.Priority == "" {
		st.Priority = story.PriorityMedium
	}
	st.CreatedByID = actorID

	if st.AssignedToID != nil && !proj.HasMember(*st.AssignedToID) {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"assigned_to": "must be a member of the project team",
		}}
	}
	if st.SprintID != nil {
		if err := s.checkSprintPlacement(ctx, st.ProjectID, *st.SprintID); err != nil {
			return nil, err
		}
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	created, err := s.stories.CreateStory(ctx, st)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create story",
			slog.String("operation", "CreateStory"),
			slog.Int64("project_id", st.ProjectID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// UpdateStory validates and updates a story's fields. Project, creator,
// status, assignment, and sprint placement are kept as-is; those change
// through their dedicated operations.
func (s *StoryService) UpdateStory(ctx context.Context, actorID, id int64, st *story.Story) (*story.Story, error) {
	s.logger.InfoContext(ctx, "updating story", slog.Int64("id", id))

	existing, err := s.stories.GetStory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}

	proj, err := s.projectOf(ctx, existing)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	st.ProjectID = existing.ProjectID
	st.CreatedByID = existing.CreatedByID
	st.Status = existing.Status
	st.AssignedToID = existing.AssignedToID
	st.SprintID = existing.SprintID

	if err := st.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.stories.UpdateStory(ctx, id, st)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update story",
			slog.String("operation", "UpdateStory"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// TransitionStory moves the story to the given status if the transition is
// legal.
func (s *StoryService) TransitionStory(ctx context.Context, actorID, id int64, to story.Status) (*story.Story, error) {
	s.logger.InfoContext(ctx, "transitioning story",
		slog.Int64("id", id),
		slog.String("to", to.String()),
	)

	existing, err := s.stories.GetStory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}

	proj, err := s.projectOf(ctx, existing)
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

	updated, err := s.stories.UpdateStory(ctx, id, existing)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to transition story",
			slog.String("operation", "TransitionStory"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// AssignStory sets or clears the story's assignee. A non-nil assignee must
// be a current team member of the owning project.
func (s *StoryService) AssignStory(ctx context.Context, actorID, id int64, assigneeID *int64) (*story.Story, error) {
	s.logger.InfoContext(ctx, "assigning story", slog.Int64("id", id))

	existing, err := s.stories.GetStory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}

	proj, err := s.projectOf(ctx, existing)
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

	updated, err := s.stories.UpdateStory(ctx, id, existing)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to assign story",
			slog.String("operation", "AssignStory"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// MoveToSprint places the story in a sprint, or back on the product
// backlog when sprintID is nil. The sprint must belong to the story's
// project.
func (s *StoryService) MoveToSprint(ctx context.Context, actorID, id int64, sprintID *int64) (*story.Story, error) {
	s.logger.InfoContext(ctx, "moving story", slog.Int64("id", id))

	existing, err := s.stories.GetStory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}

	proj, err := s.projectOf(ctx, existing)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	if sprintID != nil {
		if err := s.checkSprintPlacement(ctx, existing.ProjectID, *sprintID); err != nil {
			return nil, err
		}
	}

	existing.SprintID = sprintID

	updated, err := s.stories.UpdateStory(ctx, id, existing)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to move story",
			slog.String("operation", "MoveToSprint"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// checkSprintPlacement verifies that the sprint exists and belongs to the
// given project.
func (s *StoryService) checkSprintPlacement(ctx context.Context, projectID, sprintID int64) error {
	sp, err := s.sprints.GetSprint(ctx, sprintID)
	if err != nil {
		return fmt.Errorf("loading sprint: %w", err)
	}
	if sp.ProjectID != projectID {
		return &domain.ValidationError{Fields: map[string]string{
			"sprint": "must belong to the story's project",
		}}
	}
	return nil
}

// DeleteStory deletes a story together with its tasks and comments. Only
// the story's creator or a project editor may delete it.
func (s *StoryService) DeleteStory(ctx context.Context, actorID, id int64) error {
	s.logger.InfoContext(ctx, "deleting story", slog.Int64("id", id))

	existing, err := s.stories.GetStory(ctx, id)
	if err != nil {
		return fmt.Errorf("loading story: %w", err)
	}

	proj, err := s.projectOf(ctx, existing)
	if err != nil {
		return err
	}
	if existing.CreatedByID != actorID {
		if err := requireEdit(proj, actorID); err != nil {
			return err
		}
	}

	if err := s.stories.DeleteStory(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete story",
			slog.String("operation", "DeleteStory"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// ListComments returns the story's comments, newest first.
func (s *StoryService) ListComments(ctx context.Context, actorID, storyID int64) ([]comment.Comment, error) {
	s.logger.InfoContext(ctx, "listing comments", slog.Int64("story_id", storyID))

	st, err := s.stories.GetStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}

	proj, err := s.projectOf(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListComments(ctx, storyID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list comments",
			slog.String("operation", "ListComments"),
			slog.Int64("story_id", storyID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return comments, nil
}

// AddComment attaches a comment to the story, authored by the actor.
func (s *StoryService) AddComment(ctx context.Context, actorID, storyID int64, content string) (*comment.Comment, error) {
	s.logger.InfoContext(ctx, "adding comment", slog.Int64("story_id", storyID))

	st, err := s.stories.GetStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}

	proj, err := s.projectOf(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := requireView(proj, actorID); err != nil {
		return nil, err
	}

	c := &comment.Comment{
		StoryID:  storyID,
		AuthorID: actorID,
		Content:  content,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	created, err := s.comments.CreateComment(ctx, c)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to add comment",
			slog.String("operation", "AddComment"),
			slog.Int64("story_id", storyID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// DeleteComment removes a comment. Only the comment's author or a project
// editor may delete it.
func (s *StoryService) DeleteComment(ctx context.Context, actorID, commentID int64) error {
	s.logger.InfoContext(ctx, "deleting comment", slog.Int64("id", commentID))

	c, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("loading comment: %w", err)
	}

	st, err := s.stories.GetStory(ctx, c.StoryID)
	if err != nil {
		return fmt.Errorf("loading story: %w", err)
	}

	proj, err := s.projectOf(ctx, st)
	if err != nil {
		return err
	}
	if c.AuthorID != actorID {
		if err := requireEdit(proj, actorID); err != nil {
			return err
		}
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete comment",
			slog.String("operation", "DeleteComment"),
			slog.Int64("id", commentID),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
