package ports

import (
	"context"

	"github.com/liskovpm/scrum-service/internal/domain/comment"
	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/domain/sprint"
	"github.com/liskovpm/scrum-service/internal/domain/story"
	"github.com/liskovpm/scrum-service/internal/domain/task"
	"github.com/liskovpm/scrum-service/internal/domain/user"
)

// Service ports are implemented by the application layer and called by
// inbound adapters (handlers). Every operation takes the acting user's ID;
// the application layer enforces view/edit authorization against the owning
// project and returns domain.ErrForbidden on denial.

// ProjectService defines the service port for project aggregate operations.
type ProjectService interface {
	// ListProjects returns the projects visible to the actor: those where
	// the actor is a team member, the product owner, or the scrum master.
	// Sprints and stories are not populated.
	ListProjects(ctx context.Context, actorID int64) ([]project.Project, error)

	// GetProject returns a single project by ID with its sprints and
	// stories populated.
	// Returns domain.ErrNotFound if the project does not exist and
	// domain.ErrForbidden if the actor cannot view it.
	GetProject(ctx context.Context, actorID, id int64) (*project.Project, error)

	// CreateProject creates a new project and returns the created entity
	// with server-assigned fields (ID, timestamps).
	// Returns domain.ErrValidation if the project fails validation or its
	// name is already taken.
	CreateProject(ctx context.Context, actorID int64, p *project.Project) (*project.Project, error)

	// UpdateProject updates an existing project's fields, including its
	// status and team membership, and returns the updated entity.
	// Returns domain.ErrNotFound if the project does not exist and
	// domain.ErrForbidden if the actor is neither product owner nor
	// scrum master.
	UpdateProject(ctx context.Context, actorID, id int64, p *project.Project) (*project.Project, error)

	// DeleteProject deletes a project together with all of its sprints,
	// stories, tasks, and comments, atomically.
	// Returns domain.ErrNotFound if the project does not exist.
	DeleteProject(ctx context.Context, actorID, id int64) error

	// AddTeamMember adds a user to the project team. Adding an existing
	// member is a no-op.
	// Returns domain.ErrNotFound if the project or user does not exist.
	AddTeamMember(ctx context.Context, actorID, projectID, userID int64) error

	// RemoveTeamMember removes a user from the project team. Existing story
	// and task assignments of the removed user are kept.
	RemoveTeamMember(ctx context.Context, actorID, projectID, userID int64) error
}

// SprintService defines the service port for sprint operations.
type SprintService interface {
	// ListSprints returns the project's sprints ordered by number descending.
	ListSprints(ctx context.Context, actorID, projectID int64) ([]sprint.Sprint, error)

	// GetSprint returns a single sprint by ID.
	GetSprint(ctx context.Context, actorID, id int64) (*sprint.Sprint, error)

	// CreateSprint creates a new sprint in status PLANNED.
	// Returns domain.ErrValidation if validation fails or the sprint number
	// is already used within the project.
	CreateSprint(ctx context.Context, actorID int64, s *sprint.Sprint) (*sprint.Sprint, error)

	// UpdateSprint updates a sprint's fields. The number uniqueness check
	// excludes the sprint being updated. Status changes must go through
	// TransitionSprint; velocity can only be set on a completed sprint.
	UpdateSprint(ctx context.Context, actorID, id int64, s *sprint.Sprint) (*sprint.Sprint, error)

	// TransitionSprint moves the sprint to the given status.
	// Returns domain.ErrValidation if the transition is not legal.
	TransitionSprint(ctx context.Context, actorID, id int64, to sprint.Status) (*sprint.Sprint, error)

	// DeleteSprint deletes a sprint. Stories in the sprint return to the
	// product backlog; they are not deleted.
	DeleteSprint(ctx context.Context, actorID, id int64) error
}

// StoryService defines the service port for user story operations.
type StoryService interface {
	// ListStories returns stories matching the filter, restricted to
	// projects the actor can view, ordered by priority then recency.
	ListStories(ctx context.Context, actorID int64, filter story.Filter) ([]story.Story, error)

	// GetStory returns a single story by ID with its tasks and comments
	// populated.
	GetStory(ctx context.Context, actorID, id int64) (*story.Story, error)

	// CreateStory creates a new story. An empty status defaults to BACKLOG.
	// The acting user is recorded as the creator.
	CreateStory(ctx context.Context, actorID int64, st *story.Story) (*story.Story, error)

	// UpdateStory updates a story's fields. Status changes must go through
	// TransitionStory and assignment through AssignStory.
	UpdateStory(ctx context.Context, actorID, id int64, st *story.Story) (*story.Story, error)

	// TransitionStory moves the story to the given status.
	// Returns domain.ErrValidation if the transition is not legal.
	TransitionStory(ctx context.Context, actorID, id int64, to story.Status) (*story.Story, error)

	// AssignStory sets or clears the story's assignee. A non-nil assignee
	// must be a current team member of the owning project; membership is
	// checked at assignment time only.
	AssignStory(ctx context.Context, actorID, id int64, assigneeID *int64) (*story.Story, error)

	// MoveToSprint places the story in a sprint, or back on the product
	// backlog when sprintID is nil. The sprint must belong to the story's
	// project.
	MoveToSprint(ctx context.Context, actorID, id int64, sprintID *int64) (*story.Story, error)

	// DeleteStory deletes a story together with its tasks and comments,
	// atomically.
	DeleteStory(ctx context.Context, actorID, id int64) error

	// ListComments returns the story's comments, newest first.
	ListComments(ctx context.Context, actorID, storyID int64) ([]comment.Comment, error)

	// AddComment attaches a comment to the story, authored by the actor.
	AddComment(ctx context.Context, actorID, storyID int64, content string) (*comment.Comment, error)

	// DeleteComment removes a comment. Only the comment's author or a
	// project editor may delete it.
	DeleteComment(ctx context.Context, actorID, commentID int64) error
}

// TaskService defines the service port for task operations.
type TaskService interface {
	// ListTasks returns the story's tasks ordered by status then recency.
	ListTasks(ctx context.Context, actorID, storyID int64) ([]task.Task, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, actorID, id int64) (*task.Task, error)

	// CreateTask creates a new task within a story. An empty status
	// defaults to TODO.
	CreateTask(ctx context.Context, actorID int64, t *task.Task) (*task.Task, error)

	// UpdateTask updates a task's fields. Status changes must go through
	// TransitionTask and assignment through AssignTask.
	UpdateTask(ctx context.Context, actorID, id int64, t *task.Task) (*task.Task, error)

	// TransitionTask moves the task to the given status.
	// Returns domain.ErrValidation if the transition is not legal.
	TransitionTask(ctx context.Context, actorID, id int64, to task.Status) (*task.Task, error)

	// AssignTask sets or clears the task's assignee. A non-nil assignee
	// must be a current team member of the owning project; membership is
	// checked at assignment time only.
	AssignTask(ctx context.Context, actorID, id int64, assigneeID *int64) (*task.Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, actorID, id int64) error
}

// UserService defines the service port for user management.
type UserService interface {
	// ListUsers returns all users ordered by username.
	ListUsers(ctx context.Context) ([]user.User, error)

	// GetUser returns a single user by ID.
	GetUser(ctx context.Context, id int64) (*user.User, error)

	// CreateUser creates a new user.
	// Returns domain.ErrValidation if the username is already taken.
	CreateUser(ctx context.Context, u *user.User) (*user.User, error)

	// UpdateUser updates a user's profile fields.
	UpdateUser(ctx context.Context, id int64, u *user.User) (*user.User, error)

	// DeleteUser deletes a user.
	// Returns domain.ErrReferential while the user is still referenced as a
	// product owner, scrum master, or story creator. Team memberships,
	// assignments, and authored comments are released instead.
	DeleteUser(ctx context.Context, id int64) error
}

// ProjectSummary pairs a project with its sprint and story counts for
// overview listings.
type ProjectSummary struct {
	Project     project.Project
	SprintCount int
	StoryCount  int
}

// Dashboard holds the actor's current work: their visible projects plus
// the stories and tasks assigned to them, most recent first, each list
// bounded to a configured page size.
type Dashboard struct {
	Projects []project.Project
	Stories  []story.Story
	Tasks    []task.Task
}

// QueryService defines the read-only aggregation port. Its operations never
// mutate domain state; they recompute from current store state on each call.
type QueryService interface {
	// ProjectSummaries returns the actor's visible projects together with
	// per-project sprint and story counts, computed concurrently per
	// project.
	ProjectSummaries(ctx context.Context, actorID int64) ([]ProjectSummary, error)

	// ProjectCounts returns the sprint count and the story count for one
	// project. The filter restricts which stories are counted.
	ProjectCounts(ctx context.Context, actorID, projectID int64, filter story.Filter) (sprints, stories int, err error)

	// MyWork returns the actor's dashboard: their visible projects and the
	// stories and tasks assigned to them, newest first, each list bounded
	// to the configured page size.
	MyWork(ctx context.Context, actorID int64) (*Dashboard, error)
}
