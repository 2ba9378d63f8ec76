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

// Store ports are implemented by the persistence adapter and called by the
// application layer. Stores enforce the rules that need database state:
// uniqueness, referential protection, and cascade policies. Constraint
// violations surface as domain.ErrValidation or domain.ErrReferential;
// missing rows as domain.ErrNotFound; connectivity failures as
// domain.ErrUnavailable.

// UserStore defines the persistence port for users.
type UserStore interface {
	// ListUsers returns all users ordered by username.
	ListUsers(ctx context.Context) ([]user.User, error)

	// GetUser returns a user by ID.
	GetUser(ctx context.Context, id int64) (*user.User, error)

	// GetUserByUsername returns a user by their unique handle.
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)

	// CreateUser inserts a user and returns it with server-assigned fields.
	// Returns domain.ErrValidation when the username is taken.
	CreateUser(ctx context.Context, u *user.User) (*user.User, error)

	// UpdateUser updates a user's profile fields.
	UpdateUser(ctx context.Context, id int64, u *user.User) (*user.User, error)

	// DeleteUser removes a user. Deletion is rejected with
	// domain.ErrReferential while the user is referenced as a product
	// owner, scrum master, or story creator; team memberships and authored
	// comments are removed and story/task assignments cleared as part of
	// the delete.
	DeleteUser(ctx context.Context, id int64) error
}

// ProjectStore defines the persistence port for projects.
type ProjectStore interface {
	// ListProjects returns all projects with their team member IDs
	// populated, without sprints or stories.
	ListProjects(ctx context.Context) ([]project.Project, error)

	// ListVisibleProjects returns the projects where the given user is a
	// team member, the product owner, or the scrum master.
	ListVisibleProjects(ctx context.Context, userID int64) ([]project.Project, error)

	// GetProject returns a project with its team member IDs populated.
	GetProject(ctx context.Context, id int64) (*project.Project, error)

	// GetProjectDetail returns a project with team members, sprints
	// (newest number first), and stories (priority then recency) populated.
	GetProjectDetail(ctx context.Context, id int64) (*project.Project, error)

	// CreateProject inserts a project and its team memberships in one
	// transaction. Returns domain.ErrValidation when the name is taken.
	CreateProject(ctx context.Context, p *project.Project) (*project.Project, error)

	// UpdateProject updates a project's fields and replaces its team
	// membership in one transaction.
	UpdateProject(ctx context.Context, id int64, p *project.Project) (*project.Project, error)

	// DeleteProject removes the project and its whole subtree of sprints,
	// stories, tasks, and comments in one transaction.
	DeleteProject(ctx context.Context, id int64) error
}

// SprintStore defines the persistence port for sprints.
type SprintStore interface {
	// ListSprints returns the project's sprints ordered by number descending.
	ListSprints(ctx context.Context, projectID int64) ([]sprint.Sprint, error)

	// GetSprint returns a sprint by ID.
	GetSprint(ctx context.Context, id int64) (*sprint.Sprint, error)

	// CreateSprint inserts a sprint. Returns domain.ErrValidation when the
	// number is already used within the project.
	CreateSprint(ctx context.Context, s *sprint.Sprint) (*sprint.Sprint, error)

	// UpdateSprint updates a sprint. The per-project number uniqueness
	// check excludes the sprint being updated.
	UpdateSprint(ctx context.Context, id int64, s *sprint.Sprint) (*sprint.Sprint, error)

	// DeleteSprint removes a sprint and detaches its stories back to the
	// product backlog in one transaction. The stories are not deleted.
	DeleteSprint(ctx context.Context, id int64) error

	// CountSprints returns the number of sprints in the project.
	CountSprints(ctx context.Context, projectID int64) (int, error)
}

// StoryStore defines the persistence port for user stories.
type StoryStore interface {
	// ListStories returns stories matching the filter, ordered by priority
	// descending then creation time descending.
	ListStories(ctx context.Context, filter story.Filter) ([]story.Story, error)

	// GetStory returns a story by ID without tasks or comments.
	GetStory(ctx context.Context, id int64) (*story.Story, error)

	// GetStoryDetail returns a story with its tasks (status then recency)
	// and comments (newest first) populated.
	GetStoryDetail(ctx context.Context, id int64) (*story.Story, error)

	// CreateStory inserts a story.
	CreateStory(ctx context.Context, st *story.Story) (*story.Story, error)

	// UpdateStory updates a story's fields, including sprint placement and
	// assignment.
	UpdateStory(ctx context.Context, id int64, st *story.Story) (*story.Story, error)

	// DeleteStory removes a story and its tasks and comments in one
	// transaction.
	DeleteStory(ctx context.Context, id int64) error

	// ListAssignedStories returns stories assigned to the user, newest
	// first, at most limit rows.
	ListAssignedStories(ctx context.Context, userID int64, limit int) ([]story.Story, error)

	// CountStories returns the number of the project's stories matching
	// the filter.
	CountStories(ctx context.Context, projectID int64, filter story.Filter) (int, error)
}

// TaskStore defines the persistence port for tasks.
type TaskStore interface {
	// ListTasks returns the story's tasks ordered by status then creation
	// time descending.
	ListTasks(ctx context.Context, storyID int64) ([]task.Task, error)

	// GetTask returns a task by ID.
	GetTask(ctx context.Context, id int64) (*task.Task, error)

	// CreateTask inserts a task.
	CreateTask(ctx context.Context, t *task.Task) (*task.Task, error)

	// UpdateTask updates a task's fields.
	UpdateTask(ctx context.Context, id int64, t *task.Task) (*task.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int64) error

	// ListAssignedTasks returns tasks assigned to the user, newest first,
	// at most limit rows.
	ListAssignedTasks(ctx context.Context, userID int64, limit int) ([]task.Task, error)
}

// CommentStore defines the persistence port for story comments.
type CommentStore interface {
	// ListComments returns the story's comments, newest first.
	ListComments(ctx context.Context, storyID int64) ([]comment.Comment, error)

	// GetComment returns a comment by ID.
	GetComment(ctx context.Context, id int64) (*comment.Comment, error)

	// CreateComment inserts a comment.
	CreateComment(ctx context.Context, c *comment.Comment) (*comment.Comment, error)

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, id int64) error
}

// ResetStore is implemented by stores that support the seed CLI's clean
// slate mode.
type ResetStore interface {
	// Reset deletes all domain data in dependency order, in one
	// transaction.
	Reset(ctx context.Context) error
}
