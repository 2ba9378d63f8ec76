package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/comment"
	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/domain/sprint"
	"github.com/liskovpm/scrum-service/internal/domain/story"
	"github.com/liskovpm/scrum-service/internal/domain/task"
	"github.com/liskovpm/scrum-service/internal/domain/user"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// memStore is an in-memory implementation of every store port, used as the
// test double for service tests. It honors the store contracts the services
// rely on: uniqueness checks, ordering, cascade and detach policies, and
// the user protect rule. A logical clock keeps creation timestamps strictly
// ordered so recency-based assertions are deterministic.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]user.User
	projects map[int64]project.Project
	sprints  map[int64]sprint.Sprint
	stories  map[int64]story.Story
	tasks    map[int64]task.Task
	comments map[int64]comment.Comment
	nextID   int64
	tick     int64

	// failWith, when set, makes every operation fail. Lets tests exercise
	// the services' infrastructure-error paths.
	failWith error
}

var (
	_ ports.UserStore    = (*memStore)(nil)
	_ ports.ProjectStore = (*memStore)(nil)
	_ ports.SprintStore  = (*memStore)(nil)
	_ ports.StoryStore   = (*memStore)(nil)
	_ ports.TaskStore    = (*memStore)(nil)
	_ ports.CommentStore = (*memStore)(nil)
	_ ports.ResetStore   = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]user.User),
		projects: make(map[int64]project.Project),
		sprints:  make(map[int64]sprint.Sprint),
		stories:  make(map[int64]story.Story),
		tasks:    make(map[int64]task.Task),
		comments: make(map[int64]comment.Comment),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) now() time.Time {
	m.tick++
	return time.Unix(0, m.tick*int64(time.Millisecond)).UTC()
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

// Users

func (m *memStore) ListUsers(_ context.Context) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b user.User) int {
		return strings.Compare(a.Username, b.Username)
	})
	return out, nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	u, ok := m.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (m *memStore) CreateUser(_ context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, &domain.ValidationError{Fields: map[string]string{"username": "already taken"}}
		}
	}

	created := *u
	created.ID = m.id()
	created.CreatedAt = m.now()
	created.UpdatedAt = created.CreatedAt
	m.users[created.ID] = created
	return &created, nil
}

func (m *memStore) UpdateUser(_ context.Context, id int64, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	existing, ok := m.users[id]
	if !ok {
		return nil, notFound("user", id)
	}

	updated := *u
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = m.now()
	m.users[id] = updated
	return &updated, nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.users[id]; !ok {
		return notFound("user", id)
	}

	for _, p := range m.projects {
		if p.ProductOwnerID == id || p.ScrumMasterID == id {
			return fmt.Errorf("user %d is a project owner or scrum master: %w", id, domain.ErrReferential)
		}
	}
	for _, st := range m.stories {
		if st.CreatedByID == id {
			return fmt.Errorf("user %d created stories: %w", id, domain.ErrReferential)
		}
	}

	for pid, p := range m.projects {
		p.TeamMemberIDs = slices.DeleteFunc(p.TeamMemberIDs, func(uid int64) bool { return uid == id })
		m.projects[pid] = p
	}
	for sid, st := range m.stories {
		if st.AssignedToID != nil && *st.AssignedToID == id {
			st.AssignedToID = nil
			m.stories[sid] = st
		}
	}
	for tid, t := range m.tasks {
		if t.AssignedToID != nil && *t.AssignedToID == id {
			t.AssignedToID = nil
			m.tasks[tid] = t
		}
	}

	delete(m.users, id)
	return nil
}

// Projects

func (m *memStore) ListProjects(_ context.Context) ([]project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	out := make([]project.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b project.Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *memStore) ListVisibleProjects(ctx context.Context, userID int64) ([]project.Project, error) {
	all, err := m.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]project.Project, 0, len(all))
	for _, p := range all {
		if p.CanView(userID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetProject(_ context.Context, id int64) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	p, ok := m.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}
	p.TeamMemberIDs = slices.Clone(p.TeamMemberIDs)
	return &p, nil
}

func (m *memStore) GetProjectDetail(ctx context.Context, id int64) (*project.Project, error) {
	p, err := m.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	sprints, err := m.ListSprints(ctx, id)
	if err != nil {
		return nil, err
	}
	stories, err := m.ListStories(ctx, story.Filter{ProjectID: &id})
	if err != nil {
		return nil, err
	}

	p.Sprints = sprints
	p.Stories = stories
	return p, nil
}

func (m *memStore) CreateProject(_ context.Context, p *project.Project) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	for _, existing := range m.projects {
		if existing.Name == p.Name {
			return nil, &domain.ValidationError{Fields: map[string]string{"name": "already taken"}}
		}
	}

	created := *p
	created.ID = m.id()
	created.TeamMemberIDs = slices.Clone(p.TeamMemberIDs)
	created.CreatedAt = m.now()
	created.UpdatedAt = created.CreatedAt
	m.projects[created.ID] = created

	out := created
	return &out, nil
}

func (m *memStore) UpdateProject(_ context.Context, id int64, p *project.Project) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	existing, ok := m.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}
	for _, other := range m.projects {
		if other.ID != id && other.Name == p.Name {
			return nil, &domain.ValidationError{Fields: map[string]string{"name": "already taken"}}
		}
	}

	updated := *p
	updated.ID = id
	updated.TeamMemberIDs = slices.Clone(p.TeamMemberIDs)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = m.now()
	m.projects[id] = updated

	out := updated
	return &out, nil
}

func (m *memStore) DeleteProject(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.projects[id]; !ok {
		return notFound("project", id)
	}

	for sid, s := range m.sprints {
		if s.ProjectID == id {
			delete(m.sprints, sid)
		}
	}
	for stid, st := range m.stories {
		if st.ProjectID != id {
			continue
		}
		for tid, t := range m.tasks {
			if t.StoryID == stid {
				delete(m.tasks, tid)
			}
		}
		for cid, c := range m.comments {
			if c.StoryID == stid {
				delete(m.comments, cid)
			}
		}
		delete(m.stories, stid)
	}

	delete(m.projects, id)
	return nil
}

// Sprints

func (m *memStore) ListSprints(_ context.Context, projectID int64) ([]sprint.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []sprint.Sprint
	for _, s := range m.sprints {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b sprint.Sprint) int {
		return b.Number - a.Number
	})
	return out, nil
}

func (m *memStore) GetSprint(_ context.Context, id int64) (*sprint.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	s, ok := m.sprints[id]
	if !ok {
		return nil, notFound("sprint", id)
	}
	return &s, nil
}

func (m *memStore) CreateSprint(_ context.Context, s *sprint.Sprint) (*sprint.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	for _, existing := range m.sprints {
		if existing.ProjectID == s.ProjectID && existing.Number == s.Number {
			return nil, &domain.ValidationError{Fields: map[string]string{
				"number": fmt.Sprintf("sprint %d already exists in project", s.Number),
			}}
		}
	}

	created := *s
	created.ID = m.id()
	created.CreatedAt = m.now()
	created.UpdatedAt = created.CreatedAt
	m.sprints[created.ID] = created
	return &created, nil
}

func (m *memStore) UpdateSprint(_ context.Context, id int64, s *sprint.Sprint) (*sprint.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	existing, ok := m.sprints[id]
	if !ok {
		return nil, notFound("sprint", id)
	}
	for _, other := range m.sprints {
		if other.ID != id && other.ProjectID == existing.ProjectID && other.Number == s.Number {
			return nil, &domain.ValidationError{Fields: map[string]string{
				"number": fmt.Sprintf("sprint %d already exists in project", s.Number),
			}}
		}
	}

	updated := *s
	updated.ID = id
	updated.ProjectID = existing.ProjectID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = m.now()
	m.sprints[id] = updated
	return &updated, nil
}

func (m *memStore) DeleteSprint(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.sprints[id]; !ok {
		return notFound("sprint", id)
	}

	for stid, st := range m.stories {
		if st.SprintID != nil && *st.SprintID == id {
			st.SprintID = nil
			m.stories[stid] = st
		}
	}

	delete(m.sprints, id)
	return nil
}

func (m *memStore) CountSprints(_ context.Context, projectID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}

	n := 0
	for _, s := range m.sprints {
		if s.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

// Stories

func matchesFilter(st story.Story, f story.Filter) bool {
	if f.Status != "" && st.Status != f.Status {
		return false
	}
	if f.Priority != "" && st.Priority != f.Priority {
		return false
	}
	if f.AssigneeID != nil && (st.AssignedToID == nil || *st.AssignedToID != *f.AssigneeID) {
		return false
	}
	if f.ProjectID != nil && st.ProjectID != *f.ProjectID {
		return false
	}
	if f.SprintID != nil && (st.SprintID == nil || *st.SprintID != *f.SprintID) {
		return false
	}
	return true
}

func (m *memStore) ListStories(_ context.Context, filter story.Filter) ([]story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []story.Story
	for _, st := range m.stories {
		if matchesFilter(st, filter) {
			out = append(out, st)
		}
	}
	slices.SortFunc(out, func(a, b story.Story) int {
		if d := b.Priority.Rank() - a.Priority.Rank(); d != 0 {
			return d
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *memStore) GetStory(_ context.Context, id int64) (*story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	st, ok := m.stories[id]
	if !ok {
		return nil, notFound("story", id)
	}
	return &st, nil
}

func (m *memStore) GetStoryDetail(ctx context.Context, id int64) (*story.Story, error) {
	st, err := m.GetStory(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := m.ListTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := m.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}

	st.Tasks = tasks
	st.Comments = comments
	return st, nil
}

func (m *memStore) CreateStory(_ context.Context, st *story.Story) (*story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	created := *st
	created.ID = m.id()
	created.CreatedAt = m.now()
	created.UpdatedAt = created.CreatedAt
	m.stories[created.ID] = created
	return &created, nil
}

func (m *memStore) UpdateStory(_ context.Context, id int64, st *story.Story) (*story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	existing, ok := m.stories[id]
	if !ok {
		return nil, notFound("story", id)
	}

	updated := *st
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = m.now()
	m.stories[id] = updated
	return &updated, nil
}

func (m *memStore) DeleteStory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.stories[id]; !ok {
		return notFound("story", id)
	}

	for tid, t := range m.tasks {
		if t.StoryID == id {
			delete(m.tasks, tid)
		}
	}
	for cid, c := range m.comments {
		if c.StoryID == id {
			delete(m.comments, cid)
		}
	}

	delete(m.stories, id)
	return nil
}

func (m *memStore) ListAssignedStories(_ context.Context, userID int64, limit int) ([]story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []story.Story
	for _, st := range m.stories {
		if st.AssignedToID != nil && *st.AssignedToID == userID {
			out = append(out, st)
		}
	}
	slices.SortFunc(out, func(a, b story.Story) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CountStories(ctx context.Context, projectID int64, filter story.Filter) (int, error) {
	filter.ProjectID = &projectID
	stories, err := m.ListStories(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(stories), nil
}

// Tasks

func (m *memStore) ListTasks(_ context.Context, storyID int64) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []task.Task
	for _, t := range m.tasks {
		if t.StoryID == storyID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b task.Task) int {
		if d := strings.Compare(string(a.Status), string(b.Status)); d != 0 {
			return d
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *memStore) GetTask(_ context.Context, id int64) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	t, ok := m.tasks[id]
	if !ok {
		return nil, notFound("task", id)
	}
	return &t, nil
}

func (m *memStore) CreateTask(_ context.Context, t *task.Task) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	created := *t
	created.ID = m.id()
	created.CreatedAt = m.now()
	created.UpdatedAt = created.CreatedAt
	m.tasks[created.ID] = created
	return &created, nil
}

func (m *memStore) UpdateTask(_ context.Context, id int64, t *task.Task) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	existing, ok := m.tasks[id]
	if !ok {
		return nil, notFound("task", id)
	}

	updated := *t
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = m.now()
	m.tasks[id] = updated
	return &updated, nil
}

func (m *memStore) DeleteTask(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.tasks[id]; !ok {
		return notFound("task", id)
	}
	delete(m.tasks, id)
	return nil
}

func (m *memStore) ListAssignedTasks(_ context.Context, userID int64, limit int) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []task.Task
	for _, t := range m.tasks {
		if t.AssignedToID != nil && *t.AssignedToID == userID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b task.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Comments

func (m *memStore) ListComments(_ context.Context, storyID int64) ([]comment.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []comment.Comment
	for _, c := range m.comments {
		if c.StoryID == storyID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b comment.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *memStore) GetComment(_ context.Context, id int64) (*comment.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	c, ok := m.comments[id]
	if !ok {
		return nil, notFound("comment", id)
	}
	return &c, nil
}

func (m *memStore) CreateComment(_ context.Context, c *comment.Comment) (*comment.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	created := *c
	created.ID = m.id()
	created.CreatedAt = m.now()
	created.UpdatedAt = created.CreatedAt
	m.comments[created.ID] = created
	return &created, nil
}

func (m *memStore) DeleteComment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.comments[id]; !ok {
		return notFound("comment", id)
	}
	delete(m.comments, id)
	return nil
}

// Reset

func (m *memStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	m.users = make(map[int64]user.User)
	m.projects = make(map[int64]project.Project)
	m.sprints = make(map[int64]sprint.Sprint)
	m.stories = make(map[int64]story.Story)
	m.tasks = make(map[int64]task.Task)
	m.comments = make(map[int64]comment.Comment)
	return nil
}
