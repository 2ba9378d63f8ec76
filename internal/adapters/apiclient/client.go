package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/liskovpm/scrum-service/internal/adapters/http/dto"
	"github.com/liskovpm/scrum-service/internal/platform/httpclient"
)

// Client is the outbound adapter for the scrum service's own API. The
// underlying httpclient.Client provides circuit breaking, retry with
// exponential backoff, rate limiting, OpenTelemetry tracing, and health
// checking for every call.
type Client struct {
	req    *requester
	logger *slog.Logger
}

// New creates a Client that sends requests through the given
// httpclient.Client. The client's BaseURL should point at the service
// root (e.g. "http://localhost:8080").
func New(client *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		req:    &requester{client: client, logger: logger},
		logger: logger,
	}
}

// --- Users ---

// ListUsers fetches all users from GET /api/v1/users.
func (c *Client) ListUsers(ctx context.Context) (dto.UserListResponse, error) {
	var resp dto.UserListResponse
	err := c.req.do(ctx, http.MethodGet, "/api/v1/users", 0, http.StatusOK, nil, &resp)
	return resp, err
}

// CreateUser registers a user via POST /api/v1/users.
func (c *Client) CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
	var resp dto.UserResponse
	err := c.req.do(ctx, http.MethodPost, "/api/v1/users", 0, http.StatusCreated, req, &resp)
	return resp, err
}

// DeleteUser removes a user via DELETE /api/v1/users/{id}.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/users/%d", id)
	return c.req.do(ctx, http.MethodDelete, path, 0, http.StatusNoContent, nil, nil)
}

// --- Projects ---

// ListProjects fetches the projects visible to the actor from
// GET /api/v1/projects.
func (c *Client) ListProjects(ctx context.Context, actorID int64) (dto.ProjectListResponse, error) {
	var resp dto.ProjectListResponse
	err := c.req.do(ctx, http.MethodGet, "/api/v1/projects", actorID, http.StatusOK, nil, &resp)
	return resp, err
}

// CreateProject creates a project via POST /api/v1/projects.
func (c *Client) CreateProject(ctx context.Context, actorID int64, req dto.CreateProjectRequest) (dto.ProjectResponse, error) {
	var resp dto.ProjectResponse
	err := c.req.do(ctx, http.MethodPost, "/api/v1/projects", actorID, http.StatusCreated, req, &resp)
	return resp, err
}

// DeleteProject removes a project and its subtree via
// DELETE /api/v1/projects/{id}.
func (c *Client) DeleteProject(ctx context.Context, actorID, id int64) error {
	path := fmt.Sprintf("/api/v1/projects/%d", id)
	return c.req.do(ctx, http.MethodDelete, path, actorID, http.StatusNoContent, nil, nil)
}

// --- Sprints ---

// CreateSprint creates a sprint via POST /api/v1/projects/{id}/sprints.
func (c *Client) CreateSprint(ctx context.Context, actorID, projectID int64, req dto.CreateSprintRequest) (dto.SprintResponse, error) {
	path := fmt.Sprintf("/api/v1/projects/%d/sprints", projectID)
	var resp dto.SprintResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusCreated, req, &resp)
	return resp, err
}

// TransitionSprint moves a sprint to the given status via
// POST /api/v1/sprints/{id}/transition.
func (c *Client) TransitionSprint(ctx context.Context, actorID, id int64, status string) (dto.SprintResponse, error) {
	path := fmt.Sprintf("/api/v1/sprints/%d/transition", id)
	var resp dto.SprintResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusOK, dto.TransitionRequest{Status: status}, &resp)
	return resp, err
}

// --- Stories ---

// CreateStory creates a story via POST /api/v1/projects/{id}/stories.
func (c *Client) CreateStory(ctx context.Context, actorID, projectID int64, req dto.CreateStoryRequest) (dto.StoryResponse, error) {
	path := fmt.Sprintf("/api/v1/projects/%d/stories", projectID)
	var resp dto.StoryResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusCreated, req, &resp)
	return resp, err
}

// AssignStory sets a story's assignee via POST /api/v1/stories/{id}/assign.
func (c *Client) AssignStory(ctx context.Context, actorID, id int64, assigneeID *int64) (dto.StoryResponse, error) {
	path := fmt.Sprintf("/api/v1/stories/%d/assign", id)
	var resp dto.StoryResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusOK, dto.AssignRequest{AssigneeID: assigneeID}, &resp)
	return resp, err
}

// MoveStoryToSprint places a story in a sprint via
// POST /api/v1/stories/{id}/sprint.
func (c *Client) MoveStoryToSprint(ctx context.Context, actorID, id int64, sprintID *int64) (dto.StoryResponse, error) {
	path := fmt.Sprintf("/api/v1/stories/%d/sprint", id)
	var resp dto.StoryResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusOK, dto.MoveToSprintRequest{SprintID: sprintID}, &resp)
	return resp, err
}

// TransitionStory moves a story to the given status via
// POST /api/v1/stories/{id}/transition.
func (c *Client) TransitionStory(ctx context.Context, actorID, id int64, status string) (dto.StoryResponse, error) {
	path := fmt.Sprintf("/api/v1/stories/%d/transition", id)
	var resp dto.StoryResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusOK, dto.TransitionRequest{Status: status}, &resp)
	return resp, err
}

// AddComment attaches a comment to a story via
// POST /api/v1/stories/{id}/comments.
func (c *Client) AddComment(ctx context.Context, actorID, storyID int64, content string) (dto.CommentResponse, error) {
	path := fmt.Sprintf("/api/v1/stories/%d/comments", storyID)
	var resp dto.CommentResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusCreated, dto.CreateCommentRequest{Content: content}, &resp)
	return resp, err
}

// --- Tasks ---

// CreateTask creates a task via POST /api/v1/stories/{id}/tasks.
func (c *Client) CreateTask(ctx context.Context, actorID, storyID int64, req dto.CreateTaskRequest) (dto.TaskResponse, error) {
	path := fmt.Sprintf("/api/v1/stories/%d/tasks", storyID)
	var resp dto.TaskResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusCreated, req, &resp)
	return resp, err
}

// TransitionTask moves a task to the given status via
// POST /api/v1/tasks/{id}/transition.
func (c *Client) TransitionTask(ctx context.Context, actorID, id int64, status string) (dto.TaskResponse, error) {
	path := fmt.Sprintf("/api/v1/tasks/%d/transition", id)
	var resp dto.TaskResponse
	err := c.req.do(ctx, http.MethodPost, path, actorID, http.StatusOK, dto.TransitionRequest{Status: status}, &resp)
	return resp, err
}

// --- Admin ---

// Reset wipes all data via POST /api/v1/admin/reset. Intended for local
// development and demo seeding only.
func (c *Client) Reset(ctx context.Context) error {
	return c.req.do(ctx, http.MethodPost, "/api/v1/admin/reset", 0, http.StatusNoContent, nil, nil)
}
