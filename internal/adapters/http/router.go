// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liskovpm/scrum-service/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	projectHandler *handlers.ProjectHandler,
	sprintHandler *handlers.SprintHandler,
	storyHandler *handlers.StoryHandler,
	taskHandler *handlers.TaskHandler,
	userHandler *handlers.UserHandler,
	queryHandler *handlers.QueryHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		// User management.
		r.Get("/users", userHandler.ListUsers)
		r.Post("/users", userHandler.CreateUser)
		r.Get("/users/{id}", userHandler.GetUser)
		r.Patch("/users/{id}", userHandler.UpdateUser)
		r.Delete("/users/{id}", userHandler.DeleteUser)

		// Project CRUD, team membership, and project-scoped collections.
		r.Get("/projects", projectHandler.ListProjects)
		r.Post("/projects", projectHandler.CreateProject)
		r.Get("/projects/summaries", queryHandler.ProjectSummaries)
		r.Get("/projects/{id}", projectHandler.GetProject)
		r.Patch("/projects/{id}", projectHandler.UpdateProject)
		r.Delete("/projects/{id}", projectHandler.DeleteProject)
		r.Post("/projects/{id}/members", projectHandler.AddTeamMember)
		r.Delete("/projects/{id}/members/{userId}", projectHandler.RemoveTeamMember)
		r.Get("/projects/{id}/counts", queryHandler.ProjectCounts)
		r.Get("/projects/{id}/sprints", sprintHandler.ListSprints)
		r.Post("/projects/{id}/sprints", sprintHandler.CreateSprint)
		r.Get("/projects/{id}/stories", storyHandler.ListProjectStories)
		r.Post("/projects/{id}/stories", storyHandler.CreateStory)

		// Sprint operations.
		r.Get("/sprints/{id}", sprintHandler.GetSprint)
		r.Patch("/sprints/{id}", sprintHandler.UpdateSprint)
		r.Delete("/sprints/{id}", sprintHandler.DeleteSprint)
		r.Post("/sprints/{id}/transition", sprintHandler.TransitionSprint)
		r.Get("/sprints/{id}/stories", sprintHandler.ListSprintStories)

		// Story operations, including comments and story-scoped tasks.
		r.Get("/stories/{id}", storyHandler.GetStory)
		r.Patch("/stories/{id}", storyHandler.UpdateStory)
		r.Delete("/stories/{id}", storyHandler.DeleteStory)
		r.Post("/stories/{id}/transition", storyHandler.TransitionStory)
		r.Post("/stories/{id}/assign", storyHandler.AssignStory)
		r.Post("/stories/{id}/sprint", storyHandler.MoveToSprint)
		r.Get("/stories/{id}/comments", storyHandler.ListComments)
		r.Post("/stories/{id}/comments", storyHandler.AddComment)
		r.Get("/stories/{id}/tasks", taskHandler.ListStoryTasks)
		r.Post("/stories/{id}/tasks", taskHandler.CreateTask)
		r.Delete("/comments/{id}", storyHandler.DeleteComment)

		// Task operations.
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
		r.Post("/tasks/{id}/transition", taskHandler.TransitionTask)
		r.Post("/tasks/{id}/assign", taskHandler.AssignTask)

		// Actor dashboard.
		r.Get("/dashboard", queryHandler.MyWork)

		// Development tooling.
		r.Post("/admin/reset", adminHandler.Reset)
	})

	return r
}
