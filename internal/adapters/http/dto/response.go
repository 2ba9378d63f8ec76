// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/liskovpm/scrum-service/internal/domain/comment"
	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/domain/sprint"
	"github.com/liskovpm/scrum-service/internal/domain/story"
	"github.com/liskovpm/scrum-service/internal/domain/task"
	"github.com/liskovpm/scrum-service/internal/domain/user"
	"github.com/liskovpm/scrum-service/internal/ports"
)

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// UserResponse represents a single user in HTTP responses.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserListResponse represents a list of users in HTTP responses.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

// ToUserResponse converts a domain User entity to an HTTP response DTO.
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// ToUserListResponse converts a slice of domain User entities to an
// HTTP list response DTO.
func ToUserListResponse(users []user.User) UserListResponse {
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return UserListResponse{Users: items, Count: len(items)}
}

// ProjectResponse represents a single project in HTTP responses.
// Sprints and stories are present only on detail reads.
type ProjectResponse struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	StartDate      string           `json:"start_date"`
	EndDate        *string          `json:"end_date,omitempty"`
	ProductOwnerID int64            `json:"product_owner_id"`
	ScrumMasterID  int64            `json:"scrum_master_id"`
	TeamMemberIDs  []int64          `json:"team_member_ids"`
	Sprints        []SprintResponse `json:"sprints,omitempty"`
	Stories        []StoryResponse  `json:"stories,omitempty"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
}

// ProjectListResponse represents a list of projects in HTTP responses.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Count    int               `json:"count"`
}

// ToProjectResponse converts a domain Project entity to an HTTP
// response DTO.
func ToProjectResponse(p *project.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Status:         p.Status.String(),
		StartDate:      formatDate(p.StartDate),
		EndDate:        formatDatePtr(p.EndDate),
		ProductOwnerID: p.ProductOwnerID,
		ScrumMasterID:  p.ScrumMasterID,
		TeamMemberIDs:  p.TeamMemberIDs,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
	if resp.TeamMemberIDs == nil {
		resp.TeamMemberIDs = []int64{}
	}

	if len(p.Sprints) > 0 {
		resp.Sprints = make([]SprintResponse, len(p.Sprints))
		for i := range p.Sprints {
			resp.Sprints[i] = ToSprintResponse(&p.Sprints[i])
		}
	}
	if len(p.Stories) > 0 {
		resp.Stories = make([]StoryResponse, len(p.Stories))
		for i := range p.Stories {
			resp.Stories[i] = ToStoryResponse(&p.Stories[i])
		}
	}

	return resp
}

// ToProjectListResponse converts a slice of domain Project entities to
// an HTTP list response DTO.
func ToProjectListResponse(projects []project.Project) ProjectListResponse {
	items := make([]ProjectResponse, len(projects))
	for i := range projects {
		items[i] = ToProjectResponse(&projects[i])
	}
	return ProjectListResponse{Projects: items, Count: len(items)}
}

// SprintResponse represents a single sprint in HTTP responses.
type SprintResponse struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Goal      string `json:"goal"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Velocity  *int   `json:"velocity,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SprintListResponse represents a list of sprints in HTTP responses.
type SprintListResponse struct {
	Sprints []SprintResponse `json:"sprints"`
	Count   int              `json:"count"`
}

// ToSprintResponse converts a domain Sprint entity to an HTTP response
// DTO.
func ToSprintResponse(sp *sprint.Sprint) SprintResponse {
	return SprintResponse{
		ID:        sp.ID,
		ProjectID: sp.ProjectID,
		Number:    sp.Number,
		Name:      sp.Name,
		Goal:      sp.Goal,
		Status:    sp.Status.String(),
		StartDate: formatDate(sp.StartDate),
		EndDate:   formatDate(sp.EndDate),
		Velocity:  sp.Velocity,
		CreatedAt: sp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: sp.UpdatedAt.Format(time.RFC3339),
	}
}

// ToSprintListResponse converts a slice of domain Sprint entities to an
// HTTP list response DTO.
func ToSprintListResponse(sprints []sprint.Sprint) SprintListResponse {
	items := make([]SprintResponse, len(sprints))
	for i := range sprints {
		items[i] = ToSprintResponse(&sprints[i])
	}
	return SprintListResponse{Sprints: items, Count: len(items)}
}

// StoryResponse represents a single user story in HTTP responses.
// Tasks and comments are present only on detail reads.
type StoryResponse struct {
	ID                 int64             `json:"id"`
	ProjectID          int64             `json:"project_id"`
	SprintID           *int64            `json:"sprint_id,omitempty"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	AcceptanceCriteria string            `json:"acceptance_criteria"`
	StoryPoints        *int              `json:"story_points,omitempty"`
	Priority           string            `json:"priority"`
	Status             string            `json:"status"`
	AssignedToID       *int64            `json:"assigned_to_id,omitempty"`
	CreatedByID        int64             `json:"created_by_id"`
	Tasks              []TaskResponse    `json:"tasks,omitempty"`
	Comments           []CommentResponse `json:"comments,omitempty"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

// StoryListResponse represents a list of stories in HTTP responses.
type StoryListResponse struct {
	Stories []StoryResponse `json:"stories"`
	Count   int             `json:"count"`
}

// ToStoryResponse converts a domain Story entity to an HTTP response
// DTO.
func ToStoryResponse(st *story.Story) StoryResponse {
	resp := StoryResponse{
		ID:                 st.ID,
		ProjectID:          st.ProjectID,
		SprintID:           st.SprintID,
		Title:              st.Title,
		Description:        st.Description,
		AcceptanceCriteria: st.AcceptanceCriteria,
		StoryPoints:        st.StoryPoints,
		Priority:           st.Priority.String(),
		Status:             st.Status.String(),
		AssignedToID:       st.AssignedToID,
		CreatedByID:        st.CreatedByID,
		CreatedAt:          st.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          st.UpdatedAt.Format(time.RFC3339),
	}

	if len(st.Tasks) > 0 {
		resp.Tasks = make([]TaskResponse, len(st.Tasks))
		for i := range st.Tasks {
			resp.Tasks[i] = ToTaskResponse(&st.Tasks[i])
		}
	}
	if len(st.Comments) > 0 {
		resp.Comments = make([]CommentResponse, len(st.Comments))
		for i := range st.Comments {
			resp.Comments[i] = ToCommentResponse(&st.Comments[i])
		}
	}

	return resp
}

// ToStoryListResponse converts a slice of domain Story entities to an
// HTTP list response DTO.
func ToStoryListResponse(stories []story.Story) StoryListResponse {
	items := make([]StoryResponse, len(stories))
	for i := range stories {
		items[i] = ToStoryResponse(&stories[i])
	}
	return StoryListResponse{Stories: items, Count: len(items)}
}

// TaskResponse represents a single task in HTTP responses.
type TaskResponse struct {
	ID             int64    `json:"id"`
	StoryID        int64    `json:"story_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
	AssignedToID   *int64   `json:"assigned_to_id,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// TaskListResponse represents a list of tasks in HTTP responses.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ToTaskResponse converts a domain Task entity to an HTTP response DTO.
func ToTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		StoryID:        t.StoryID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status.String(),
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		AssignedToID:   t.AssignedToID,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
}

// ToTaskListResponse converts a slice of domain Task entities to an
// HTTP list response DTO.
func ToTaskListResponse(tasks []task.Task) TaskListResponse {
	items := make([]TaskResponse, len(tasks))
	for i := range tasks {
		items[i] = ToTaskResponse(&tasks[i])
	}
	return TaskListResponse{Tasks: items, Count: len(items)}
}

// CommentResponse represents a single story comment in HTTP responses.
type CommentResponse struct {
	ID        int64  `json:"id"`
	StoryID   int64  `json:"story_id"`
	AuthorID  int64  `json:"author_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CommentListResponse represents a list of comments in HTTP responses.
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Count    int               `json:"count"`
}

// ToCommentResponse converts a domain Comment entity to an HTTP
// response DTO.
func ToCommentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		StoryID:   c.StoryID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// ToCommentListResponse converts a slice of domain Comment entities to
// an HTTP list response DTO.
func ToCommentListResponse(comments []comment.Comment) CommentListResponse {
	items := make([]CommentResponse, len(comments))
	for i := range comments {
		items[i] = ToCommentResponse(&comments[i])
	}
	return CommentListResponse{Comments: items, Count: len(items)}
}

// ProjectCountsResponse represents per-project sprint and story counts.
type ProjectCountsResponse struct {
	ProjectID   int64 `json:"project_id"`
	SprintCount int   `json:"sprint_count"`
	StoryCount  int   `json:"story_count"`
}

// ProjectSummaryResponse represents a project with child counts.
type ProjectSummaryResponse struct {
	Project     ProjectResponse `json:"project"`
	SprintCount int             `json:"sprint_count"`
	StoryCount  int             `json:"story_count"`
}

// ProjectSummaryListResponse represents the project overview listing.
type ProjectSummaryListResponse struct {
	Summaries []ProjectSummaryResponse `json:"summaries"`
	Count     int                      `json:"count"`
}

// ToProjectSummaryListResponse converts project summaries to an HTTP
// list response DTO.
func ToProjectSummaryListResponse(summaries []ports.ProjectSummary) ProjectSummaryListResponse {
	items := make([]ProjectSummaryResponse, len(summaries))
	for i := range summaries {
		items[i] = ProjectSummaryResponse{
			Project:     ToProjectResponse(&summaries[i].Project),
			SprintCount: summaries[i].SprintCount,
			StoryCount:  summaries[i].StoryCount,
		}
	}
	return ProjectSummaryListResponse{Summaries: items, Count: len(items)}
}

// DashboardResponse represents the actor's "my work" view.
type DashboardResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Stories  []StoryResponse   `json:"stories"`
	Tasks    []TaskResponse    `json:"tasks"`
}

// ToDashboardResponse converts a ports.Dashboard to an HTTP response
// DTO.
func ToDashboardResponse(d *ports.Dashboard) DashboardResponse {
	projects := make([]ProjectResponse, 0, len(d.Projects))
	for i := range d.Projects {
		projects = append(projects, ToProjectResponse(&d.Projects[i]))
	}
	return DashboardResponse{
		Projects: projects,
		Stories:  ToStoryListResponse(d.Stories).Stories,
		Tasks:    ToTaskListResponse(d.Tasks).Tasks,
	}
}
