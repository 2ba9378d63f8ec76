package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/domain/sprint"
	"github.com/liskovpm/scrum-service/internal/domain/story"
	"github.com/liskovpm/scrum-service/internal/domain/task"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"

	// DateLayout is the wire format for date fields.
	DateLayout = "2006-01-02"
)

// ParseDate parses a wire-format date into a UTC time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func checkDate(fields map[string]string, field, value string) {
	if _, err := ParseDate(value); err != nil {
		fields[field] = fmt.Sprintf("must be a date in %s form", DateLayout)
	}
}

// CreateProjectRequest represents the JSON body for creating a project.
type CreateProjectRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Status         string  `json:"status,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date,omitempty"`
	ProductOwnerID int64   `json:"product_owner_id"`
	ScrumMasterID  int64   `json:"scrum_master_id"`
	TeamMemberIDs  []int64 `json:"team_member_ids,omitempty"`
}

// Validate checks that required fields are present and enumerated or
// date fields parse. Returns a *domain.ValidationError if any checks fail.
func (r *CreateProjectRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	if strings.TrimSpace(r.Description) == "" {
		fields["description"] = msgRequired
	}
	if r.Status != "" && !project.Status(r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", r.Status)
	}
	if r.StartDate == "" {
		fields["start_date"] = msgRequired
	} else {
		checkDate(fields, "start_date", r.StartDate)
	}
	if r.EndDate != nil {
		checkDate(fields, "end_date", *r.EndDate)
	}
	if r.ProductOwnerID <= 0 {
		fields["product_owner_id"] = msgRequired
	}
	if r.ScrumMasterID <= 0 {
		fields["scrum_master_id"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateProjectRequest represents the JSON body for updating a project.
// All fields are optional; nil means "do not change this field".
type UpdateProjectRequest struct {
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Status         *string  `json:"status,omitempty"`
	StartDate      *string  `json:"start_date,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	ProductOwnerID *int64   `json:"product_owner_id,omitempty"`
	ScrumMasterID  *int64   `json:"scrum_master_id,omitempty"`
	TeamMemberIDs  *[]int64 `json:"team_member_ids,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateProjectRequest) Validate() error {
	fields := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields["name"] = msgMustNotEmpty
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		fields["description"] = msgMustNotEmpty
	}
	if r.Status != nil && !project.Status(*r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", *r.Status)
	}
	if r.StartDate != nil {
		checkDate(fields, "start_date", *r.StartDate)
	}
	if r.EndDate != nil {
		checkDate(fields, "end_date", *r.EndDate)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// MemberRequest represents the JSON body for adding a team member.
type MemberRequest struct {
	UserID int64 `json:"user_id"`
}

// Validate checks that the user reference is present.
func (r *MemberRequest) Validate() error {
	if r.UserID <= 0 {
		return &domain.ValidationError{Fields: map[string]string{"user_id": msgRequired}}
	}
	return nil
}

// TransitionRequest represents the JSON body for a status transition on
// any entity. The target state's validity against the entity's
// lifecycle is checked by the owning service.
type TransitionRequest struct {
	Status string `json:"status"`
}

// Validate checks that a target status is present.
func (r *TransitionRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return &domain.ValidationError{Fields: map[string]string{"status": msgRequired}}
	}
	return nil
}

// CreateSprintRequest represents the JSON body for creating a sprint.
type CreateSprintRequest struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Goal      string `json:"goal,omitempty"`
	Status    string `json:"status,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Validate checks that required fields are present and parse.
func (r *CreateSprintRequest) Validate() error {
	fields := make(map[string]string)

	if r.Number <= 0 {
		fields["number"] = "must be positive"
	}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	if r.Status != "" && !sprint.Status(r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", r.Status)
	}
	if r.StartDate == "" {
		fields["start_date"] = msgRequired
	} else {
		checkDate(fields, "start_date", r.StartDate)
	}
	if r.EndDate == "" {
		fields["end_date"] = msgRequired
	} else {
		checkDate(fields, "end_date", r.EndDate)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateSprintRequest represents the JSON body for updating a sprint.
// All fields are optional; nil means "do not change this field".
type UpdateSprintRequest struct {
	Number    *int    `json:"number,omitempty"`
	Name      *string `json:"name,omitempty"`
	Goal      *string `json:"goal,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Velocity  *int    `json:"velocity,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateSprintRequest) Validate() error {
	fields := make(map[string]string)

	if r.Number != nil && *r.Number <= 0 {
		fields["number"] = "must be positive"
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields["name"] = msgMustNotEmpty
	}
	if r.StartDate != nil {
		checkDate(fields, "start_date", *r.StartDate)
	}
	if r.EndDate != nil {
		checkDate(fields, "end_date", *r.EndDate)
	}
	if r.Velocity != nil && *r.Velocity < 0 {
		fields["velocity"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateStoryRequest represents the JSON body for creating a user story.
type CreateStoryRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	AcceptanceCriteria string `json:"acceptance_criteria,omitempty"`
	StoryPoints        *int   `json:"story_points,omitempty"`
	Priority           string `json:"priority,omitempty"`
	Status             string `json:"status,omitempty"`
	AssignedToID       *int64 `json:"assigned_to_id,omitempty"`
	SprintID           *int64 `json:"sprint_id,omitempty"`
}

// Validate checks that required fields are present and enumerated
// fields are valid.
func (r *CreateStoryRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = msgRequired
	}
	if r.Priority != "" && !story.Priority(r.Priority).IsValid() {
		fields["priority"] = fmt.Sprintf("invalid: %q", r.Priority)
	}
	if r.Status != "" && !story.Status(r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", r.Status)
	}
	if r.StoryPoints != nil && (*r.StoryPoints < 1 || *r.StoryPoints > 100) {
		fields["story_points"] = fmt.Sprintf("must be 1-100, got %d", *r.StoryPoints)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateStoryRequest represents the JSON body for updating a story's
// descriptive fields. Status, sprint placement, and assignment have
// dedicated endpoints.
type UpdateStoryRequest struct {
	Title              *string `json:"title,omitempty"`
	Description        *string `json:"description,omitempty"`
	AcceptanceCriteria *string `json:"acceptance_criteria,omitempty"`
	StoryPoints        *int    `json:"story_points,omitempty"`
	Priority           *string `json:"priority,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateStoryRequest) Validate() error {
	fields := make(map[string]string)

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}
	if r.Priority != nil && !story.Priority(*r.Priority).IsValid() {
		fields["priority"] = fmt.Sprintf("invalid: %q", *r.Priority)
	}
	if r.StoryPoints != nil && (*r.StoryPoints < 1 || *r.StoryPoints > 100) {
		fields["story_points"] = fmt.Sprintf("must be 1-100, got %d", *r.StoryPoints)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// AssignRequest represents the JSON body for assigning a story or a
// task. A null assignee clears the assignment.
type AssignRequest struct {
	AssigneeID *int64 `json:"assignee_id"`
}

// Validate checks the assignee reference; team membership is checked by
// the service against current project state.
func (r *AssignRequest) Validate() error {
	if r.AssigneeID != nil && *r.AssigneeID <= 0 {
		return &domain.ValidationError{Fields: map[string]string{"assignee_id": "must be positive"}}
	}
	return nil
}

// MoveToSprintRequest represents the JSON body for placing a story in a
// sprint. A null sprint returns the story to the product backlog.
type MoveToSprintRequest struct {
	SprintID *int64 `json:"sprint_id"`
}

// Validate checks the sprint reference; project ownership of the sprint
// is checked by the service.
func (r *MoveToSprintRequest) Validate() error {
	if r.SprintID != nil && *r.SprintID <= 0 {
		return &domain.ValidationError{Fields: map[string]string{"sprint_id": "must be positive"}}
	}
	return nil
}

// CreateCommentRequest represents the JSON body for commenting on a
// story.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// Validate checks that the comment has content.
func (r *CreateCommentRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return &domain.ValidationError{Fields: map[string]string{"content": msgRequired}}
	}
	return nil
}

// CreateTaskRequest represents the JSON body for creating a task under
// a story.
type CreateTaskRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Status         string   `json:"status,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
	AssignedToID   *int64   `json:"assigned_to_id,omitempty"`
}

// Validate checks that required fields are present and hours are not
// negative.
func (r *CreateTaskRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = msgRequired
	}
	if r.Status != "" && !task.Status(r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", r.Status)
	}
	if r.EstimatedHours != nil && *r.EstimatedHours < 0 {
		fields["estimated_hours"] = "must not be negative"
	}
	if r.ActualHours != nil && *r.ActualHours < 0 {
		fields["actual_hours"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateTaskRequest represents the JSON body for updating a task's
// descriptive fields. Status and assignment have dedicated endpoints.
type UpdateTaskRequest struct {
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateTaskRequest) Validate() error {
	fields := make(map[string]string)

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}
	if r.EstimatedHours != nil && *r.EstimatedHours < 0 {
		fields["estimated_hours"] = "must not be negative"
	}
	if r.ActualHours != nil && *r.ActualHours < 0 {
		fields["actual_hours"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateUserRequest represents the JSON body for registering a user.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Validate checks that the username is present. Uniqueness is checked
// by the store.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return &domain.ValidationError{Fields: map[string]string{"username": msgRequired}}
	}
	return nil
}

// UpdateUserRequest represents the JSON body for updating a user's
// profile. All fields are optional; nil means "do not change this field".
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateUserRequest) Validate() error {
	if r.Username != nil && strings.TrimSpace(*r.Username) == "" {
		return &domain.ValidationError{Fields: map[string]string{"username": msgMustNotEmpty}}
	}
	return nil
}
