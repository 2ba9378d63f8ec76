package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
)

// fieldErr asserts that err is a validation error carrying a message for
// exactly the named fields.
func fieldErr(t *testing.T, err error, fields ...string) {
	t.Helper()

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *domain.ValidationError", err)
	}
	if len(verr.Fields) != len(fields) {
		t.Errorf("got %d field errors (%v), want %d", len(verr.Fields), verr.Fields, len(fields))
	}
	for _, f := range fields {
		if _, ok := verr.Fields[f]; !ok {
			t.Errorf("missing field error for %q in %v", f, verr.Fields)
		}
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func f64Ptr(f float64) *float64 {
	return &f
}
func int64Ptr(n int64) *int64 { return &n }

func TestCreateProjectRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := CreateProjectRequest{
		Name:           "Portal",
		Description:    "Customer portal rebuild",
		StartDate:      "2026-01-05",
		ProductOwnerID: 1,
		ScrumMasterID:  2,
	}

	tests := []struct {
		name       string
		mutate     func(r *CreateProjectRequest)
		wantFields []string
	}{
		{
			name:   "valid minimal",
			mutate: func(_ *CreateProjectRequest) {},
		},
		{
			name: "valid with status and end date",
			mutate: func(r *CreateProjectRequest) {
				r.Status = "IN_PROGRESS"
				r.EndDate = strPtr("2026-06-30")
			},
		},
		{
			name:       "missing name",
			mutate:     func(r *CreateProjectRequest) { r.Name = "   " },
			wantFields: []string{"name"},
		},
		{
			name:       "missing description",
			mutate:     func(r *CreateProjectRequest) { r.Description = "" },
			wantFields: []string{"description"},
		},
		{
			name:       "unknown status",
			mutate:     func(r *CreateProjectRequest) { r.Status = "SHIPPED" },
			wantFields: []string{"status"},
		},
		{
			name:       "missing start date",
			mutate:     func(r *CreateProjectRequest) { r.StartDate = "" },
			wantFields: []string{"start_date"},
		},
		{
			name:       "malformed start date",
			mutate:     func(r *CreateProjectRequest) { r.StartDate = "05/01/2026" },
			wantFields: []string{"start_date"},
		},
		{
			name:       "malformed end date",
			mutate:     func(r *CreateProjectRequest) { r.EndDate = strPtr("soon") },
			wantFields: []string{"end_date"},
		},
		{
			name:       "missing roles",
			mutate:     func(r *CreateProjectRequest) { r.ProductOwnerID = 0; r.ScrumMasterID = -1 },
			wantFields: []string{"product_owner_id", "scrum_master_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			fieldErr(t, err, tt.wantFields...)
		})
	}
}

func TestUpdateProjectRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        UpdateProjectRequest
		wantFields []string
	}{
		{
			name: "empty update is valid",
			req:  UpdateProjectRequest{},
		},
		{
			name: "valid rename",
			req:  UpdateProjectRequest{Name: strPtr("Portal v2")},
		},
		{
			name:       "blank name",
			req:        UpdateProjectRequest{Name: strPtr("  ")},
			wantFields: []string{"name"},
		},
		{
			name:       "unknown status",
			req:        UpdateProjectRequest{Status: strPtr("DRAFT")},
			wantFields: []string{"status"},
		},
		{
			name:       "malformed dates",
			req:        UpdateProjectRequest{StartDate: strPtr("x"), EndDate: strPtr("y")},
			wantFields: []string{"start_date", "end_date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			fieldErr(t, err, tt.wantFields...)
		})
	}
}

func TestCreateSprintRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := CreateSprintRequest{
		Number:    1,
		Name:      "Sprint 1",
		StartDate: "2026-01-05",
		EndDate:   "2026-01-16",
	}

	tests := []struct {
		name       string
		mutate     func(r *CreateSprintRequest)
		wantFields []string
	}{
		{
			name:   "valid",
			mutate: func(_ *CreateSprintRequest) {},
		},
		{
			name:       "non-positive number",
			mutate:     func(r *CreateSprintRequest) { r.Number = 0 },
			wantFields: []string{"number"},
		},
		{
			name:       "missing name",
			mutate:     func(r *CreateSprintRequest) { r.Name = "" },
			wantFields: []string{"name"},
		},
		{
			name:       "unknown status",
			mutate:     func(r *CreateSprintRequest) { r.Status = "RUNNING" },
			wantFields: []string{"status"},
		},
		{
			name:       "missing dates",
			mutate:     func(r *CreateSprintRequest) { r.StartDate = ""; r.EndDate = "" },
			wantFields: []string{"start_date", "end_date"},
		},
		{
			name:       "malformed end date",
			mutate:     func(r *CreateSprintRequest) { r.EndDate = "Jan 16" },
			wantFields: []string{"end_date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			fieldErr(t, err, tt.wantFields...)
		})
	}
}

func TestUpdateSprintRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        UpdateSprintRequest
		wantFields []string
	}{
		{
			name: "empty update is valid",
			req:  UpdateSprintRequest{},
		},
		{
			name: "valid velocity",
			req:  UpdateSprintRequest{Velocity: intPtr(21)},
		},
		{
			name:       "negative velocity",
			req:        UpdateSprintRequest{Velocity: intPtr(-1)},
			wantFields: []string{"velocity"},
		},
		{
			name:       "non-positive number",
			req:        UpdateSprintRequest{Number: intPtr(0)},
			wantFields: []string{"number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			fieldErr(t, err, tt.wantFields...)
		})
	}
}

func TestCreateStoryRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        CreateStoryRequest
		wantFields []string
	}{
		{
			name: "valid minimal",
			req:  CreateStoryRequest{Title: "Log in"},
		},
		{
			name: "valid full",
			req: CreateStoryRequest{
				Title:       "Log in",
				Priority:    "HIGH",
				Status:      "BACKLOG",
				StoryPoints: intPtr(5),
			},
		},
		{
			name:       "missing title",
			req:        CreateStoryRequest{Title: " "},
			wantFields: []string{"title"},
		},
		{
			name:       "unknown priority",
			req:        CreateStoryRequest{Title: "x", Priority: "URGENT"},
			wantFields: []string{"priority"},
		},
		{
			name:       "unknown status",
			req:        CreateStoryRequest{Title: "x", Status: "PARKED"},
			wantFields: []string{"status"},
		},
		{
			name:       "points below range",
			req:        CreateStoryRequest{Title: "x", StoryPoints: intPtr(0)},
			wantFields: []string{"story_points"},
		},
		{
			name:       "points above range",
			req:        CreateStoryRequest{Title: "x", StoryPoints: intPtr(101)},
			wantFields: []string{"story_points"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			fieldErr(t, err, tt.wantFields...)
		})
	}
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        CreateTaskRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  CreateTaskRequest{Title: "Build form", EstimatedHours: f64Ptr(4)},
		},
		{
			name:       "missing title",
			req:        CreateTaskRequest{},
			wantFields: []string{"title"},
		},
		{
			name:       "unknown status",
			req:        CreateTaskRequest{Title: "x", Status: "WAITING"},
			wantFields: []string{"status"},
		},
		{
			name:       "negative hours",
			req:        CreateTaskRequest{Title: "x", EstimatedHours: f64Ptr(-1), ActualHours: f64Ptr(-0.5)},
			wantFields: []string{"estimated_hours", "actual_hours"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			fieldErr(t, err, tt.wantFields...)
		})
	}
}

func TestSingleFieldRequests_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       interface{ Validate() error }
		wantField string
	}{
		{name: "transition valid", req: &TransitionRequest{Status: "ACTIVE"}},
		{name: "transition blank", req: &TransitionRequest{Status: " "}, wantField: "status"},
		{name: "member valid", req: &MemberRequest{UserID: 3}},
		{name: "member missing", req: &MemberRequest{}, wantField: "user_id"},
		{name: "assign set", req: &AssignRequest{AssigneeID: int64Ptr(3)}},
		{name: "assign clear", req: &AssignRequest{}},
		{name: "assign non-positive", req: &AssignRequest{AssigneeID: int64Ptr(0)}, wantField: "assignee_id"},
		{name: "move set", req: &MoveToSprintRequest{SprintID: int64Ptr(7)}},
		{name: "move to backlog", req: &MoveToSprintRequest{}},
		{name: "move non-positive", req: &MoveToSprintRequest{SprintID: int64Ptr(-2)}, wantField: "sprint_id"},
		{name: "comment valid", req: &CreateCommentRequest{Content: "looks good"}},
		{name: "comment blank", req: &CreateCommentRequest{Content: "\t"}, wantField: "content"},
		{name: "user valid", req: &CreateUserRequest{Username: "alice"}},
		{name: "user missing username", req: &CreateUserRequest{}, wantField: "username"},
		{name: "user update empty", req: &UpdateUserRequest{}},
		{name: "user update blank username", req: &UpdateUserRequest{Username: strPtr("")}, wantField: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			fieldErr(t, err, tt.wantField)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate("2026-03-09")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got.Year() != 2026 || got.Month() != 3 || got.Day() != 9 {
		t.Errorf("got = %v, want 2026-03-09", got)
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}

	if _, err := ParseDate("03/09/2026"); err == nil {
		t.Error("ParseDate() expected error for non ISO input")
	}
}
