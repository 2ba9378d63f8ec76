package task

import (
	"errors"
	"testing"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
)

func float64Ptr(v float64) *float64 { return &v }

// requireValidationField is a test helper that asserts err wraps domain.ErrValidation
// and the resulting ValidationError contains the expected field key.
func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}

func TestStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{
			name:   "todo is valid",
			status: StatusTodo,
			want:   true,
		},
		{
			name:   "in_progress is valid",
			status: StatusInProgress,
			want:   true,
		},
		{
			name:   "done is valid",
			status: StatusDone,
			want:   true,
		},
		{
			name:   "empty string is invalid",
			status: "",
			want:   false,
		},
		{
			name:   "unknown value is invalid",
			status: "BLOCKED",
			want:   false,
		},
		{
			name:   "case sensitive",
			status: "todo",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("Status(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"todo to in_progress", StatusTodo, StatusInProgress, true},
		{"todo skips to done", StatusTodo, StatusDone, false},
		{"in_progress to done", StatusInProgress, StatusDone, true},
		{"in_progress back to todo", StatusInProgress, StatusTodo, false},
		{"done reopens to in_progress", StatusDone, StatusInProgress, true},
		{"done cannot go to todo", StatusDone, StatusTodo, false},
		{"same state is a no-op", StatusDone, StatusDone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("Status(%q).CanTransitionTo(%q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func validTask() Task {
	return Task{
		ID:        1,
		StoryID:   1,
		Title:     "Wire the login form",
		Status:    StatusTodo,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Task)
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid task passes",
			modify:  func(_ *Task) {},
			wantErr: false,
		},
		{
			name:      "missing story fails",
			modify:    func(tk *Task) { tk.StoryID = 0 },
			wantErr:   true,
			wantField: "story_id",
		},
		{
			name:      "empty title fails",
			modify:    func(tk *Task) { tk.Title = "" },
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "whitespace-only title fails",
			modify:    func(tk *Task) { tk.Title = "  \t" },
			wantErr:   true,
			wantField: "title",
		},
		{
			name:    "empty description passes (optional)",
			modify:  func(tk *Task) { tk.Description = "" },
			wantErr: false,
		},
		{
			name:      "invalid status fails",
			modify:    func(tk *Task) { tk.Status = "BLOCKED" },
			wantErr:   true,
			wantField: "status",
		},
		{
			name:      "negative estimated hours fails",
			modify:    func(tk *Task) { tk.EstimatedHours = float64Ptr(-1.5) },
			wantErr:   true,
			wantField: "estimated_hours",
		},
		{
			name:      "negative actual hours fails",
			modify:    func(tk *Task) { tk.ActualHours = float64Ptr(-0.25) },
			wantErr:   true,
			wantField: "actual_hours",
		},
		{
			name:    "zero hours pass",
			modify:  func(tk *Task) { tk.EstimatedHours = float64Ptr(0); tk.ActualHours = float64Ptr(0) },
			wantErr: false,
		},
		{
			name:    "fractional hours pass",
			modify:  func(tk *Task) { tk.EstimatedHours = float64Ptr(2.5) },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tk := validTask()
			tt.modify(&tk)
			err := tk.Validate()

			if tt.wantErr {
				requireValidationField(t, err, tt.wantField)
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
