package sprint

import (
	"errors"
	"testing"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
)

func intPtr(v int) *int { return &v }

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
			name:   "planned is valid",
			status: StatusPlanned,
			want:   true,
		},
		{
			name:   "active is valid",
			status: StatusActive,
			want:   true,
		},
		{
			name:   "completed is valid",
			status: StatusCompleted,
			want:   true,
		},
		{
			name:   "cancelled is valid",
			status: StatusCancelled,
			want:   true,
		},
		{
			name:   "empty string is invalid",
			status: "",
			want:   false,
		},
		{
			name:   "unknown value is invalid",
			status: "FINISHED",
			want:   false,
		},
		{
			name:   "case sensitive",
			status: "planned",
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

func TestStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPlanned, false},
		{StatusActive, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsTerminal(); got != tt.want {
				t.Errorf("Status(%q).IsTerminal() = %v, want %v", tt.status, got, tt.want)
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
		{"planned to active", StatusPlanned, StatusActive, true},
		{"planned to cancelled", StatusPlanned, StatusCancelled, true},
		{"planned to completed skips active", StatusPlanned, StatusCompleted, false},
		{"active to completed", StatusActive, StatusCompleted, true},
		{"active to cancelled", StatusActive, StatusCancelled, true},
		{"active back to planned", StatusActive, StatusPlanned, false},
		{"completed is terminal", StatusCompleted, StatusActive, false},
		{"completed cannot be cancelled", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPlanned, false},
		{"cancelled cannot complete", StatusCancelled, StatusCompleted, false},
		{"same state is a no-op", StatusActive, StatusActive, true},
		{"same terminal state is a no-op", StatusCompleted, StatusCompleted, true},
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

func validSprint() Sprint {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	return Sprint{
		ID:        1,
		ProjectID: 1,
		Number:    1,
		Name:      "Sprint 1",
		Goal:      "Ship the login flow",
		Status:    StatusPlanned,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 14),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestSprint_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Sprint)
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid sprint passes",
			modify:  func(_ *Sprint) {},
			wantErr: false,
		},
		{
			name:      "missing project fails",
			modify:    func(s *Sprint) { s.ProjectID = 0 },
			wantErr:   true,
			wantField: "project_id",
		},
		{
			name:      "zero number fails",
			modify:    func(s *Sprint) { s.Number = 0 },
			wantErr:   true,
			wantField: "number",
		},
		{
			name:      "negative number fails",
			modify:    func(s *Sprint) { s.Number = -2 },
			wantErr:   true,
			wantField: "number",
		},
		{
			name:      "empty name fails",
			modify:    func(s *Sprint) { s.Name = "" },
			wantErr:   true,
			wantField: "name",
		},
		{
			name:      "whitespace-only goal fails",
			modify:    func(s *Sprint) { s.Goal = "  \t" },
			wantErr:   true,
			wantField: "goal",
		},
		{
			name:      "invalid status fails",
			modify:    func(s *Sprint) { s.Status = "FINISHED" },
			wantErr:   true,
			wantField: "status",
		},
		{
			name:      "zero start date fails",
			modify:    func(s *Sprint) { s.StartDate = time.Time{} },
			wantErr:   true,
			wantField: "start_date",
		},
		{
			name:      "zero end date fails",
			modify:    func(s *Sprint) { s.EndDate = time.Time{} },
			wantErr:   true,
			wantField: "end_date",
		},
		{
			name:      "end equal to start fails",
			modify:    func(s *Sprint) { s.EndDate = s.StartDate },
			wantErr:   true,
			wantField: "end_date",
		},
		{
			name:      "end before start fails",
			modify:    func(s *Sprint) { s.EndDate = s.StartDate.AddDate(0, 0, -1) },
			wantErr:   true,
			wantField: "end_date",
		},
		{
			name:    "one-day sprint passes",
			modify:  func(s *Sprint) { s.EndDate = s.StartDate.AddDate(0, 0, 1) },
			wantErr: false,
		},
		{
			name:      "negative velocity fails",
			modify:    func(s *Sprint) { s.Velocity = intPtr(-3) },
			wantErr:   true,
			wantField: "velocity",
		},
		{
			name:    "zero velocity passes",
			modify:  func(s *Sprint) { s.Velocity = intPtr(0) },
			wantErr: false,
		},
		{
			name:    "nil velocity passes",
			modify:  func(s *Sprint) { s.Velocity = nil },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := validSprint()
			tt.modify(&s)
			err := s.Validate()

			if tt.wantErr {
				requireValidationField(t, err, tt.wantField)
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
