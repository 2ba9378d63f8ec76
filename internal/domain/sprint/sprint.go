// Package sprint defines the Sprint entity: a fixed time-boxed iteration
// within a project, numbered uniquely per project.
package sprint

import (
	"fmt"
	"strings"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
)

// Sprint represents one iteration of a project. Number is a positive
// integer unique within the owning project; uniqueness is enforced by the
// store at write time. Velocity is an explicit input recorded once the
// sprint is completed, never derived from story points.
type Sprint struct {
	ID        int64
	ProjectID int64
	Number    int
	Name      string
	Goal      string
	Status    Status
	StartDate time.Time
	EndDate   time.Time
	Velocity  *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks business rules for the Sprint entity.
// Returns a *domain.ValidationError with per-field details, or nil.
// Per-project number uniqueness requires store state and is checked there.
func (s *Sprint) Validate() error {
	fields := make(map[string]string)

	if s.ProjectID <= 0 {
		fields["project_id"] = domain.MsgRequired
	}
	if s.Number < 1 {
		fields["number"] = fmt.Sprintf("must be >= 1, got %d", s.Number)
	}
	if strings.TrimSpace(s.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if strings.TrimSpace(s.Goal) == "" {
		fields["goal"] = domain.MsgRequired
	}
	if !s.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", s.Status)
	}
	if s.StartDate.IsZero() {
		fields["start_date"] = domain.MsgRequired
	}
	if s.EndDate.IsZero() {
		fields["end_date"] = domain.MsgRequired
	} else if !s.StartDate.IsZero() && !s.EndDate.After(s.StartDate) {
		fields["end_date"] = "must be after start date"
	}
	if s.Velocity != nil && *s.Velocity < 0 {
		fields["velocity"] = fmt.Sprintf("must be >= 0, got %d", *s.Velocity)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
