// Package task defines the Task entity: a unit of work inside a user story.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
)

// Task represents a task within a user story. AssignedToID, when set, must
// reference a team member of the story's owning project, mirroring the
// story's own assignment constraint; the application layer enforces it.
type Task struct {
	ID             int64
	StoryID        int64
	Title          string
	Description    string
	Status         Status
	EstimatedHours *float64
	ActualHours    *float64
	AssignedToID   *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks business rules for the Task entity.
// Returns a *domain.ValidationError with per-field details, or nil.
// Description is optional.
func (t *Task) Validate() error {
	fields := make(map[string]string)

	if t.StoryID <= 0 {
		fields["story_id"] = domain.MsgRequired
	}
	if strings.TrimSpace(t.Title) == "" {
		fields["title"] = domain.MsgRequired
	}
	if !t.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", t.Status)
	}
	if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
		fields["estimated_hours"] = fmt.Sprintf("must be >= 0, got %g", *t.EstimatedHours)
	}
	if t.ActualHours != nil && *t.ActualHours < 0 {
		fields["actual_hours"] = fmt.Sprintf("must be >= 0, got %g", *t.ActualHours)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
