// Package story defines the UserStory entity and its listing filter.
// A story belongs to exactly one project; a nil SprintID places it on the
// product backlog.
package story

import (
	"fmt"
	"strings"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/comment"
	"github.com/liskovpm/scrum-service/internal/domain/task"
)

// Story point bounds (relative-size estimate).
const (
	MinStoryPoints = 1
	MaxStoryPoints = 100
)

// Story represents a user story. AssignedToID, when set, must reference a
// current team member of the owning project; that rule needs store state
// and is enforced by the application layer at assignment time.
type Story struct {
	ID                 int64
	ProjectID          int64
	SprintID           *int64
	Title              string
	Description        string
	AcceptanceCriteria string
	StoryPoints        *int
	Priority           Priority
	Status             Status
	AssignedToID       *int64
	CreatedByID        int64
	Tasks              []task.Task       // populated on detail reads
	Comments           []comment.Comment // populated on detail reads
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate checks business rules for the Story entity.
// Returns a *domain.ValidationError with per-field details, or nil.
func (st *Story) Validate() error {
	fields := make(map[string]string)

	if st.ProjectID <= 0 {
		fields["project_id"] = domain.MsgRequired
	}
	if strings.TrimSpace(st.Title) == "" {
		fields["title"] = domain.MsgRequired
	}
	if strings.TrimSpace(st.Description) == "" {
		fields["description"] = domain.MsgRequired
	}
	if strings.TrimSpace(st.AcceptanceCriteria) == "" {
		fields["acceptance_criteria"] = domain.MsgRequired
	}
	if st.StoryPoints != nil && (*st.StoryPoints < MinStoryPoints || *st.StoryPoints > MaxStoryPoints) {
		fields["story_points"] = fmt.Sprintf("must be %d-%d, got %d", MinStoryPoints, MaxStoryPoints, *st.StoryPoints)
	}
	if !st.Priority.IsValid() {
		fields["priority"] = fmt.Sprintf("invalid: %q", st.Priority)
	}
	if !st.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", st.Status)
	}
	if st.CreatedByID <= 0 {
		fields["created_by"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// OnBacklog returns true when the story has no sprint assigned.
func (st *Story) OnBacklog() bool {
	return st.SprintID == nil
}
