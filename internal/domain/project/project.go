// Package project defines the Project root aggregate. Sprints, stories,
// tasks, and comments are owned transitively by their project and share its
// deletion cascade, except that deleting a sprint detaches its stories back
// to the product backlog instead of deleting them.
package project

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/sprint"
	"github.com/liskovpm/scrum-service/internal/domain/story"
)

// Project represents a Scrum project. ProductOwnerID and ScrumMasterID are
// protected references: the referenced users cannot be deleted while the
// project exists. TeamMemberIDs is the population eligible for story and
// task assignment.
type Project struct {
	ID             int64
	Name           string
	Description    string
	Status         Status
	StartDate      time.Time
	EndDate        *time.Time
	ProductOwnerID int64
	ScrumMasterID  int64
	TeamMemberIDs  []int64
	Sprints        []sprint.Sprint // populated on detail reads
	Stories        []story.Story   // populated on detail reads
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks business rules for the Project entity.
// Returns a *domain.ValidationError with per-field details, or nil.
// Name uniqueness requires store state and is checked there.
func (p *Project) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if strings.TrimSpace(p.Description) == "" {
		fields["description"] = domain.MsgRequired
	}
	if !p.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", p.Status)
	}
	if p.StartDate.IsZero() {
		fields["start_date"] = domain.MsgRequired
	}
	if p.EndDate != nil && !p.StartDate.IsZero() && p.EndDate.Before(p.StartDate) {
		fields["end_date"] = "must not be before start date"
	}
	if p.ProductOwnerID <= 0 {
		fields["product_owner"] = domain.MsgRequired
	}
	if p.ScrumMasterID <= 0 {
		fields["scrum_master"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// HasMember reports whether the given user is on the project team.
// The product owner and scrum master are not implicitly members.
func (p *Project) HasMember(userID int64) bool {
	return slices.Contains(p.TeamMemberIDs, userID)
}

// CanView reports whether the given user may see the project: any of team
// member, product owner, or scrum master.
func (p *Project) CanView(userID int64) bool {
	return p.ProductOwnerID == userID || p.ScrumMasterID == userID || p.HasMember(userID)
}

// CanEdit reports whether the given user may modify the project: the
// product owner or the scrum master.
func (p *Project) CanEdit(userID int64) bool {
	return p.ProductOwnerID == userID || p.ScrumMasterID == userID
}
