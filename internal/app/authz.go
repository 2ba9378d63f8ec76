package app

import (
	"fmt"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/project"
)

// Authorization rules, checked against the owning project:
//   - view: team member, product owner, or scrum master
//   - edit: product owner or scrum master
//
// Project and sprint mutations require edit; story, task, and comment
// mutations require view (any project participant).

func requireView(p *project.Project, actorID int64) error {
	if !p.CanView(actorID) {
		return fmt.Errorf("user %d cannot view project %d: %w", actorID, p.ID, domain.ErrForbidden)
	}
	return nil
}

func requireEdit(p *project.Project, actorID int64) error {
	if !p.CanEdit(actorID) {
		return fmt.Errorf("user %d cannot edit project %d: %w", actorID, p.ID, domain.ErrForbidden)
	}
	return nil
}
