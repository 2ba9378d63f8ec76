// Package comment defines the Comment entity attached to user stories.
package comment

import (
	"strings"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
)

// Comment is a note left by a user on a story. Comments are immutable
// except through the same validated update path as every other entity.
type Comment struct {
	ID        int64
	StoryID   int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks business rules for the Comment entity.
// Returns a *domain.ValidationError with per-field details, or nil.
func (c *Comment) Validate() error {
	fields := make(map[string]string)

	if c.StoryID <= 0 {
		fields["story_id"] = domain.MsgRequired
	}
	if c.AuthorID <= 0 {
		fields["author"] = domain.MsgRequired
	}
	if strings.TrimSpace(c.Content) == "" {
		fields["content"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
