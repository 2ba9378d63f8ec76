// Package user holds the identity surface the core consumes: a unique
// handle plus display fields. Authentication, credentials, and session
// state live outside the service.
package user

import (
	"strings"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain"
)

// User identifies an actor by a unique username handle.
type User struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks business rules for the User entity.
// Returns a *domain.ValidationError with per-field details, or nil.
func (u *User) Validate() error {
	fields := make(map[string]string)

	handle := strings.TrimSpace(u.Username)
	if handle == "" {
		fields["username"] = domain.MsgRequired
	} else if strings.ContainsAny(handle, " \t\n") {
		fields["username"] = "must not contain whitespace"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// FullName returns "First Last", falling back to the username handle when
// both name fields are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
