package app

import (
	"context"
	"log/slog"

	"github.com/liskovpm/scrum-service/internal/domain/user"
	"github.com/liskovpm/scrum-service/internal/ports"
)

// Compile-time check that UserService implements ports.UserService.
var _ ports.UserService = (*UserService)(nil)

// UserService implements ports.UserService. The protect rule for deletion
// (no delete while referenced as product owner, scrum master, or story
// creator) lives in the store where it can be checked atomically with the
// delete.
type UserService struct {
	users  ports.UserStore
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users ports.UserStore, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// ListUsers returns all users ordered by username.
func (s *UserService) ListUsers(ctx context.Context) ([]user.User, error) {
	s.logger.InfoContext(ctx, "listing users")

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users",
			slog.String("operation", "ListUsers"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return users, nil
}

// GetUser returns a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id int64) (*user.User, error) {
	s.logger.InfoContext(ctx, "fetching user", slog.Int64("id", id))

	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch user",
			slog.String("operation", "GetUser"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return u, nil
}

// CreateUser validates and creates a new user.
func (s *UserService) CreateUser(ctx context.Context, u *user.User) (*user.User, error) {
	s.logger.InfoContext(ctx, "creating user", slog.String("username", u.Username))

	if err := u.Validate(); err != nil {
		return nil, err
	}

	created, err := s.users.CreateUser(ctx, u)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create user",
			slog.String("operation", "CreateUser"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// UpdateUser validates and updates a user's profile fields.
func (s *UserService) UpdateUser(ctx context.Context, id int64, u *user.User) (*user.User, error) {
	s.logger.InfoContext(ctx, "updating user", slog.Int64("id", id))

	if err := u.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateUser(ctx, id, u)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update user",
			slog.String("operation", "UpdateUser"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteUser deletes a user unless a protect rule still references them.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	s.logger.InfoContext(ctx, "deleting user", slog.Int64("id", id))

	if err := s.users.DeleteUser(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete user",
			slog.String("operation", "DeleteUser"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
