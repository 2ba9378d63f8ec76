package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/user"
)

type userRow struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const userColumns = `id, username, email, first_name, last_name, created_at, updated_at`

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("listing users: %w", translate(err))
	}

	users := make([]user.User, len(rows))
	for i, r := range rows {
		users[i] = r.toDomain()
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*user.User, error) {
	var r userRow
	query := s.rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user", id)
		}
		return nil, fmt.Errorf("getting user: %w", translate(err))
	}

	u := r.toDomain()
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	var r userRow
	query := s.rebind(`SELECT ` + userColumns + ` FROM users WHERE username = ?`)
	if err := s.db.GetContext(ctx, &r, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting user: %w", translate(err))
	}

	u := r.toDomain()
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) (*user.User, error) {
	ts := now()
	query := s.rebind(`INSERT INTO users (username, email, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	id, err := s.insertReturningID(ctx, s.db, query,
		u.Username, u.Email, u.FirstName, u.LastName, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fieldTaken("username")
		}
		return nil, fmt.Errorf("inserting user: %w", translate(err))
	}

	return s.GetUser(ctx, id)
}

func (s *Store) UpdateUser(ctx context.Context, id int64, u *user.User) (*user.User, error) {
	query := s.rebind(`UPDATE users
		SET username = ?, email = ?, first_name = ?, last_name = ?, updated_at = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		u.Username, u.Email, u.FirstName, u.LastName, now(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fieldTaken("username")
		}
		return nil, fmt.Errorf("updating user: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, notFound("user", id)
	}

	return s.GetUser(ctx, id)
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	var owns bool
	query := s.rebind(`SELECT EXISTS (
		SELECT 1 FROM projects WHERE product_owner_id = ? OR scrum_master_id = ?)`)
	if err := s.db.GetContext(ctx, &owns, query, id, id); err != nil {
		return fmt.Errorf("checking project roles: %w", translate(err))
	}
	if owns {
		return fmt.Errorf("user %d is a project owner or scrum master: %w", id, domain.ErrReferential)
	}

	var created bool
	query = s.rebind(`SELECT EXISTS (SELECT 1 FROM stories WHERE created_by_id = ?)`)
	if err := s.db.GetContext(ctx, &created, query, id); err != nil {
		return fmt.Errorf("checking authored stories: %w", translate(err))
	}
	if created {
		return fmt.Errorf("user %d created stories: %w", id, domain.ErrReferential)
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		ts := now()
		steps := []struct {
			query string
			args  []any
		}{
			{`UPDATE stories SET assigned_to_id = NULL, updated_at = ? WHERE assigned_to_id = ?`, []any{ts, id}},
			{`UPDATE tasks SET assigned_to_id = NULL, updated_at = ? WHERE assigned_to_id = ?`, []any{ts, id}},
			{`DELETE FROM project_members WHERE user_id = ?`, []any{id}},
			{`DELETE FROM comments WHERE author_id = ?`, []any{id}},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, s.rebind(step.query), step.args...); err != nil {
				return fmt.Errorf("detaching user: %w", translate(err))
			}
		}

		res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM users WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("deleting user: %w", translate(err))
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return notFound("user", id)
		}
		return nil
	})
}
