package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain/task"
)

type taskRow struct {
	ID             int64     `db:"id"`
	StoryID        int64     `db:"story_id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Status         string    `db:"status"`
	EstimatedHours *float64  `db:"estimated_hours"`
	ActualHours    *float64  `db:"actual_hours"`
	AssignedToID   *int64    `db:"assigned_to_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r taskRow) toDomain() task.Task {
	return task.Task{
		ID:             r.ID,
		StoryID:        r.StoryID,
		Title:          r.Title,
		Description:    r.Description,
		Status:         task.Status(r.Status),
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		AssignedToID:   r.AssignedToID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

const taskColumns = `id, story_id, title, description, status,
	estimated_hours, actual_hours, assigned_to_id, created_at, updated_at`

func (s *Store) ListTasks(ctx context.Context, storyID int64) ([]task.Task, error) {
	var rows []taskRow
	query := s.rebind(`SELECT ` + taskColumns + ` FROM tasks
		WHERE story_id = ? ORDER BY status, created_at DESC, id DESC`)
	if err := s.db.SelectContext(ctx, &rows, query, storyID); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", translate(err))
	}

	tasks := make([]task.Task, len(rows))
	for i, r := range rows {
		tasks[i] = r.toDomain()
	}
	return tasks, nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	var r taskRow
	query := s.rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("task", id)
		}
		return nil, fmt.Errorf("getting task: %w", translate(err))
	}

	t := r.toDomain()
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, t *task.Task) (*task.Task, error) {
	ts := now()
	query := s.rebind(`INSERT INTO tasks
		(story_id, title, description, status, estimated_hours, actual_hours, assigned_to_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	id, err := s.insertReturningID(ctx, s.db, query,
		t.StoryID, t.Title, t.Description, t.Status.String(),
		t.EstimatedHours, t.ActualHours, t.AssignedToID, ts, ts)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, badReference("story_id")
		}
		return nil, fmt.Errorf("inserting task: %w", translate(err))
	}

	return s.GetTask(ctx, id)
}

func (s *Store) UpdateTask(ctx context.Context, id int64, t *task.Task) (*task.Task, error) {
	query := s.rebind(`UPDATE tasks
		SET title = ?, description = ?, status = ?, estimated_hours = ?, actual_hours = ?,
			assigned_to_id = ?, updated_at = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Status.String(),
		t.EstimatedHours, t.ActualHours, t.AssignedToID, now(), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, badReference("assigned_to_id")
		}
		return nil, fmt.Errorf("updating task: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, notFound("task", id)
	}

	return s.GetTask(ctx, id)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return notFound("task", id)
	}
	return nil
}

func (s *Store) ListAssignedTasks(ctx context.Context, userID int64, limit int) ([]task.Task, error) {
	var rows []taskRow
	query := s.rebind(`SELECT ` + taskColumns + ` FROM tasks
		WHERE assigned_to_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("listing assigned tasks: %w", translate(err))
	}

	tasks := make([]task.Task, len(rows))
	for i, r := range rows {
		tasks[i] = r.toDomain()
	}
	return tasks, nil
}
