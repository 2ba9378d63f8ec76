package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/domain/sprint"
)

type sprintRow struct {
	ID        int64     `db:"id"`
	ProjectID int64     `db:"project_id"`
	Number    int       `db:"number"`
	Name      string    `db:"name"`
	Goal      string    `db:"goal"`
	Status    string    `db:"status"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Velocity  *int      `db:"velocity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r sprintRow) toDomain() sprint.Sprint {
	return sprint.Sprint{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Number:    r.Number,
		Name:      r.Name,
		Goal:      r.Goal,
		Status:    sprint.Status(r.Status),
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Velocity:  r.Velocity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const sprintColumns = `id, project_id, number, name, goal, status,
	start_date, end_date, velocity, created_at, updated_at`

func sprintNumberTaken(number int) error {
	return &domain.ValidationError{Fields: map[string]string{
		"number": fmt.Sprintf("sprint %d already exists in project", number),
	}}
}

func (s *Store) ListSprints(ctx context.Context, projectID int64) ([]sprint.Sprint, error) {
	var rows []sprintRow
	query := s.rebind(`SELECT ` + sprintColumns + ` FROM sprints
		WHERE project_id = ? ORDER BY number DESC`)
	if err := s.db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("listing sprints: %w", translate(err))
	}

	sprints := make([]sprint.Sprint, len(rows))
	for i, r := range rows {
		sprints[i] = r.toDomain()
	}
	return sprints, nil
}

func (s *Store) GetSprint(ctx context.Context, id int64) (*sprint.Sprint, error) {
	var r sprintRow
	query := s.rebind(`SELECT ` + sprintColumns + ` FROM sprints WHERE id = ?`)
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("sprint", id)
		}
		return nil, fmt.Errorf("getting sprint: %w", translate(err))
	}

	sp := r.toDomain()
	return &sp, nil
}

func (s *Store) CreateSprint(ctx context.Context, sp *sprint.Sprint) (*sprint.Sprint, error) {
	ts := now()
	query := s.rebind(`INSERT INTO sprints
		(project_id, number, name, goal, status, start_date, end_date, velocity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	id, err := s.insertReturningID(ctx, s.db, query,
		sp.ProjectID, sp.Number, sp.Name, sp.Goal, sp.Status.String(),
		sp.StartDate, sp.EndDate, sp.Velocity, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, sprintNumberTaken(sp.Number)
		}
		if isForeignKeyViolation(err) {
			return nil, badReference("project_id")
		}
		return nil, fmt.Errorf("inserting sprint: %w", translate(err))
	}

	return s.GetSprint(ctx, id)
}

func (s *Store) UpdateSprint(ctx context.Context, id int64, sp *sprint.Sprint) (*sprint.Sprint, error) {
	query := s.rebind(`UPDATE sprints
		SET number = ?, name = ?, goal = ?, status = ?, start_date = ?, end_date = ?, velocity = ?, updated_at = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		sp.Number, sp.Name, sp.Goal, sp.Status.String(),
		sp.StartDate, sp.EndDate, sp.Velocity, now(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, sprintNumberTaken(sp.Number)
		}
		return nil, fmt.Errorf("updating sprint: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, notFound("sprint", id)
	}

	return s.GetSprint(ctx, id)
}

func (s *Store) DeleteSprint(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		detach := s.rebind(`UPDATE stories SET sprint_id = NULL, updated_at = ? WHERE sprint_id = ?`)
		if _, err := tx.ExecContext(ctx, detach, now(), id); err != nil {
			return fmt.Errorf("detaching stories: %w", translate(err))
		}

		res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM sprints WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("deleting sprint: %w", translate(err))
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return notFound("sprint", id)
		}
		return nil
	})
}

func (s *Store) CountSprints(ctx context.Context, projectID int64) (int, error) {
	var count int
	query := s.rebind(`SELECT COUNT(*) FROM sprints WHERE project_id = ?`)
	if err := s.db.GetContext(ctx, &count, query, projectID); err != nil {
		return 0, fmt.Errorf("counting sprints: %w", translate(err))
	}
	return count, nil
}
