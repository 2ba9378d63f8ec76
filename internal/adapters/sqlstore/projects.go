package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/liskovpm/scrum-service/internal/domain/project"
	"github.com/liskovpm/scrum-service/internal/domain/story"
)

type projectRow struct {
	ID             int64      `db:"id"`
	Name           string     `db:"name"`
	Description    string     `db:"description"`
	Status         string     `db:"status"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        *time.Time `db:"end_date"`
	ProductOwnerID int64      `db:"product_owner_id"`
	ScrumMasterID  int64      `db:"scrum_master_id"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (r projectRow) toDomain() project.Project {
	return project.Project{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Status:         project.Status(r.Status),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		ProductOwnerID: r.ProductOwnerID,
		ScrumMasterID:  r.ScrumMasterID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

const projectColumns = `id, name, description, status, start_date, end_date,
	product_owner_id, scrum_master_id, created_at, updated_at`

func (s *Store) ListProjects(ctx context.Context) ([]project.Project, error) {
	var rows []projectRow
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("listing projects: %w", translate(err))
	}
	return s.attachMembers(ctx, rows)
}

func (s *Store) ListVisibleProjects(ctx context.Context, userID int64) ([]project.Project, error) {
	var rows []projectRow
	query := s.rebind(`SELECT ` + projectColumns + ` FROM projects
		WHERE product_owner_id = ? OR scrum_master_id = ?
			OR id IN (SELECT project_id FROM project_members WHERE user_id = ?)
		ORDER BY created_at DESC, id DESC`)
	if err := s.db.SelectContext(ctx, &rows, query, userID, userID, userID); err != nil {
		return nil, fmt.Errorf("listing visible projects: %w", translate(err))
	}
	return s.attachMembers(ctx, rows)
}

func (s *Store) GetProject(ctx context.Context, id int64) (*project.Project, error) {
	var r projectRow
	query := s.rebind(`SELECT ` + projectColumns + ` FROM projects WHERE id = ?`)
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("project", id)
		}
		return nil, fmt.Errorf("getting project: %w", translate(err))
	}

	p := r.toDomain()
	members, err := s.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	p.TeamMemberIDs = members
	return &p, nil
}

func (s *Store) GetProjectDetail(ctx context.Context, id int64) (*project.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	sprints, err := s.ListSprints(ctx, id)
	if err != nil {
		return nil, err
	}
	stories, err := s.ListStories(ctx, story.Filter{ProjectID: &id})
	if err != nil {
		return nil, err
	}

	p.Sprints = sprints
	p.Stories = stories
	return p, nil
}

func (s *Store) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	var id int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		ts := now()
		query := s.rebind(`INSERT INTO projects
			(name, description, status, start_date, end_date, product_owner_id, scrum_master_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

		var err error
		id, err = s.insertReturningID(ctx, tx, query,
			p.Name, p.Description, p.Status.String(), p.StartDate, p.EndDate,
			p.ProductOwnerID, p.ScrumMasterID, ts, ts)
		if err != nil {
			if isUniqueViolation(err) {
				return fieldTaken("name")
			}
			if isForeignKeyViolation(err) {
				return badReference("product_owner_id")
			}
			return fmt.Errorf("inserting project: %w", translate(err))
		}

		return s.replaceMembers(ctx, tx, id, p.TeamMemberIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProject(ctx, id)
}

func (s *Store) UpdateProject(ctx context.Context, id int64, p *project.Project) (*project.Project, error) {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		query := s.rebind(`UPDATE projects
			SET name = ?, description = ?, status = ?, start_date = ?, end_date = ?,
				product_owner_id = ?, scrum_master_id = ?, updated_at = ?
			WHERE id = ?`)

		res, err := tx.ExecContext(ctx, query,
			p.Name, p.Description, p.Status.String(), p.StartDate, p.EndDate,
			p.ProductOwnerID, p.ScrumMasterID, now(), id)
		if err != nil {
			if isUniqueViolation(err) {
				return fieldTaken("name")
			}
			if isForeignKeyViolation(err) {
				return badReference("product_owner_id")
			}
			return fmt.Errorf("updating project: %w", translate(err))
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return notFound("project", id)
		}

		return s.replaceMembers(ctx, tx, id, p.TeamMemberIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProject(ctx, id)
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	// Child rows cascade through the schema's foreign keys.
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return notFound("project", id)
	}
	return nil
}

func (s *Store) memberIDs(ctx context.Context, projectID int64) ([]int64, error) {
	var ids []int64
	query := s.rebind(`SELECT user_id FROM project_members WHERE project_id = ? ORDER BY user_id`)
	if err := s.db.SelectContext(ctx, &ids, query, projectID); err != nil {
		return nil, fmt.Errorf("listing team members: %w", translate(err))
	}
	return ids, nil
}

func (s *Store) replaceMembers(ctx context.Context, tx *sqlx.Tx, projectID int64, memberIDs []int64) error {
	if _, err := tx.ExecContext(ctx,
		s.rebind(`DELETE FROM project_members WHERE project_id = ?`), projectID); err != nil {
		return fmt.Errorf("clearing team members: %w", translate(err))
	}

	insert := s.rebind(`INSERT INTO project_members (project_id, user_id) VALUES (?, ?)`)
	for _, userID := range memberIDs {
		if _, err := tx.ExecContext(ctx, insert, projectID, userID); err != nil {
			if isForeignKeyViolation(err) {
				return badReference("team_member_ids")
			}
			return fmt.Errorf("adding team member: %w", translate(err))
		}
	}
	return nil
}

// attachMembers populates TeamMemberIDs for a page of project rows in
// one query.
func (s *Store) attachMembers(ctx context.Context, rows []projectRow) ([]project.Project, error) {
	projects := make([]project.Project, len(rows))
	index := make(map[int64]int, len(rows))
	ids := make([]int64, len(rows))
	for i, r := range rows {
		projects[i] = r.toDomain()
		index[r.ID] = i
		ids[i] = r.ID
	}
	if len(ids) == 0 {
		return projects, nil
	}

	query, args, err := sqlx.In(
		`SELECT project_id, user_id FROM project_members WHERE project_id IN (?) ORDER BY user_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("building membership query: %w", err)
	}

	var memberRows []struct {
		ProjectID int64 `db:"project_id"`
		UserID    int64 `db:"user_id"`
	}
	if err := s.db.SelectContext(ctx, &memberRows, s.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing team members: %w", translate(err))
	}

	for _, m := range memberRows {
		i := index[m.ProjectID]
		projects[i].TeamMemberIDs = append(projects[i].TeamMemberIDs, m.UserID)
	}
	return projects, nil
}
