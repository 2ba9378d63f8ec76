package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain/story"
)

type storyRow struct {
	ID                 int64     `db:"id"`
	ProjectID          int64     `db:"project_id"`
	SprintID           *int64    `db:"sprint_id"`
	Title              string    `db:"title"`
	Description        string    `db:"description"`
	AcceptanceCriteria string    `db:"acceptance_criteria"`
	StoryPoints        *int      `db:"story_points"`
	Priority           string    `db:"priority"`
	Status             string    `db:"status"`
	AssignedToID       *int64    `db:"assigned_to_id"`
	CreatedByID        int64     `db:"created_by_id"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r storyRow) toDomain() story.Story {
	return story.Story{
		ID:                 r.ID,
		ProjectID:          r.ProjectID,
		SprintID:           r.SprintID,
		Title:              r.Title,
		Description:        r.Description,
		AcceptanceCriteria: r.AcceptanceCriteria,
		StoryPoints:        r.StoryPoints,
		Priority:           story.Priority(r.Priority),
		Status:             story.Status(r.Status),
		AssignedToID:       r.AssignedToID,
		CreatedByID:        r.CreatedByID,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

const storyColumns = `id, project_id, sprint_id, title, description, acceptance_criteria,
	story_points, priority, status, assigned_to_id, created_by_id, created_at, updated_at`

// storyOrder sorts critical work first, then the most recent stories.
const storyOrder = `ORDER BY CASE priority
		WHEN 'CRITICAL' THEN 4
		WHEN 'HIGH' THEN 3
		WHEN 'MEDIUM' THEN 2
		WHEN 'LOW' THEN 1
		ELSE 0
	END DESC, created_at DESC, id DESC`

// storyPredicates builds WHERE clauses for the filter's set fields.
func storyPredicates(filter story.Filter) (string, []any) {
	var clauses []string
	var args []any

	if filter.ProjectID != nil {
		clauses = append(clauses, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.SprintID != nil {
		clauses = append(clauses, "sprint_id = ?")
		args = append(args, *filter.SprintID)
	}
	if filter.AssigneeID != nil {
		clauses = append(clauses, "assigned_to_id = ?")
		args = append(args, *filter.AssigneeID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status.String())
	}
	if filter.Priority != "" {
		clauses = append(clauses, "priority = ?")
		args = append(args, filter.Priority.String())
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) ListStories(ctx context.Context, filter story.Filter) ([]story.Story, error) {
	where, args := storyPredicates(filter)
	query := s.rebind(`SELECT ` + storyColumns + ` FROM stories` + where + ` ` + storyOrder)

	var rows []storyRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing stories: %w", translate(err))
	}

	stories := make([]story.Story, len(rows))
	for i, r := range rows {
		stories[i] = r.toDomain()
	}
	return stories, nil
}

func (s *Store) GetStory(ctx context.Context, id int64) (*story.Story, error) {
	var r storyRow
	query := s.rebind(`SELECT ` + storyColumns + ` FROM stories WHERE id = ?`)
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("story", id)
		}
		return nil, fmt.Errorf("getting story: %w", translate(err))
	}

	st := r.toDomain()
	return &st, nil
}

func (s *Store) GetStoryDetail(ctx context.Context, id int64) (*story.Story, error) {
	st, err := s.GetStory(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.ListTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}

	st.Tasks = tasks
	st.Comments = comments
	return st, nil
}

func (s *Store) CreateStory(ctx context.Context, st *story.Story) (*story.Story, error) {
	ts := now()
	query := s.rebind(`INSERT INTO stories
		(project_id, sprint_id, title, description, acceptance_criteria, story_points,
			priority, status, assigned_to_id, created_by_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	id, err := s.insertReturningID(ctx, s.db, query,
		st.ProjectID, st.SprintID, st.Title, st.Description, st.AcceptanceCriteria,
		st.StoryPoints, st.Priority.String(), st.Status.String(),
		st.AssignedToID, st.CreatedByID, ts, ts)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, badReference("project_id")
		}
		return nil, fmt.Errorf("inserting story: %w", translate(err))
	}

	return s.GetStory(ctx, id)
}

func (s *Store) UpdateStory(ctx context.Context, id int64, st *story.Story) (*story.Story, error) {
	query := s.rebind(`UPDATE stories
		SET sprint_id = ?, title = ?, description = ?, acceptance_criteria = ?,
			story_points = ?, priority = ?, status = ?, assigned_to_id = ?, updated_at = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		st.SprintID, st.Title, st.Description, st.AcceptanceCriteria,
		st.StoryPoints, st.Priority.String(), st.Status.String(),
		st.AssignedToID, now(), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, badReference("sprint_id")
		}
		return nil, fmt.Errorf("updating story: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, notFound("story", id)
	}

	return s.GetStory(ctx, id)
}

func (s *Store) DeleteStory(ctx context.Context, id int64) error {
	// Tasks and comments cascade through their foreign keys.
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM stories WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting story: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return notFound("story", id)
	}
	return nil
}

func (s *Store) ListAssignedStories(ctx context.Context, userID int64, limit int) ([]story.Story, error) {
	var rows []storyRow
	query := s.rebind(`SELECT ` + storyColumns + ` FROM stories
		WHERE assigned_to_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("listing assigned stories: %w", translate(err))
	}

	stories := make([]story.Story, len(rows))
	for i, r := range rows {
		stories[i] = r.toDomain()
	}
	return stories, nil
}

func (s *Store) CountStories(ctx context.Context, projectID int64, filter story.Filter) (int, error) {
	filter.ProjectID = &projectID
	where, args := storyPredicates(filter)
	query := s.rebind(`SELECT COUNT(*) FROM stories` + where)

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting stories: %w", translate(err))
	}
	return count, nil
}
