package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/liskovpm/scrum-service/internal/domain/comment"
)

type commentRow struct {
	ID        int64     `db:"id"`
	StoryID   int64     `db:"story_id"`
	AuthorID  int64     `db:"author_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r commentRow) toDomain() comment.Comment {
	return comment.Comment{
		ID:        r.ID,
		StoryID:   r.StoryID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const commentColumns = `id, story_id, author_id, content, created_at, updated_at`

func (s *Store) ListComments(ctx context.Context, storyID int64) ([]comment.Comment, error) {
	var rows []commentRow
	query := s.rebind(`SELECT ` + commentColumns + ` FROM comments
		WHERE story_id = ? ORDER BY created_at DESC, id DESC`)
	if err := s.db.SelectContext(ctx, &rows, query, storyID); err != nil {
		return nil, fmt.Errorf("listing comments: %w", translate(err))
	}

	comments := make([]comment.Comment, len(rows))
	for i, r := range rows {
		comments[i] = r.toDomain()
	}
	return comments, nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*comment.Comment, error) {
	var r commentRow
	query := s.rebind(`SELECT ` + commentColumns + ` FROM comments WHERE id = ?`)
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("comment", id)
		}
		return nil, fmt.Errorf("getting comment: %w", translate(err))
	}

	c := r.toDomain()
	return &c, nil
}

func (s *Store) CreateComment(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	ts := now()
	query := s.rebind(`INSERT INTO comments (story_id, author_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`)

	id, err := s.insertReturningID(ctx, s.db, query, c.StoryID, c.AuthorID, c.Content, ts, ts)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, badReference("story_id")
		}
		return nil, fmt.Errorf("inserting comment: %w", translate(err))
	}

	return s.GetComment(ctx, id)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return notFound("comment", id)
	}
	return nil
}
