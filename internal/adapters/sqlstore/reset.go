package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Reset deletes all rows in dependency order. It backs the admin reset
// endpoint, which the seed CLI calls for its clean slate mode.
func (s *Store) Reset(ctx context.Context) error {
	tables := []string{
		"comments",
		"tasks",
		"stories",
		"sprints",
		"project_members",
		"projects",
		"users",
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, translate(err))
			}
		}
		return nil
	})
}
