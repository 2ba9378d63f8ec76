// Package sqlstore implements the persistence ports on a relational
// database. It supports PostgreSQL for deployments and SQLite for local
// development and tests; the schema and queries are written once and
// rebound per driver.
package sqlstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/liskovpm/scrum-service/internal/ports"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config holds the database connection settings.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store provides access to all entity stores backed by one database.
type Store struct {
	db     *sqlx.DB
	driver string
	logger *slog.Logger
}

// Compile-time checks that Store implements every persistence port.
var (
	_ ports.UserStore    = (*Store)(nil)
	_ ports.ProjectStore = (*Store)(nil)
	_ ports.SprintStore  = (*Store)(nil)
	_ ports.StoryStore   = (*Store)(nil)
	_ ports.TaskStore    = (*Store)(nil)
	_ ports.CommentStore = (*Store)(nil)
	_ ports.ResetStore   = (*Store)(nil)

	_ ports.HealthChecker = (*Store)(nil)
)

// Open connects to the database, configures the pool, verifies
// connectivity, and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", translate(err))
	}

	s := &Store{db: db, driver: cfg.Driver, logger: logger}

	if cfg.Driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "database ready", slog.String("driver", cfg.Driver))
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable. The health endpoint
// uses it as the readiness probe for the storage dependency.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return translate(err)
	}
	return nil
}

// Name identifies the store in health check results.
func (s *Store) Name() string {
	return "database"
}

// HealthCheck implements ports.HealthChecker on top of Ping.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements(s.driver) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// rebind converts ?-style placeholders to the driver's native form.
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

// now returns the timestamp written to created_at and updated_at
// columns. Timestamps are set in the application so both dialects
// round-trip identical values.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// insertReturningID runs an INSERT and returns the generated key.
// Postgres has no LastInsertId, so the query gains a RETURNING clause
// there; SQLite reads the rowid from the result.
func (s *Store) insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	if s.driver == DriverPostgres {
		var id int64
		if err := q.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// inTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", translate(err))
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", translate(err))
	}
	return nil
}
