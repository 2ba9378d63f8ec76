package sqlstore

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/liskovpm/scrum-service/internal/domain"
)

// Postgres error classes and codes. See the PostgreSQL error code list.
const (
	pqClassConnection  = "08"
	pqCodeForeignKey   = "23503"
	pqCodeUniqueValue  = "23505"
	pqCodeCheckFailure = "23514"
)

// translate maps driver-level failures onto the domain error kinds the
// store ports promise. Constraint violations are handled closer to the
// query that can name the offending field; this covers the rest.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case errors.Is(err, driver.ErrBadConn):
		return fmt.Errorf("database connection lost: %w", domain.ErrUnavailable)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Class() == pqClassConnection {
			return fmt.Errorf("database unreachable: %w", domain.ErrUnavailable)
		}
		if string(pqErr.Code) == pqCodeCheckFailure {
			return fmt.Errorf("constraint %s: %w", pqErr.Constraint, domain.ErrValidation)
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrCantOpen {
		return fmt.Errorf("database unreachable: %w", domain.ErrUnavailable)
	}

	return err
}

// isUniqueViolation reports whether err is a unique constraint failure
// on either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqCodeUniqueValue
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// isForeignKeyViolation reports whether err is a foreign key failure on
// either driver.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqCodeForeignKey
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// notFound builds the standard missing-row error for an entity kind.
func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

// fieldTaken builds the validation error for a unique column collision.
func fieldTaken(field string) error {
	return &domain.ValidationError{Fields: map[string]string{field: "already taken"}}
}

// badReference builds the validation error for a foreign key pointing
// at a missing row.
func badReference(field string) error {
	return &domain.ValidationError{Fields: map[string]string{field: "references a missing record"}}
}
