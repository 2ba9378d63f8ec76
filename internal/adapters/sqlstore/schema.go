package sqlstore

import "strings"

// schemaStatements returns the DDL for the given driver. The two
// dialects differ only in the key and timestamp column types, so the
// shared definition is templated on those.
func schemaStatements(driver string) []string {
	pk := "BIGSERIAL PRIMARY KEY"
	ts := "TIMESTAMPTZ"
	if driver == DriverSQLite {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
		ts = "TIMESTAMP"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id {PK},
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			created_at {TS} NOT NULL,
			updated_at {TS} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id {PK},
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			start_date {TS} NOT NULL,
			end_date {TS},
			product_owner_id BIGINT NOT NULL REFERENCES users(id),
			scrum_master_id BIGINT NOT NULL REFERENCES users(id),
			created_at {TS} NOT NULL,
			updated_at {TS} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS project_members (
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (project_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sprints (
			id {PK},
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			name TEXT NOT NULL,
			goal TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			start_date {TS} NOT NULL,
			end_date {TS} NOT NULL,
			velocity INTEGER,
			created_at {TS} NOT NULL,
			updated_at {TS} NOT NULL,
			UNIQUE (project_id, number)
		)`,
		`CREATE TABLE IF NOT EXISTS stories (
			id {PK},
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			sprint_id BIGINT REFERENCES sprints(id) ON DELETE SET NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			acceptance_criteria TEXT NOT NULL DEFAULT '',
			story_points INTEGER,
			priority TEXT NOT NULL,
			status TEXT NOT NULL,
			assigned_to_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			created_by_id BIGINT NOT NULL REFERENCES users(id),
			created_at {TS} NOT NULL,
			updated_at {TS} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id {PK},
			story_id BIGINT NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			estimated_hours DOUBLE PRECISION,
			actual_hours DOUBLE PRECISION,
			assigned_to_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			created_at {TS} NOT NULL,
			updated_at {TS} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id {PK},
			story_id BIGINT NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
			author_id BIGINT NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			created_at {TS} NOT NULL,
			updated_at {TS} NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stories_project ON stories(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stories_sprint ON stories(sprint_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stories_assignee ON stories(assigned_to_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_story ON tasks(story_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assigned_to_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_story ON comments(story_id)`,
	}

	out := make([]string, len(stmts))
	r := strings.NewReplacer("{PK}", pk, "{TS}", ts)
	for i, stmt := range stmts {
		out[i] = r.Replace(stmt)
	}
	return out
}
