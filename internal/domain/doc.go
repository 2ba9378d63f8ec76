// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/project, domain/sprint,
// domain/story, domain/task, domain/comment, domain/user). This root package
// holds the sentinel errors and the field-level validation error type shared
// across all entities.
package domain
