package story

// Filter holds optional filter criteria for listing stories. Zero-value
// fields mean "no restriction" for that dimension; populated fields are
// exact matches combined with AND.
type Filter struct {
	Status     Status
	Priority   Priority
	AssigneeID *int64
	ProjectID  *int64
	SprintID   *int64
}
