package task

// Status represents the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to the given status is a
// legal task transition: TODO → IN_PROGRESS → DONE, with reopening
// (DONE → IN_PROGRESS) permitted. A same-state "transition" is treated as
// a no-op and allowed.
func (s Status) CanTransitionTo(to Status) bool {
	if s == to {
		return true
	}
	switch s {
	case StatusTodo:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusDone
	case StatusDone:
		return to == StatusInProgress
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
