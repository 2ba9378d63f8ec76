package story

// Status represents the workflow state of a user story.
type Status string

const (
	StatusBacklog    Status = "BACKLOG"
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusInReview   Status = "IN_REVIEW"
	StatusDone       Status = "DONE"
	StatusBlocked    Status = "BLOCKED"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusInReview,
		StatusDone, StatusBlocked:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to the given status is a
// legal story transition. The forward path is
// BACKLOG → TODO → IN_PROGRESS → IN_REVIEW → DONE. Blocking is reachable
// from every non-done state and unblocks back into IN_PROGRESS; every
// non-done state can also be re-queued to BACKLOG. DONE is soft-terminal:
// the only way out is reopening into IN_REVIEW for correction.
// A same-state "transition" is treated as a no-op and allowed.
func (s Status) CanTransitionTo(to Status) bool {
	if s == to {
		return true
	}
	switch s {
	case StatusBacklog:
		return to == StatusTodo || to == StatusBlocked
	case StatusTodo:
		return to == StatusInProgress || to == StatusBacklog || to == StatusBlocked
	case StatusInProgress:
		return to == StatusInReview || to == StatusBacklog || to == StatusBlocked
	case StatusInReview:
		return to == StatusDone || to == StatusBacklog || to == StatusBlocked
	case StatusBlocked:
		return to == StatusInProgress || to == StatusBacklog
	case StatusDone:
		return to == StatusInReview
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
