package sprint

// Status represents the lifecycle state of a Sprint.
type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanned, StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for states that admit no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to the given status is a
// legal sprint transition. Transitions are explicit user commands:
// PLANNED → ACTIVE → COMPLETED, with cancellation allowed from PLANNED and
// ACTIVE. Completed and cancelled sprints never change state again.
// A same-state "transition" is treated as a no-op and allowed.
func (s Status) CanTransitionTo(to Status) bool {
	if s == to {
		return true
	}
	switch s {
	case StatusPlanned:
		return to == StatusActive || to == StatusCancelled
	case StatusActive:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
