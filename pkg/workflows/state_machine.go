package workflows

// StateMachine enforces status transitions for pledged assets and
// borrow positions
type StateMachine struct {
	allowedTransitions map[string][]string
}

// NewPositionStateMachine returns the borrow position lifecycle: a
// position opens active and closes exactly once.
func NewPositionStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[string][]string{
			"active":     {"repaid", "liquidated", "defaulted"},
			"repaid":     {},
			"liquidated": {},
			"defaulted":  {},
		},
	}
}

// NewTokenizationStateMachine returns the asset tokenization lifecycle.
func NewTokenizationStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[string][]string{
			"pending":     {"in_progress"},
			"in_progress": {"tokenized", "failed"},
			"tokenized":   {},
			"failed":      {"in_progress"}, // failed mints may be retried
		},
	}
}

// CanTransition checks if a status transition is allowed
func (sm *StateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status
func (sm *StateMachine) GetAllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return nil
	}
	return allowed
}
