package workflow

// State identifies a position in the sync workflow. The machine only ever
// moves forward; no state is revisited within a run.
type State int

const (
	StateInitialized State = iota
	StateFetched
	StatePreflightChecked
	StateChangesStaged
	StateNoChangesDetected
	StateBumpDetermined
	StateVersionConfirmed
	StateCommitted
	StatePullRequestCreated
	StateFailed
)

// String returns a stable name for logging and messages.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateFetched:
		return "fetched"
	case StatePreflightChecked:
		return "preflight-checked"
	case StateChangesStaged:
		return "changes-staged"
	case StateNoChangesDetected:
		return "no-changes-detected"
	case StateBumpDetermined:
		return "bump-determined"
	case StateVersionConfirmed:
		return "version-confirmed"
	case StateCommitted:
		return "committed"
	case StatePullRequestCreated:
		return "pull-request-created"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the workflow halts in this state.
func (s State) Terminal() bool {
	switch s {
	case StateNoChangesDetected, StatePullRequestCreated, StateFailed:
		return true
	default:
		return false
	}
}

// allowedTransition validates the forward-only edge set of the machine.
func allowedTransition(from, to State) bool {
	if to == StateFailed {
		return !from.Terminal()
	}
	switch from {
	case StateInitialized:
		return to == StateFetched
	case StateFetched:
		return to == StatePreflightChecked
	case StatePreflightChecked:
		return to == StateChangesStaged
	case StateChangesStaged:
		return to == StateNoChangesDetected || to == StateBumpDetermined
	case StateBumpDetermined:
		return to == StateVersionConfirmed
	case StateVersionConfirmed:
		return to == StateCommitted
	case StateCommitted:
		return to == StatePullRequestCreated
	default:
		return false
	}
}
