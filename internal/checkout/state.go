package checkout

// State is one step of a checkout attempt. Every attempt walks
// IDLE -> COLLECTING -> CHECKING_STOCK and ends in exactly one of the
// terminal states; REPORTING_CONFLICTS hands control back to the
// shopper, so a retry is always a fresh attempt.
type State string

const (
	StateIdle               State = "IDLE"
	StateCollecting         State = "COLLECTING"
	StateCheckingStock      State = "CHECKING_STOCK"
	StatePreparingOrder     State = "PREPARING_ORDER"
	StateReportingConflicts State = "REPORTING_CONFLICTS"
	StateRedirected         State = "REDIRECTED"
	StateFailed             State = "FAILED"
)

var transitions = map[State][]State{
	StateIdle:           {StateCollecting},
	StateCollecting:     {StateCheckingStock, StateFailed},
	StateCheckingStock:  {StatePreparingOrder, StateReportingConflicts, StateFailed},
	StatePreparingOrder: {StateRedirected, StateFailed},
}

// CanTransition reports whether the machine allows moving from one
// state to the next.
func CanTransition(from, to State) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a state ends the attempt.
func (s State) Terminal() bool {
	switch s {
	case StateRedirected, StateReportingConflicts, StateFailed:
		return true
	}
	return false
}
