package engine

// PersonState is the per-person attendance tracking state.
type PersonState string

// State machine: NEW -> MARKING -> MARKED -> IGNORED, forward-only within a
// session. IGNORED is absorbing until the session resets.
const (
	StateNew     PersonState = "NEW"     // first detection in session
	StateMarking PersonState = "MARKING" // attendance being marked by the store
	StateMarked  PersonState = "MARKED"  // attendance recorded
	StateIgnored PersonState = "IGNORED" // already marked, no further audio
)

// next applies the transition table and reports whether a transition fired.
// Pure function of its inputs so announcement decisions are testable without
// timing side effects.
func next(state PersonState, attendanceMarked, reappeared bool) (PersonState, bool) {
	switch {
	case state == StateNew:
		return StateMarking, true
	case state == StateMarking && attendanceMarked:
		return StateMarked, true
	case state == StateMarked && reappeared:
		return StateIgnored, true
	}
	return state, false
}
