package newton

// State is the lifecycle state of a Driver.
type State int

const (
	// Initialized means no step has been taken yet.
	Initialized State = iota
	// Iterating means at least one step was taken and none was terminal.
	Iterating
	// Converged means the last change was within tolerance.
	Converged
	// Diverged means the derivative evaluated to zero.
	Diverged
	// Exhausted means the iteration cap was reached without converging.
	Exhausted
)

var stateNames = [...]string{
	Initialized: "initialized",
	Iterating:   "iterating",
	Converged:   "converged",
	Diverged:    "diverged",
	Exhausted:   "exhausted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further steps may be taken.
func (s State) Terminal() bool {
	return s == Converged || s == Diverged || s == Exhausted
}
