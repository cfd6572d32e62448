package automata

import "errors"

// Sentinel errors for the automata package.
var (
	// ErrImpossibleTransition indicates a strict parse fell off the
	// automaton: some label had no outgoing arc at the current state.
	ErrImpossibleTransition = errors.New("impossible transition")

	// ErrConflictingArc indicates two arcs were declared from the same
	// state with the same label but different targets.
	ErrConflictingArc = errors.New("conflicting arc")

	// ErrNoInitialState indicates a DFA was built without ever marking
	// an initial state.
	ErrNoInitialState = errors.New("no initial state")
)
