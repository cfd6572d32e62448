// Package automata implements the two automata of the DFA
// identification pipeline: the Augmented Prefix Tree Acceptor built
// from labeled example sequences, and the deterministic finite-state
// automaton reconstructed from a satisfying assignment. Both are thin
// specializations of the graph.Arena substrate.
package automata

// Response classifies a state of an APTA: the state accepts, rejects,
// or carries no information.
type Response int

const (
	// Unknown marks states no training sequence terminates on.
	Unknown Response = iota
	// Accept marks states reached by an accepted sequence.
	Accept
	// Reject marks states reached by a rejected sequence.
	Reject
)

// String returns the response name in lowercase.
func (r Response) String() string {
	switch r {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}
