package automata

import (
	"github.com/cipollone/trace-dfa/pkg/graph"
)

// Automaton is the parsing surface shared by APTA and DFA. It is what
// the testing phase compares models through.
type Automaton[L comparable] interface {
	// ParseBinary returns whether the automaton accepts seq. Under
	// strict parsing a missing transition fails with
	// ErrImpossibleTransition.
	ParseBinary(seq []L, strict bool) (bool, error)
}

// DFA is a deterministic finite-state automaton with a distinguished
// initial state and a per-state accept flag. Instances are produced by
// DFABuilder; the structure is not mutated afterwards.
type DFA[L comparable] struct {
	arena   *graph.Arena[L]
	accept  []bool
	initial int
}

// Initial returns the id of the initial state.
func (d *DFA[L]) Initial() int {
	return d.initial
}

// Len returns the number of states.
func (d *DFA[L]) Len() int {
	return d.arena.Len()
}

// Accepting reports whether a state accepts.
func (d *DFA[L]) Accepting(id int) bool {
	return d.accept[id]
}

// Transitions returns the outgoing arcs of a state as a label to
// state-id map. Callers must not modify the returned map.
func (d *DFA[L]) Transitions(id int) map[L]int {
	return d.arena.Arcs(id)
}

// Walk visits every state in id order. The builder only keeps states
// that were referenced, so this is the whole automaton.
func (d *DFA[L]) Walk(visit func(id int) bool) {
	for id := 0; id < d.arena.Len(); id++ {
		if !visit(id) {
			return
		}
	}
}

// ParseBinary runs seq from the initial state and returns the accept
// flag of the terminal state. A missing transition returns false, or
// ErrImpossibleTransition under strict parsing.
func (d *DFA[L]) ParseBinary(seq []L, strict bool) (bool, error) {
	node := d.initial
	for _, label := range seq {
		next, ok := d.arena.FollowArc(node, label)
		if !ok {
			if strict {
				return false, ErrImpossibleTransition
			}
			return false, nil
		}
		node = next
	}
	return d.accept[node], nil
}
