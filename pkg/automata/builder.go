package automata

import (
	"fmt"

	"github.com/cipollone/trace-dfa/pkg/graph"
)

// DFABuilder assembles a DFA from external integer state names, the
// way a SAT model talks about colors. Every name used in any operation
// allocates a state on first mention; names never mentioned do not
// appear in the built automaton.
type DFABuilder[L comparable] struct {
	arena   *graph.Arena[L]
	states  map[int]int // external name to arena id
	accept  []bool
	initial int
	rooted  bool
}

// NewDFABuilder returns an empty builder.
func NewDFABuilder[L comparable]() *DFABuilder[L] {
	return &DFABuilder[L]{
		states:  make(map[int]int),
		initial: graph.NoNode,
	}
}

// state returns the arena id for an external name, allocating on first
// mention. The arena creates its first node lazily here so that only
// referenced states exist.
func (b *DFABuilder[L]) state(name int) int {
	if id, ok := b.states[name]; ok {
		return id
	}
	var id int
	if !b.rooted {
		b.arena = graph.NewArena[L]()
		b.rooted = true
		id = b.arena.Root()
	} else {
		id = b.arena.NewNode()
	}
	b.states[name] = id
	b.accept = append(b.accept, false)
	return id
}

// Touch declares a state without any other effect. Useful to pin a
// fixed order on the state ids.
func (b *DFABuilder[L]) Touch(name int) {
	b.state(name)
}

// SetAccept marks a state as accepting.
func (b *DFABuilder[L]) SetAccept(name int) {
	b.accept[b.state(name)] = true
}

// SetInitial marks a state as the initial state. A later call
// overrides an earlier one.
func (b *DFABuilder[L]) SetInitial(name int) {
	b.initial = b.state(name)
}

// AddArc declares a transition. Declaring the same (src, label, dst)
// twice is a no-op; declaring a different dst for an existing
// (src, label) fails with ErrConflictingArc, since the automaton must
// stay deterministic.
func (b *DFABuilder[L]) AddArc(src int, label L, dst int) error {
	from := b.state(src)
	to := b.state(dst)
	if prev, ok := b.arena.FollowArc(from, label); ok {
		if prev != to {
			return fmt.Errorf("%w: state %d already moves on %v to a different state",
				ErrConflictingArc, src, label)
		}
		return nil
	}
	b.arena.AddArc(from, label, to)
	return nil
}

// Build returns the assembled DFA. It fails with ErrNoInitialState
// when no initial state was ever set.
func (b *DFABuilder[L]) Build() (*DFA[L], error) {
	if b.initial == graph.NoNode {
		return nil, ErrNoInitialState
	}
	return &DFA[L]{
		arena:   b.arena,
		accept:  b.accept,
		initial: b.initial,
	}, nil
}
