package automata

import (
	"github.com/cipollone/trace-dfa/pkg/graph"
)

// APTA is an Augmented Prefix Tree Acceptor: a deterministic prefix
// tree whose states carry a Response. Accept and Reject grow the tree
// along existing children only, so determinism holds at all times and
// ids stay dense with the root at 0.
//
// Every non-root state keeps a back-link to its parent and to the
// label on the incoming arc; the link is maintained by the tree's own
// arc mutations.
type APTA[L comparable] struct {
	arena *graph.Arena[L]

	resp        []Response
	parent      []int
	parentLabel []L
}

// NewAPTA creates an empty tree holding only the root, with response
// Unknown.
func NewAPTA[L comparable]() *APTA[L] {
	t := &APTA[L]{arena: graph.NewArena[L]()}
	t.resp = append(t.resp, Unknown)
	t.parent = append(t.parent, graph.NoNode)
	t.parentLabel = append(t.parentLabel, *new(L))
	return t
}

// Root returns the id of the root state, always 0.
func (t *APTA[L]) Root() int {
	return t.arena.Root()
}

// Len returns the number of states.
func (t *APTA[L]) Len() int {
	return t.arena.Len()
}

// Response returns the response of a state.
func (t *APTA[L]) Response(id int) Response {
	return t.resp[id]
}

// Parent returns the parent of a state and the label on the incoming
// arc. For the root it returns graph.NoNode and false.
func (t *APTA[L]) Parent(id int) (parent int, label L, ok bool) {
	p := t.parent[id]
	if p == graph.NoNode {
		return graph.NoNode, *new(L), false
	}
	return p, t.parentLabel[id], true
}

// FollowArc returns the child reached from id through label, or
// graph.NoNode and false when there is no such arc.
func (t *APTA[L]) FollowArc(id int, label L) (int, bool) {
	return t.arena.FollowArc(id, label)
}

// Arcs returns the outgoing arcs of a state. Callers must not modify
// the returned map.
func (t *APTA[L]) Arcs(id int) map[L]int {
	return t.arena.Arcs(id)
}

// Walk visits every state in pre-order depth-first order, root first.
func (t *APTA[L]) Walk(visit func(id int) bool) {
	t.arena.Walk(visit)
}

// newChild allocates a fresh state and connects it under parent. The
// back-link of the child is set as part of the arc.
func (t *APTA[L]) newChild(parent int, label L) int {
	child := t.arena.NewNode()
	t.resp = append(t.resp, Unknown)
	t.parent = append(t.parent, parent)
	t.parentLabel = append(t.parentLabel, label)
	t.arena.AddArc(parent, label, child)
	return child
}

// add walks seq from the root matching as much of it as possible,
// extends the tree with fresh children for the remaining labels, and
// sets the terminal state's response. An Unknown response is a no-op.
func (t *APTA[L]) add(seq []L, response Response) {
	if response == Unknown {
		return
	}

	node := t.Root()
	i := 0
	for ; i < len(seq); i++ {
		next, ok := t.arena.FollowArc(node, seq[i])
		if !ok {
			break
		}
		node = next
	}
	for ; i < len(seq); i++ {
		node = t.newChild(node, seq[i])
	}

	t.resp[node] = response
}

// Accept extends the tree so that seq terminates on an accepting
// state. A nil slice is the empty sequence and marks the root.
func (t *APTA[L]) Accept(seq []L) {
	t.add(seq, Accept)
}

// Reject extends the tree so that seq terminates on a rejecting state.
func (t *APTA[L]) Reject(seq []L) {
	t.add(seq, Reject)
}

// Parse follows seq from the root and returns the response of the
// terminal state. A missing transition anywhere yields Unknown.
func (t *APTA[L]) Parse(seq []L) Response {
	node, ok := t.arena.FollowPath(t.Root(), seq)
	if !ok {
		return Unknown
	}
	return t.resp[node]
}

// ParseBinary reduces Parse to a boolean: Accept maps to true, Reject
// and Unknown map to false. Under strict parsing a walk that falls off
// the tree fails with ErrImpossibleTransition instead.
func (t *APTA[L]) ParseBinary(seq []L, strict bool) (bool, error) {
	node := t.Root()
	for _, label := range seq {
		next, ok := t.arena.FollowArc(node, label)
		if !ok {
			if strict {
				return false, ErrImpossibleTransition
			}
			return false, nil
		}
		node = next
	}
	return t.resp[node] == Accept, nil
}
