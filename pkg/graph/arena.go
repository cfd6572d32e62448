// Package graph provides the labeled graph substrate shared by all
// automata in this module. A graph lives in an Arena: nodes are plain
// integer ids allocated densely from zero, arcs are labeled and
// exclusive per (node, label) pair, which for an automaton means
// determinism. Storing neighbors as ids rather than pointers keeps
// parent links, symmetric arcs and cycles free of ownership knots, and
// makes traversal and serialization trivial.
//
// The arena is parametric in the label type. Labels must be comparable;
// the learning pipeline uses strings at its boundary but nothing here
// depends on that.
package graph

// NoNode is returned by arc lookups when no node is connected.
const NoNode = -1

// Arena owns every node of one graph. The zero value is not usable;
// call NewArena, which also allocates the root.
//
// Ids are unique within the arena, dense, and monotonically increasing
// in allocation order. The root always has id 0.
type Arena[L comparable] struct {
	arcs []map[L]int
}

// NewArena creates an arena holding a single root node with id 0.
func NewArena[L comparable]() *Arena[L] {
	a := &Arena[L]{}
	a.NewNode()
	return a
}

// Root returns the id of the root node.
func (a *Arena[L]) Root() int {
	return 0
}

// Len returns the number of allocated nodes.
func (a *Arena[L]) Len() int {
	return len(a.arcs)
}

// Valid reports whether id names an allocated node.
func (a *Arena[L]) Valid(id int) bool {
	return id >= 0 && id < len(a.arcs)
}

// NewNode allocates a fresh unconnected node and returns its id.
func (a *Arena[L]) NewNode() int {
	id := len(a.arcs)
	a.arcs = append(a.arcs, make(map[L]int))
	return id
}

// AddArc connects parent to child with the given label. An existing arc
// with the same (parent, label) is replaced. Invalid ids panic: arcs
// between foreign nodes are a programming error, not an input error.
func (a *Arena[L]) AddArc(parent int, label L, child int) {
	a.check(parent)
	a.check(child)
	a.arcs[parent][label] = child
}

// RemoveArc removes the labeled arc leaving parent. It returns the id
// of the disconnected child, or NoNode and false when no such arc
// existed.
func (a *Arena[L]) RemoveArc(parent int, label L) (int, bool) {
	a.check(parent)
	child, ok := a.arcs[parent][label]
	if !ok {
		return NoNode, false
	}
	delete(a.arcs[parent], label)
	return child, true
}

// FollowArc returns the node connected to from through the labeled arc,
// or NoNode and false when there is no such arc. Lookup is O(1)
// expected.
func (a *Arena[L]) FollowArc(from int, label L) (int, bool) {
	a.check(from)
	child, ok := a.arcs[from][label]
	if !ok {
		return NoNode, false
	}
	return child, true
}

// HasArc reports whether a labeled arc leaves from.
func (a *Arena[L]) HasArc(from int, label L) bool {
	_, ok := a.FollowArc(from, label)
	return ok
}

// Arcs returns the outgoing arcs of a node as a label to child-id map.
// The map is the arena's own storage: callers must not modify it.
func (a *Arena[L]) Arcs(id int) map[L]int {
	a.check(id)
	return a.arcs[id]
}

// Degree returns the number of outgoing arcs of a node.
func (a *Arena[L]) Degree(id int) int {
	a.check(id)
	return len(a.arcs[id])
}

// FollowPath traverses one arc per label in path, starting at from, and
// returns the last node reached. When any transition is missing it
// returns NoNode and false. An empty path returns from itself.
func (a *Arena[L]) FollowPath(from int, path []L) (int, bool) {
	a.check(from)
	node := from
	for _, label := range path {
		next, ok := a.FollowArc(node, label)
		if !ok {
			return NoNode, false
		}
		node = next
	}
	return node, true
}

// Walk visits every node reachable from the root exactly once, in
// pre-order depth-first order. Traversal stops early when visit
// returns false.
func (a *Arena[L]) Walk(visit func(id int) bool) {
	visited := make([]bool, len(a.arcs))
	stack := []int{a.Root()}
	visited[a.Root()] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(id) {
			return
		}
		for _, child := range a.arcs[id] {
			if !visited[child] {
				visited[child] = true
				stack = append(stack, child)
			}
		}
	}
}

// Reachable returns the ids of all nodes reachable from the root, in
// pre-order.
func (a *Arena[L]) Reachable() []int {
	ids := make([]int, 0, len(a.arcs))
	a.Walk(func(id int) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

func (a *Arena[L]) check(id int) {
	if !a.Valid(id) {
		panic("graph: node id out of range")
	}
}
