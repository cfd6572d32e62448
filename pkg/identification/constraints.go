// Package identification implements exact DFA identification by
// reduction to SAT, after Heule and Verwer. From an APTA it derives
// the graph of pairwise merge conflicts, seeds a clique as a lower
// bound on the DFA size, encodes the k-coloring problem in CNF, and
// grows k until the oracle finds a model, which is read back as a DFA.
package identification

import (
	"sort"

	"github.com/cipollone/trace-dfa/pkg/automata"
)

// CNode is one node of the constraints graph: a clone of an APTA
// state. Adjacencies are merge inconsistencies — two adjacent states
// must not receive the same color.
type CNode struct {
	// ID equals the id of the APTA state this node was cloned from.
	ID int
	// Response is copied from the APTA state.
	Response automata.Response

	children map[string]int
	adj      map[int]bool
}

// Adjacent reports whether the node conflicts with the given state.
func (n *CNode) Adjacent(id int) bool {
	return n.adj[id]
}

// Degree returns the number of conflicting states.
func (n *CNode) Degree() int {
	return len(n.adj)
}

// Edge is one undirected merge conflict, reported canonically with
// U < V.
type Edge struct {
	U, V int
}

// ConstraintsGraph is the undirected graph of pairwise merge
// inconsistencies over the states of one APTA. An edge (u,v) asserts
// that u and v must not share a color. The graph holds direct
// conflicts (accepting versus rejecting states) and indirect ones
// (pairs whose merge would transitively force a direct conflict).
//
// The source APTA must not change after construction.
type ConstraintsGraph struct {
	apta  *automata.APTA[string]
	nodes []*CNode

	labels    []string
	accepting []int
	rejecting []int
}

// NewConstraintsGraph clones the APTA states and computes every merge
// conflict. Cost is polynomial in the number of states: all unordered
// pairs are examined once, each with a recursive mergeability test.
func NewConstraintsGraph(apta *automata.APTA[string]) *ConstraintsGraph {
	g := &ConstraintsGraph{
		apta:  apta,
		nodes: make([]*CNode, apta.Len()),
	}

	labelSet := make(map[string]bool)
	apta.Walk(func(id int) bool {
		n := &CNode{
			ID:       id,
			Response: apta.Response(id),
			children: make(map[string]int),
			adj:      make(map[int]bool),
		}
		for label, child := range apta.Arcs(id) {
			n.children[label] = child
			labelSet[label] = true
		}
		g.nodes[id] = n
		switch n.Response {
		case automata.Accept:
			g.accepting = append(g.accepting, id)
		case automata.Reject:
			g.rejecting = append(g.rejecting, id)
		}
		return true
	})

	g.labels = make([]string, 0, len(labelSet))
	for l := range labelSet {
		g.labels = append(g.labels, l)
	}
	sort.Strings(g.labels)
	sort.Ints(g.accepting)
	sort.Ints(g.rejecting)

	g.directConflicts()
	g.indirectConflicts()
	return g
}

// BuiltOn reports whether the graph was derived from the given APTA.
func (g *ConstraintsGraph) BuiltOn(apta *automata.APTA[string]) bool {
	return g.apta == apta
}

// NumStates returns the number of nodes, equal to the APTA state
// count.
func (g *ConstraintsGraph) NumStates() int {
	return len(g.nodes)
}

// Node returns the clone of the APTA state with the given id.
func (g *ConstraintsGraph) Node(id int) *CNode {
	return g.nodes[id]
}

// Labels returns all distinct transition labels of the source APTA,
// sorted.
func (g *ConstraintsGraph) Labels() []string {
	return g.labels
}

// AcceptingNodes returns the ids of accepting states, ascending.
func (g *ConstraintsGraph) AcceptingNodes() []int {
	return g.accepting
}

// RejectingNodes returns the ids of rejecting states, ascending.
func (g *ConstraintsGraph) RejectingNodes() []int {
	return g.rejecting
}

// HasEdge reports whether states u and v are in conflict.
func (g *ConstraintsGraph) HasEdge(u, v int) bool {
	return g.nodes[u].adj[v]
}

// Constraints returns every edge exactly once, canonically ordered
// with U < V and sorted for reproducible enumeration.
func (g *ConstraintsGraph) Constraints() []Edge {
	var edges []Edge
	for _, n := range g.nodes {
		for v := range n.adj {
			if n.ID < v {
				edges = append(edges, Edge{U: n.ID, V: v})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})
	return edges
}

func (g *ConstraintsGraph) addEdge(u, v int) {
	if u == v {
		return
	}
	g.nodes[u].adj[v] = true
	g.nodes[v].adj[u] = true
}

// directConflicts connects every accepting state with every rejecting
// state: merging the two endpoints is inconsistent by definition.
func (g *ConstraintsGraph) directConflicts() {
	for _, u := range g.accepting {
		for _, v := range g.rejecting {
			g.addEdge(u, v)
		}
	}
}

// indirectConflicts connects every pair whose merge would force an
// inconsistent merge further down the tree. Each unordered pair is
// examined once; the recursive test bottoms out on the direct edges,
// so enumeration order does not change the resulting edge set.
func (g *ConstraintsGraph) indirectConflicts() {
	for u := 0; u < len(g.nodes); u++ {
		for v := u + 1; v < len(g.nodes); v++ {
			if g.nodes[u].adj[v] {
				continue
			}
			if !g.mergeable(u, v, make(map[int][]int)) {
				g.addEdge(u, v)
			}
		}
	}
}

// mergeable reports whether fusing states u and v is consistent.
// Children reached by labels common to both states must be fused in
// turn. merged tracks the fusions of the current attempt: before u and
// v are recorded as fused, u must not conflict with any previous fuse
// peer of v, and vice versa.
func (g *ConstraintsGraph) mergeable(u, v int, merged map[int][]int) bool {
	if u == v {
		return true
	}
	if g.nodes[u].adj[v] {
		return false
	}
	for label, uc := range g.nodes[u].children {
		if vc, ok := g.nodes[v].children[label]; ok {
			if !g.mergeable(uc, vc, merged) {
				return false
			}
		}
	}
	for _, w := range merged[v] {
		if g.nodes[u].adj[w] {
			return false
		}
	}
	for _, w := range merged[u] {
		if g.nodes[v].adj[w] {
			return false
		}
	}
	merged[u] = append(merged[u], v)
	merged[v] = append(merged[v], u)
	return true
}

// Clique returns a set of pairwise-adjacent states, used as a lower
// bound on the chromatic number. It is the union of two greedy
// cliques, one over accepting and one over rejecting states; the union
// is itself a clique because every accepting-rejecting pair is
// directly adjacent.
func (g *ConstraintsGraph) Clique() []int {
	clique := g.greedyClique(g.accepting)
	clique = append(clique, g.greedyClique(g.rejecting)...)
	return clique
}

// greedyClique grows a clique inside one monochromatic subgraph. The
// seed is the member of highest subgraph degree; each step adds the
// neighbor of the seed that is adjacent to the whole clique and has
// the highest degree. Candidates are scanned in ascending id with a
// >= comparison, so ties keep the highest id.
func (g *ConstraintsGraph) greedyClique(members []int) []int {
	if len(members) == 0 {
		return nil
	}

	same := make(map[int]bool, len(members))
	for _, id := range members {
		same[id] = true
	}
	degree := func(id int) int {
		d := 0
		for n := range g.nodes[id].adj {
			if same[n] {
				d++
			}
		}
		return d
	}

	seed, seedDeg := -1, -1
	for _, id := range members { // ascending: >= keeps the highest id
		if d := degree(id); d >= seedDeg {
			seed, seedDeg = id, d
		}
	}

	clique := []int{seed}
	inClique := map[int]bool{seed: true}

	neighbors := make([]int, 0, len(g.nodes[seed].adj))
	for n := range g.nodes[seed].adj {
		if same[n] {
			neighbors = append(neighbors, n)
		}
	}
	sort.Ints(neighbors)

	for {
		best, bestDeg := -1, -1
		for _, n := range neighbors {
			if inClique[n] {
				continue
			}
			adjacentToAll := true
			for c := range inClique {
				if !g.nodes[n].adj[c] {
					adjacentToAll = false
					break
				}
			}
			if !adjacentToAll {
				continue
			}
			if d := degree(n); d >= bestDeg {
				best, bestDeg = n, d
			}
		}
		if best < 0 {
			return clique
		}
		clique = append(clique, best)
		inClique[best] = true
	}
}
