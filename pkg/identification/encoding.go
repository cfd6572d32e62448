package identification

import (
	"fmt"

	"github.com/cipollone/trace-dfa/pkg/automata"
	"github.com/cipollone/trace-dfa/pkg/cnf"
)

// ProblemEncoding builds the CNF encoding of one instance of the
// coloring problem: merge the APTA states into a DFA of a fixed number
// of colors. The basic clause set is sufficient for correctness; the
// redundant set prunes the search and forces the y variables to carry
// a complete transition function.
type ProblemEncoding struct {
	apta   *automata.APTA[string]
	cg     *ConstraintsGraph
	clique []int

	vertices int
	labels   []string
	colors   int

	pool *cnf.VarPool
	x    [][]EncodingVariable          // [vertex][color]
	y    map[string][][]*ParentVar     // label -> [from][to]
	z    []*FinalVar                   // [color]
	vars map[*cnf.Variable]EncodingVariable

	formula *cnf.Formula
}

// NewProblemEncoding allocates every Boolean variable of the problem:
// x(v,i) for each state and color (the root's slots carry the initial
// role), y(a,i,j) for each label and color pair, z(i) for each color.
//
// The constraints graph must be built on the given APTA, and colors
// must be at least the clique size; both are rejected with ErrBadInput.
func NewProblemEncoding(apta *automata.APTA[string], cg *ConstraintsGraph,
	clique []int, colors int) (*ProblemEncoding, error) {

	if apta == nil || cg == nil {
		return nil, fmt.Errorf("%w: nil apta or constraints graph", ErrBadInput)
	}
	if !cg.BuiltOn(apta) {
		return nil, fmt.Errorf("%w: constraints graph built on a different apta", ErrBadInput)
	}
	if colors < len(clique) {
		return nil, fmt.Errorf("%w: %d colors cannot host a clique of %d",
			ErrBadInput, colors, len(clique))
	}
	if colors < 1 {
		return nil, fmt.Errorf("%w: need at least one color", ErrBadInput)
	}

	e := &ProblemEncoding{
		apta:     apta,
		cg:       cg,
		clique:   clique,
		vertices: cg.NumStates(),
		labels:   cg.Labels(),
		colors:   colors,
		pool:     cnf.NewVarPool(),
		vars:     make(map[*cnf.Variable]EncodingVariable),
		formula:  cnf.NewFormula(),
	}

	root := apta.Root()
	e.x = make([][]EncodingVariable, e.vertices)
	for v := 0; v < e.vertices; v++ {
		e.x[v] = make([]EncodingVariable, colors)
		for i := 0; i < colors; i++ {
			var ev EncodingVariable
			if v == root {
				ev = newInitialColorVar(e.pool, v, i)
			} else {
				ev = newColorVar(e.pool, v, i)
			}
			e.x[v][i] = ev
			e.vars[ev.Base()] = ev
		}
	}

	e.y = make(map[string][][]*ParentVar, len(e.labels))
	for _, label := range e.labels {
		grid := make([][]*ParentVar, colors)
		for i := 0; i < colors; i++ {
			grid[i] = make([]*ParentVar, colors)
			for j := 0; j < colors; j++ {
				pv := newParentVar(e.pool, label, i, j)
				grid[i][j] = pv
				e.vars[pv.Base()] = pv
			}
		}
		e.y[label] = grid
	}

	e.z = make([]*FinalVar, colors)
	for i := 0; i < colors; i++ {
		fv := newFinalVar(e.pool, i)
		e.z[i] = fv
		e.vars[fv.Base()] = fv
	}

	return e, nil
}

// Colors returns the color count of this instance.
func (e *ProblemEncoding) Colors() int {
	return e.colors
}

// Formula returns the clauses generated so far.
func (e *ProblemEncoding) Formula() *cnf.Formula {
	return e.formula
}

// VariableFor returns the typed variable owning the given
// propositional variable.
func (e *ProblemEncoding) VariableFor(v *cnf.Variable) (EncodingVariable, bool) {
	ev, ok := e.vars[v]
	return ev, ok
}

// GenerateClauses emits the basic clause set: clique seeding, at least
// one color per state, accept/reject consistency with z, the parent
// relation, and determinism and totality of y.
func (e *ProblemEncoding) GenerateClauses() {
	e.initCliqueVars()
	e.atLeastOneColor()
	e.accRejNotSameColor()
	e.parentRelationWhenColor()
	e.parentAtMostOneColor()
	e.parentAtLeastOneColor()
}

// GenerateRedundantClauses emits the optional clause set: at most one
// color per state, child color forcing, and the constraints-graph
// edges as explicit conflict clauses.
func (e *ProblemEncoding) GenerateRedundantClauses() {
	e.atMostOneColor()
	e.parentForceVertex()
	e.determinConflicts()
}

// initCliqueVars pins each clique member to its own color with unit
// clauses, and fixes the z variable of that color from the member's
// response. Sound because clique members are pairwise conflicting.
func (e *ProblemEncoding) initCliqueVars() {
	for s, n := range e.clique {
		if s >= e.colors {
			break
		}
		c := cnf.NewClause()
		c.AddPositive(e.x[n][s].Base())
		e.formula.Add(c)

		c = cnf.NewClause()
		if e.cg.Node(n).Response == automata.Accept {
			c.AddPositive(e.z[s].Base())
		} else {
			c.AddNegated(e.z[s].Base())
		}
		e.formula.Add(c)
	}
}

// atLeastOneColor: every state holds some color.
func (e *ProblemEncoding) atLeastOneColor() {
	for v := 0; v < e.vertices; v++ {
		c := cnf.NewClause()
		for i := 0; i < e.colors; i++ {
			c.AddPositive(e.x[v][i].Base())
		}
		e.formula.Add(c)
	}
}

// accRejNotSameColor: a color taken by an accepting state is
// accepting, a color taken by a rejecting state is not.
func (e *ProblemEncoding) accRejNotSameColor() {
	for i := 0; i < e.colors; i++ {
		for _, u := range e.cg.AcceptingNodes() {
			c := cnf.NewClause()
			c.AddNegated(e.x[u][i].Base())
			c.AddPositive(e.z[i].Base())
			e.formula.Add(c)
		}
		for _, w := range e.cg.RejectingNodes() {
			c := cnf.NewClause()
			c.AddNegated(e.x[w][i].Base())
			c.AddNegated(e.z[i].Base())
			e.formula.Add(c)
		}
	}
}

// parentRelationWhenColor: coloring a state and its parent implies the
// corresponding y transition.
func (e *ProblemEncoding) parentRelationWhenColor() {
	e.apta.Walk(func(v int) bool {
		p, label, ok := e.apta.Parent(v)
		if !ok {
			return true
		}
		for i := 0; i < e.colors; i++ {
			for j := 0; j < e.colors; j++ {
				c := cnf.NewClause()
				c.AddPositive(e.y[label][i][j].Base())
				c.AddNegated(e.x[p][i].Base())
				c.AddNegated(e.x[v][j].Base())
				e.formula.Add(c)
			}
		}
		return true
	})
}

// parentAtMostOneColor: y is deterministic in the target color.
func (e *ProblemEncoding) parentAtMostOneColor() {
	for _, label := range e.labels {
		for i := 0; i < e.colors; i++ {
			for h := 0; h < e.colors; h++ {
				for j := h + 1; j < e.colors; j++ {
					c := cnf.NewClause()
					c.AddNegated(e.y[label][i][h].Base())
					c.AddNegated(e.y[label][i][j].Base())
					e.formula.Add(c)
				}
			}
		}
	}
}

// parentAtLeastOneColor: y is total in the target color.
func (e *ProblemEncoding) parentAtLeastOneColor() {
	for _, label := range e.labels {
		for i := 0; i < e.colors; i++ {
			c := cnf.NewClause()
			for j := 0; j < e.colors; j++ {
				c.AddPositive(e.y[label][i][j].Base())
			}
			e.formula.Add(c)
		}
	}
}

// atMostOneColor: every state holds a single color.
func (e *ProblemEncoding) atMostOneColor() {
	for v := 0; v < e.vertices; v++ {
		for i := 0; i < e.colors; i++ {
			for j := i + 1; j < e.colors; j++ {
				c := cnf.NewClause()
				c.AddNegated(e.x[v][i].Base())
				c.AddNegated(e.x[v][j].Base())
				e.formula.Add(c)
			}
		}
	}
}

// parentForceVertex: a y transition and the parent's color force the
// child's color.
func (e *ProblemEncoding) parentForceVertex() {
	e.apta.Walk(func(v int) bool {
		p, label, ok := e.apta.Parent(v)
		if !ok {
			return true
		}
		for i := 0; i < e.colors; i++ {
			for j := 0; j < e.colors; j++ {
				c := cnf.NewClause()
				c.AddNegated(e.y[label][i][j].Base())
				c.AddNegated(e.x[p][i].Base())
				c.AddPositive(e.x[v][j].Base())
				e.formula.Add(c)
			}
		}
		return true
	})
}

// determinConflicts: every constraints-graph edge, per color, as an
// explicit conflict clause.
func (e *ProblemEncoding) determinConflicts() {
	for _, edge := range e.cg.Constraints() {
		for i := 0; i < e.colors; i++ {
			c := cnf.NewClause()
			c.AddNegated(e.x[edge.U][i].Base())
			c.AddNegated(e.x[edge.V][i].Base())
			e.formula.Add(c)
		}
	}
}
