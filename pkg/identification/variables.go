package identification

import (
	"fmt"

	"github.com/cipollone/trace-dfa/pkg/automata"
	"github.com/cipollone/trace-dfa/pkg/cnf"
)

// EncodingVariable is a Boolean variable of the encoding together with
// its semantic role. Reconstruction walks the positively-assigned
// variables and lets each one act on the DFA under construction.
//
// The four roles are: x (a state has a color), x_init (same, and the
// state is the APTA root), y (a DFA transition between colors on a
// label), z (a color is accepting).
type EncodingVariable interface {
	// Base returns the interned propositional variable.
	Base() *cnf.Variable

	// ExtendDFA applies the variable's action to the builder when the
	// variable is assigned true; otherwise it does nothing.
	ExtendDFA(b *automata.DFABuilder[string]) error
}

// ColorVar is x(v,i): APTA state v has color i.
type ColorVar struct {
	base  *cnf.Variable
	Node  int
	Color int
}

func newColorVar(pool *cnf.VarPool, node, color int) *ColorVar {
	return &ColorVar{
		base:  pool.Get(fmt.Sprintf("x_%d,%d", node, color)),
		Node:  node,
		Color: color,
	}
}

// Base returns the interned propositional variable.
func (v *ColorVar) Base() *cnf.Variable { return v.base }

// ExtendDFA does nothing: colors are realized through the y and z
// variables.
func (v *ColorVar) ExtendDFA(*automata.DFABuilder[string]) error { return nil }

// InitialColorVar is x_init(v,i): the same Boolean as x(v,i) for the
// root state, with the distinguished role of marking the initial DFA
// color during reconstruction.
type InitialColorVar struct {
	ColorVar
}

func newInitialColorVar(pool *cnf.VarPool, node, color int) *InitialColorVar {
	return &InitialColorVar{ColorVar: *newColorVar(pool, node, color)}
}

// ExtendDFA marks the variable's color as the initial DFA state.
func (v *InitialColorVar) ExtendDFA(b *automata.DFABuilder[string]) error {
	if v.base.True() {
		b.SetInitial(v.Color)
	}
	return nil
}

// ParentVar is y(a,i,j): in the identified DFA the transition on label
// a from color i leads to color j.
type ParentVar struct {
	base  *cnf.Variable
	Label string
	From  int
	To    int
}

func newParentVar(pool *cnf.VarPool, label string, from, to int) *ParentVar {
	return &ParentVar{
		base:  pool.Get(fmt.Sprintf("y_%s,%d,%d", label, from, to)),
		Label: label,
		From:  from,
		To:    to,
	}
}

// Base returns the interned propositional variable.
func (v *ParentVar) Base() *cnf.Variable { return v.base }

// ExtendDFA adds the transition to the DFA.
func (v *ParentVar) ExtendDFA(b *automata.DFABuilder[string]) error {
	if !v.base.True() {
		return nil
	}
	return b.AddArc(v.From, v.Label, v.To)
}

// FinalVar is z(i): color i is an accepting DFA state.
type FinalVar struct {
	base  *cnf.Variable
	Color int
}

func newFinalVar(pool *cnf.VarPool, color int) *FinalVar {
	return &FinalVar{
		base:  pool.Get(fmt.Sprintf("z_%d", color)),
		Color: color,
	}
}

// Base returns the interned propositional variable.
func (v *FinalVar) Base() *cnf.Variable { return v.base }

// ExtendDFA marks the variable's color as accepting.
func (v *FinalVar) ExtendDFA(b *automata.DFABuilder[string]) error {
	if v.base.True() {
		b.SetAccept(v.Color)
	}
	return nil
}
