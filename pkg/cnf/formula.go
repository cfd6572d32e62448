package cnf

import "strings"

// Formula is a conjunction of clauses. Clause order carries no
// logical meaning; it is kept stable so serialization is
// reproducible.
type Formula struct {
	clauses []*Clause
}

// NewFormula returns an empty formula.
func NewFormula() *Formula {
	return &Formula{}
}

// Add appends clauses to the formula.
func (f *Formula) Add(clauses ...*Clause) {
	f.clauses = append(f.clauses, clauses...)
}

// Clauses returns the clauses in insertion order. Callers must not
// modify the returned slice.
func (f *Formula) Clauses() []*Clause {
	return f.clauses
}

// Len returns the number of clauses.
func (f *Formula) Len() int {
	return len(f.clauses)
}

// Satisfied reports whether every clause holds under the current
// variable assignments.
func (f *Formula) Satisfied() bool {
	for _, c := range f.clauses {
		if !c.Satisfied() {
			return false
		}
	}
	return true
}

// String renders the formula as a conjunction, for debugging.
func (f *Formula) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, c := range f.clauses {
		if i > 0 {
			sb.WriteString(" and ")
		}
		sb.WriteString(c.String())
	}
	sb.WriteString("}")
	return sb.String()
}
