package cnf

import "strings"

// Clause is a disjunction of literals, stored as two duplicate-free
// lists of variables: the positive and the negated ones. A variable
// appearing on both polarities makes the clause trivially satisfied;
// it is kept as-is since the solver absorbs tautologies.
type Clause struct {
	pos []*Variable
	neg []*Variable

	posSeen map[*Variable]bool
	negSeen map[*Variable]bool
}

// NewClause returns an empty clause.
func NewClause() *Clause {
	return &Clause{
		posSeen: make(map[*Variable]bool),
		negSeen: make(map[*Variable]bool),
	}
}

// AddPositive adds positive literals. Repeating a variable on the same
// polarity is a no-op.
func (c *Clause) AddPositive(vars ...*Variable) {
	for _, v := range vars {
		if !c.posSeen[v] {
			c.posSeen[v] = true
			c.pos = append(c.pos, v)
		}
	}
}

// AddNegated adds negated literals. Repeating a variable on the same
// polarity is a no-op.
func (c *Clause) AddNegated(vars ...*Variable) {
	for _, v := range vars {
		if !c.negSeen[v] {
			c.negSeen[v] = true
			c.neg = append(c.neg, v)
		}
	}
}

// Positive returns the positive literals in insertion order. Callers
// must not modify the returned slice.
func (c *Clause) Positive() []*Variable {
	return c.pos
}

// Negated returns the negated literals in insertion order. Callers
// must not modify the returned slice.
func (c *Clause) Negated() []*Variable {
	return c.neg
}

// Len returns the number of literals.
func (c *Clause) Len() int {
	return len(c.pos) + len(c.neg)
}

// Satisfied reports whether the clause holds under the current
// variable assignments.
func (c *Clause) Satisfied() bool {
	for _, v := range c.pos {
		if v.True() {
			return true
		}
	}
	for _, v := range c.neg {
		if v.False() {
			return true
		}
	}
	return false
}

// String renders the clause as a disjunction, for debugging.
func (c *Clause) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sep := ""
	for _, v := range c.pos {
		sb.WriteString(sep)
		sb.WriteString(v.Name())
		sep = " V "
	}
	for _, v := range c.neg {
		sb.WriteString(sep)
		sb.WriteString("-")
		sb.WriteString(v.Name())
		sep = " V "
	}
	sb.WriteString(")")
	return sb.String()
}
