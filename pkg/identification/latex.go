package identification

import (
	"fmt"
	"strings"

	"github.com/cipollone/trace-dfa/pkg/automata"
)

// LatexBody renders the conflict graph: every state with its response
// style, then each edge once as an undirected connection.
func (g *ConstraintsGraph) LatexBody() string {
	var sb strings.Builder

	for _, n := range g.nodes {
		sb.WriteString("\n\t\t")
		fmt.Fprintf(&sb, "%d ", n.ID)
		switch n.Response {
		case automata.Accept:
			sb.WriteString("[accept] ")
		case automata.Reject:
			sb.WriteString("[reject] ")
		}
		sb.WriteString(";")
	}
	for _, e := range g.Constraints() {
		fmt.Fprintf(&sb, "\n\t\t%d -- %d;", e.U, e.V)
	}

	return sb.String()
}
