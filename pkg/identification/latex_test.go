package identification

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraintsGraph_LatexBody(t *testing.T) {
	cg := NewConstraintsGraph(toyAPTA())
	body := cg.LatexBody()

	assert.Contains(t, body, "[accept]")
	assert.Contains(t, body, "[reject]")
	for _, e := range cg.Constraints() {
		assert.Contains(t, body, fmt.Sprintf("%d -- %d;", e.U, e.V))
	}
	assert.Equal(t, len(cg.Constraints()), strings.Count(body, "--"),
		"each edge rendered exactly once")
}
