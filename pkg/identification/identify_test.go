package identification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipollone/trace-dfa/pkg/automata"
)

// countingBackend wraps another backend and counts oracle calls.
type countingBackend struct {
	inner Backend
	calls int
}

func (b *countingBackend) Solve(ctx context.Context, path string) (bool, []int, error) {
	b.calls++
	return b.inner.Solve(ctx, path)
}

func testOptions(t *testing.T) Options {
	t.Helper()
	opts := DefaultOptions()
	opts.ScratchDir = t.TempDir()
	opts.Timeout = time.Minute
	return opts
}

func TestIdentify_ToyGrammar(t *testing.T) {
	apta := toyAPTA()

	dfa, err := Identify(context.Background(), apta, testOptions(t))
	require.NoError(t, err)
	require.NotNil(t, dfa)
	assert.LessOrEqual(t, dfa.Len(), 5, "five states always suffice for this sample")

	// The learned automaton reproduces every training label under
	// strict parsing.
	for _, s := range []string{"ciao", "ci", "ca", ""} {
		got, err := dfa.ParseBinary(seq(s), true)
		require.NoError(t, err, "parsing %q", s)
		assert.True(t, got, "%q must be accepted", s)
	}
	got, err := dfa.ParseBinary(seq("ciar"), true)
	require.NoError(t, err)
	assert.False(t, got, "\"ciar\" must be rejected")

	// "x" labels no transition anywhere, so strict parsing falls off
	// the automaton and non-strict parsing rejects.
	_, err = dfa.ParseBinary(seq("ciax"), true)
	assert.ErrorIs(t, err, automata.ErrImpossibleTransition)
	lax, err := dfa.ParseBinary(seq("ciax"), false)
	require.NoError(t, err)
	assert.False(t, lax)

	// Same for a sequence entirely outside the alphabet.
	_, err = dfa.ParseBinary(seq("qqq"), true)
	assert.ErrorIs(t, err, automata.ErrImpossibleTransition)
	lax, err = dfa.ParseBinary(seq("qqq"), false)
	require.NoError(t, err)
	assert.False(t, lax)
}

func TestIdentify_PureConflict(t *testing.T) {
	// One accepting and one rejecting terminal: the clique has at
	// least two members, so one single state is never attempted and
	// two states suffice.
	apta := automata.NewAPTA[string]()
	apta.Accept(seq("a"))
	apta.Reject(seq("b"))

	cg := NewConstraintsGraph(apta)
	clique := cg.Clique()
	require.GreaterOrEqual(t, len(clique), 2)

	backend := &countingBackend{inner: GophersatBackend{}}
	opts := testOptions(t)
	opts.Backend = backend

	dfa, err := IdentifyWith(context.Background(), apta, cg, clique, opts)
	require.NoError(t, err)
	require.NotNil(t, dfa)
	assert.Equal(t, 2, dfa.Len())
	assert.Equal(t, 1, backend.calls, "k=1 must never reach the oracle")
}

func TestIdentify_StartsAtCliqueSize(t *testing.T) {
	apta := cliqueThreeAPTA()
	cg := NewConstraintsGraph(apta)
	clique := cg.Clique()
	require.Len(t, clique, 3)

	backend := &countingBackend{inner: GophersatBackend{}}
	opts := testOptions(t)
	opts.Backend = backend

	dfa, err := IdentifyWith(context.Background(), apta, cg, clique, opts)
	require.NoError(t, err)
	require.NotNil(t, dfa)
	assert.Equal(t, 3, dfa.Len(), "a three-state DFA exists for this sample")
	assert.Equal(t, 1, backend.calls, "the loop starts at the clique size and succeeds at once")
}

func TestIdentify_EncodingMonotonicity(t *testing.T) {
	// If k colors admit a model, so do k+1.
	apta := toyAPTA()
	cg := NewConstraintsGraph(apta)
	clique := cg.Clique()

	s := NewSolver(nil, t.TempDir(), time.Minute, nil)

	var satAt int
	for k := len(clique); ; k++ {
		require.Less(t, k, 20, "the toy grammar must be identifiable well below 20 states")
		enc, err := NewProblemEncoding(apta, cg, clique, k)
		require.NoError(t, err)
		enc.GenerateClauses()
		enc.GenerateRedundantClauses()
		solution, err := s.Solve(context.Background(), enc)
		require.NoError(t, err)
		if solution != nil {
			satAt = k
			break
		}
	}

	enc, err := NewProblemEncoding(apta, cg, clique, satAt+1)
	require.NoError(t, err)
	enc.GenerateClauses()
	enc.GenerateRedundantClauses()
	solution, err := s.Solve(context.Background(), enc)
	require.NoError(t, err)
	assert.NotNil(t, solution, "satisfiable at k=%d but not at k=%d", satAt, satAt+1)
}

func TestIdentify_MinimalEncodingAlsoWorks(t *testing.T) {
	opts := testOptions(t)
	opts.RedundantClauses = false

	dfa, err := Identify(context.Background(), toyAPTA(), opts)
	require.NoError(t, err)
	require.NotNil(t, dfa)

	for _, s := range []string{"ciao", "ci", "ca", ""} {
		got, err := dfa.ParseBinary(seq(s), true)
		require.NoError(t, err)
		assert.True(t, got)
	}
	got, err := dfa.ParseBinary(seq("ciar"), true)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestIdentify_KMaxExhausted(t *testing.T) {
	apta := automata.NewAPTA[string]()
	apta.Accept(seq("a"))
	apta.Reject(seq("b"))

	opts := testOptions(t)
	opts.KMax = 2 // the clique already has two members: nothing to try

	_, err := Identify(context.Background(), apta, opts)
	assert.ErrorIs(t, err, ErrKMaxExhausted)
}

func TestIdentify_BadInput(t *testing.T) {
	apta := toyAPTA()
	cg := NewConstraintsGraph(apta)

	_, err := IdentifyWith(context.Background(), toyAPTA(), cg, cg.Clique(), testOptions(t))
	assert.ErrorIs(t, err, ErrBadInput)

	_, err = Identify(context.Background(), nil, testOptions(t))
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestIdentify_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := testOptions(t)
	_, err := Identify(ctx, toyAPTA(), opts)
	if err == nil {
		t.Skip("solver finished before the canceled context was observed")
	}
	assert.True(t, errors.Is(err, ErrSolverTimeout) || errors.Is(err, context.Canceled),
		"err = %v", err)
}
