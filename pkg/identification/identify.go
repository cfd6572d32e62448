package identification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cipollone/trace-dfa/pkg/automata"
)

// Options configure one identification run.
type Options struct {
	// KMax is the exclusive ceiling on the number of DFA states tried.
	KMax int
	// Timeout bounds each single oracle invocation.
	Timeout time.Duration
	// RedundantClauses adds the optional clause set: slower to encode,
	// usually faster to solve, and the reconstructed DFA carries a
	// complete transition function.
	RedundantClauses bool
	// ScratchDir hosts the DIMACS scratch file; empty means the system
	// temporary directory.
	ScratchDir string
	// Backend is the SAT oracle; nil means the in-process gophersat
	// solver.
	Backend Backend
	// Logger receives progress events; nil means slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns the reference configuration: up to 100
// states, one hour per oracle call, redundant clauses on.
func DefaultOptions() Options {
	return Options{
		KMax:             100,
		Timeout:          time.Hour,
		RedundantClauses: true,
	}
}

// Identify learns the smallest DFA consistent with the training APTA.
// It derives the constraints graph and clique itself and then runs
// IdentifyWith.
func Identify(ctx context.Context, apta *automata.APTA[string], opts Options) (*automata.DFA[string], error) {
	if apta == nil {
		return nil, fmt.Errorf("%w: nil apta", ErrBadInput)
	}
	cg := NewConstraintsGraph(apta)
	return IdentifyWith(ctx, apta, cg, cg.Clique(), opts)
}

// IdentifyWith runs the identification loop over a prepared
// constraints graph and clique. Starting at the clique size is sound:
// any smaller coloring is forbidden by the clique edges. The color
// count then grows one by one until the encoding is satisfiable, and
// the first model is reconstructed into a DFA. When no color count
// below KMax works the loop fails with ErrKMaxExhausted.
func IdentifyWith(ctx context.Context, apta *automata.APTA[string], cg *ConstraintsGraph,
	clique []int, opts Options) (*automata.DFA[string], error) {

	if apta == nil || cg == nil {
		return nil, fmt.Errorf("%w: nil apta or constraints graph", ErrBadInput)
	}
	if !cg.BuiltOn(apta) {
		return nil, fmt.Errorf("%w: constraints graph built on a different apta", ErrBadInput)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.KMax <= 0 {
		opts.KMax = DefaultOptions().KMax
	}

	solver := NewSolver(opts.Backend, opts.ScratchDir, opts.Timeout, logger)

	start := len(clique)
	if start < 1 {
		// No labeled states at all: a single color is still a DFA.
		start = 1
	}
	logger.Info("identification starting",
		"states", apta.Len(),
		"clique", len(clique),
		"k_max", opts.KMax)

	for k := start; k < opts.KMax; k++ {
		encoding, err := NewProblemEncoding(apta, cg, clique, k)
		if err != nil {
			return nil, err
		}
		encoding.GenerateClauses()
		if opts.RedundantClauses {
			encoding.GenerateRedundantClauses()
		}

		solution, err := solver.Solve(ctx, encoding)
		if err != nil {
			return nil, fmt.Errorf("solving with %d colors: %w", k, err)
		}
		if solution == nil {
			logger.Info("unsatisfiable", "colors", k)
			continue
		}

		logger.Info("satisfiable", "colors", k, "true_variables", len(solution))
		return Reconstruct(solution)
	}

	return nil, fmt.Errorf("%w: no consistent DFA below %d states", ErrKMaxExhausted, opts.KMax)
}
