package identification

import (
	"context"
	"fmt"
	"os"

	"github.com/crillab/gophersat/solver"
)

// GophersatBackend decides DIMACS files with the in-process gophersat
// CDCL solver. It is the default oracle: no external binary, and the
// whole identification loop stays testable in one process.
type GophersatBackend struct {
	// Verbose makes the underlying solver print search statistics.
	Verbose bool
}

// Solve parses the DIMACS file and runs the search. A formula the
// parser already reduces to a contradiction reports as plain unsat.
// On context expiry the search goroutine is abandoned; gophersat has
// no interruption hook, and a timeout is fatal to the run anyway.
func (b GophersatBackend) Solve(ctx context.Context, path string) (bool, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", ErrSolverIO, err)
	}
	pb, err := solver.ParseCNF(f)
	f.Close()
	if err != nil {
		return false, nil, fmt.Errorf("%w: parsing %s: %v", ErrSolverIO, path, err)
	}

	s := solver.New(pb)
	s.Verbose = b.Verbose

	done := make(chan solver.Status, 1)
	go func() {
		done <- s.Solve()
	}()

	select {
	case <-ctx.Done():
		return false, nil, fmt.Errorf("%w: %v", ErrSolverTimeout, ctx.Err())
	case status := <-done:
		if status != solver.Sat {
			return false, nil, nil
		}
		assignment := s.Model()
		model := make([]int, len(assignment))
		for i, value := range assignment {
			if value {
				model[i] = i + 1
			} else {
				model[i] = -(i + 1)
			}
		}
		return true, model, nil
	}
}
