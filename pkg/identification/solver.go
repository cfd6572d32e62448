package identification

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cipollone/trace-dfa/pkg/automata"
	"github.com/cipollone/trace-dfa/pkg/cnf"
)

// Solution is the satisfying assignment of one encoding, reduced to
// the positively-assigned typed variables. A nil Solution means the
// encoding is unsatisfiable.
type Solution []EncodingVariable

// Backend decides a DIMACS CNF file. Implementations report
// satisfiability and, when satisfiable, the model as one signed id per
// variable. A timeout surfaces as ErrSolverTimeout; a trivial
// contradiction detected before search is plain unsatisfiability.
type Backend interface {
	Solve(ctx context.Context, path string) (sat bool, model []int, err error)
}

// Solver bridges the encoding to a SAT oracle through a scratch DIMACS
// file. The file name is unique per Solver and overwritten on every
// call, so one learning run reuses a single scratch file across its
// iterations.
type Solver struct {
	backend Backend
	scratch string
	timeout time.Duration
	logger  *slog.Logger
}

// NewSolver returns a solver writing its scratch file under dir. A nil
// backend defaults to the in-process gophersat oracle; a zero timeout
// defaults to one hour; a nil logger defaults to slog.Default.
func NewSolver(backend Backend, dir string, timeout time.Duration, logger *slog.Logger) *Solver {
	if backend == nil {
		backend = GophersatBackend{}
	}
	if dir == "" {
		dir = os.TempDir()
	}
	if timeout <= 0 {
		timeout = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{
		backend: backend,
		scratch: filepath.Join(dir, fmt.Sprintf("trace-dfa-%s.cnf", uuid.NewString())),
		timeout: timeout,
		logger:  logger,
	}
}

// ScratchFile returns the path of the scratch DIMACS file.
func (s *Solver) ScratchFile() string {
	return s.scratch
}

// Solve writes the encoding to the scratch file, invokes the oracle,
// and translates positive model ids back to typed variables, each with
// its assignment slot set to true. It returns a nil Solution without
// error on unsatisfiability; timeouts and IO failures come back as
// ErrSolverTimeout and ErrSolverIO.
func (s *Solver) Solve(ctx context.Context, enc *ProblemEncoding) (Solution, error) {
	saver := cnf.NewDimacsSaver(enc.Formula())
	if err := saver.SaveFile(s.scratch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverIO, err)
	}
	s.logger.Debug("dimacs written",
		"path", s.scratch,
		"variables", saver.NumVars(),
		"clauses", saver.NumClauses())

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	sat, model, err := s.backend.Solve(ctx, s.scratch)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("oracle returned", "sat", sat, "elapsed", time.Since(start))

	if !sat {
		return nil, nil
	}

	solution := make(Solution, 0, len(model))
	for _, lit := range model {
		if lit <= 0 {
			continue
		}
		v, ok := saver.VarByID(lit)
		if !ok {
			return nil, fmt.Errorf("%w: model id %d unknown to the dimacs map", ErrSolverIO, lit)
		}
		ev, ok := enc.VariableFor(v)
		if !ok {
			return nil, fmt.Errorf("%w: variable %s has no encoding role", ErrSolverIO, v.Name())
		}
		ev.Base().Assign(true)
		solution = append(solution, ev)
	}
	return solution, nil
}

// Reconstruct maps a solution back into a DFA: z variables mark
// accepting colors, y variables become transitions, the x_init
// variable selects the initial color, plain x variables are ignored.
// A nil solution returns a nil DFA.
func Reconstruct(solution Solution) (*automata.DFA[string], error) {
	if solution == nil {
		return nil, nil
	}
	builder := automata.NewDFABuilder[string]()
	for _, v := range solution {
		if err := v.ExtendDFA(builder); err != nil {
			return nil, fmt.Errorf("reconstructing dfa: %w", err)
		}
	}
	dfa, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("reconstructing dfa: %w", err)
	}
	return dfa, nil
}
