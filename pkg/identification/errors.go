package identification

import "errors"

// Sentinel errors for the identification package.
var (
	// ErrBadInput indicates invalid caller input: a constraints graph
	// built on a different APTA, too few colors, or an empty problem.
	ErrBadInput = errors.New("bad input")

	// ErrSolverTimeout indicates the SAT oracle exceeded the caller's
	// timeout. Fatal to the current run.
	ErrSolverTimeout = errors.New("solver timeout")

	// ErrSolverIO indicates a failure writing or reading the DIMACS
	// scratch file, or talking to an external solver process.
	ErrSolverIO = errors.New("solver io")

	// ErrKMaxExhausted indicates the identification loop reached its
	// state ceiling without a satisfying assignment.
	ErrKMaxExhausted = errors.New("k_max exhausted")
)
