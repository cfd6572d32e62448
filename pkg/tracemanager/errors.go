package tracemanager

import "errors"

// Sentinel errors for the tracemanager package.
var (
	// ErrNoTraces indicates an input directory holding no .xes file.
	ErrNoTraces = errors.New("no trace files")

	// ErrNotADirectory indicates a path that is not a directory.
	ErrNotADirectory = errors.New("not a directory")
)
