package tracemanager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cipollone/trace-dfa/internal/parallel"
	"github.com/cipollone/trace-dfa/pkg/automata"
)

// Trace is one labeled example sequence.
type Trace struct {
	Labels   []string
	Accepted bool
}

// accepted applies the naming convention: files with "OK" in their
// base name carry positive examples, everything else negative ones.
func accepted(path string) bool {
	return strings.Contains(filepath.Base(path), "OK")
}

// listXes returns the .xes files directly inside dir, sorted.
func listXes(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".xes") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTraces, dir)
	}
	return files, nil
}

// LoadDirectory reads every .xes file directly inside dir, in
// parallel, and returns all traces labeled by the file naming
// convention. Results are ordered by file name, then file order.
func LoadDirectory(ctx context.Context, dir string) ([]Trace, error) {
	files, err := listXes(dir)
	if err != nil {
		return nil, err
	}

	pool := parallel.New(0)
	defer pool.Shutdown()

	perFile := make([][]Trace, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i, path := range files {
		i, path := i, path
		wg.Add(1)
		task := func() {
			defer wg.Done()
			traces, err := ReadTraces(path)
			if err != nil {
				errs[i] = err
				return
			}
			ok := accepted(path)
			out := make([]Trace, len(traces))
			for j, labels := range traces {
				out[j] = Trace{Labels: labels, Accepted: ok}
			}
			perFile[i] = out
		}
		if err := pool.Submit(ctx, task); err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	var all []Trace
	for i := range files {
		if errs[i] != nil {
			return nil, errs[i]
		}
		all = append(all, perFile[i]...)
	}
	return all, nil
}

// FillAPTA loads the directory and extends the tree with every trace.
func FillAPTA(ctx context.Context, tree *automata.APTA[string], dir string) error {
	traces, err := LoadDirectory(ctx, dir)
	if err != nil {
		return err
	}
	for _, tr := range traces {
		if tr.Accepted {
			tree.Accept(tr.Labels)
		} else {
			tree.Reject(tr.Labels)
		}
	}
	return nil
}

// BuildAPTA loads the directory into a fresh tree.
func BuildAPTA(ctx context.Context, dir string) (*automata.APTA[string], error) {
	tree := automata.NewAPTA[string]()
	if err := FillAPTA(ctx, tree, dir); err != nil {
		return nil, err
	}
	return tree, nil
}

// CompareOnTraces runs every model over every trace under strict
// parsing and returns the fraction of traces on which all models
// agree. A strict parse falling off any model is fatal: the
// ErrImpossibleTransition is returned to the caller.
func CompareOnTraces(traces [][]string, models ...automata.Automaton[string]) (float64, error) {
	if len(traces) == 0 || len(models) == 0 {
		return 0, nil
	}

	agreeing := 0
	for _, trace := range traces {
		first, err := models[0].ParseBinary(trace, true)
		if err != nil {
			return 0, fmt.Errorf("comparing trace %v: %w", trace, err)
		}
		agree := true
		for _, model := range models[1:] {
			got, err := model.ParseBinary(trace, true)
			if err != nil {
				return 0, fmt.Errorf("comparing trace %v: %w", trace, err)
			}
			if got != first {
				agree = false
				break
			}
		}
		if agree {
			agreeing++
		}
	}
	return float64(agreeing) / float64(len(traces)), nil
}

// TestDFA builds an APTA from the test directory and returns the
// fraction of test traces on which the DFA agrees with it.
func TestDFA(ctx context.Context, dfa *automata.DFA[string], dir string) (float64, error) {
	traces, err := LoadDirectory(ctx, dir)
	if err != nil {
		return 0, err
	}
	tree := automata.NewAPTA[string]()
	sequences := make([][]string, len(traces))
	for i, tr := range traces {
		sequences[i] = tr.Labels
		if tr.Accepted {
			tree.Accept(tr.Labels)
		} else {
			tree.Reject(tr.Labels)
		}
	}
	return CompareOnTraces(sequences, tree, dfa)
}
