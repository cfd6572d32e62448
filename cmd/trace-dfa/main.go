// Command trace-dfa learns the smallest DFA consistent with a corpus
// of XES traces and measures its consistency on a held-out corpus.
//
// Usage:
//
//	trace-dfa [flags] TRAIN_DIR TEST_DIR
//
// Files whose name contains "OK" provide accepted traces; every other
// .xes file provides rejected ones.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cipollone/trace-dfa/pkg/automata"
	"github.com/cipollone/trace-dfa/pkg/identification"
	"github.com/cipollone/trace-dfa/pkg/tracemanager"
)

// fileConfig mirrors the flag set for --config files.
type fileConfig struct {
	KMax       *int    `yaml:"kmax"`
	Timeout    *string `yaml:"timeout"`
	Redundant  *bool   `yaml:"redundant_clauses"`
	ScratchDir *string `yaml:"scratch_dir"`
	Solver     *string `yaml:"solver"`
	SolverBin  *string `yaml:"solver_bin"`
	LatexDir   *string `yaml:"latex_dir"`
}

type cliOptions struct {
	kmax       int
	timeout    time.Duration
	redundant  bool
	scratchDir string
	solver     string
	solverBin  string
	latexDir   string
	configPath string
	verbose    bool
}

func main() {
	opts := cliOptions{}

	root := &cobra.Command{
		Use:   "trace-dfa TRAIN_DIR TEST_DIR",
		Short: "Learn the smallest DFA consistent with labeled XES traces",
		Long: "trace-dfa builds a prefix tree acceptor from the training traces,\n" +
			"encodes DFA identification as graph coloring in CNF, and grows the\n" +
			"state count until a SAT oracle finds a model. The learned automaton\n" +
			"is then checked against the testing traces.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0], args[1])
		},
	}

	defaults := identification.DefaultOptions()
	root.Flags().IntVar(&opts.kmax, "kmax", defaults.KMax, "ceiling on the number of DFA states")
	root.Flags().DurationVar(&opts.timeout, "timeout", defaults.Timeout, "timeout of each solver call")
	root.Flags().BoolVar(&opts.redundant, "redundant", true, "emit redundant clauses (complete transition function)")
	root.Flags().StringVar(&opts.scratchDir, "scratch-dir", "", "directory for the DIMACS scratch file (default: system temp)")
	root.Flags().StringVar(&opts.solver, "solver", "gophersat", "SAT oracle: gophersat or exec")
	root.Flags().StringVar(&opts.solverBin, "solver-bin", "", "solver binary for --solver=exec")
	root.Flags().StringVar(&opts.latexDir, "latex-dir", "", "write LaTeX renderings of the APTA and DFA here")
	root.Flags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.Flags().BoolVar(&opts.verbose, "verbose", false, "debug logging")

	if err := root.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

// applyConfig overlays a YAML file onto the flag values. Flags given
// on the command line keep their value only when the file omits the
// key; the file wins otherwise, matching how the tool is deployed
// with per-corpus configuration.
func applyConfig(opts *cliOptions) error {
	if opts.configPath == "" {
		return nil
	}
	data, err := os.ReadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", opts.configPath, err)
	}

	if cfg.KMax != nil {
		opts.kmax = *cfg.KMax
	}
	if cfg.Timeout != nil {
		d, err := time.ParseDuration(*cfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing config timeout: %w", err)
		}
		opts.timeout = d
	}
	if cfg.Redundant != nil {
		opts.redundant = *cfg.Redundant
	}
	if cfg.ScratchDir != nil {
		opts.scratchDir = *cfg.ScratchDir
	}
	if cfg.Solver != nil {
		opts.solver = *cfg.Solver
	}
	if cfg.SolverBin != nil {
		opts.solverBin = *cfg.SolverBin
	}
	if cfg.LatexDir != nil {
		opts.latexDir = *cfg.LatexDir
	}
	return nil
}

func buildBackend(opts cliOptions) (identification.Backend, error) {
	switch opts.solver {
	case "gophersat":
		return identification.GophersatBackend{Verbose: opts.verbose}, nil
	case "exec":
		if opts.solverBin == "" {
			return nil, fmt.Errorf("--solver=exec requires --solver-bin")
		}
		return identification.ExecBackend{Path: opts.solverBin}, nil
	default:
		return nil, fmt.Errorf("unknown solver %q", opts.solver)
	}
}

func run(ctx context.Context, opts cliOptions, trainDir, testDir string) error {
	if err := applyConfig(&opts); err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend, err := buildBackend(opts)
	if err != nil {
		return err
	}

	// Learning phase.
	apta, err := tracemanager.BuildAPTA(ctx, trainDir)
	if err != nil {
		return fmt.Errorf("loading training traces: %w", err)
	}
	logger.Info("training apta built", "states", apta.Len())
	if opts.latexDir != "" {
		path := filepath.Join(opts.latexDir, "apta.tex")
		if err := automata.SaveLatex(apta, path, 1); err != nil {
			return err
		}
	}

	cg := identification.NewConstraintsGraph(apta)
	clique := cg.Clique()
	if opts.latexDir != "" {
		path := filepath.Join(opts.latexDir, "constraints.tex")
		if err := automata.SaveLatex(cg, path, 1); err != nil {
			return err
		}
	}

	dfa, err := identification.IdentifyWith(ctx, apta, cg, clique, identification.Options{
		KMax:             opts.kmax,
		Timeout:          opts.timeout,
		RedundantClauses: opts.redundant,
		ScratchDir:       opts.scratchDir,
		Backend:          backend,
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	color.Green("learned a DFA with %d states", dfa.Len())
	if opts.latexDir != "" {
		path := filepath.Join(opts.latexDir, "dfa.tex")
		if err := automata.SaveLatex(dfa, path, 2); err != nil {
			return err
		}
	}

	// Testing phase.
	score, err := tracemanager.TestDFA(ctx, dfa, testDir)
	if err != nil {
		return fmt.Errorf("loading testing traces: %w", err)
	}
	fmt.Printf("Consistent in %.1f%% of traces.\n", score*100)
	return nil
}
