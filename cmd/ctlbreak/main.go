package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/benwilkes9/ctlbreak/internal/config"
	"github.com/benwilkes9/ctlbreak/internal/controlbreak"
	"github.com/benwilkes9/ctlbreak/internal/logfile"
	"github.com/benwilkes9/ctlbreak/internal/preflight"
	"github.com/benwilkes9/ctlbreak/internal/report"
	"github.com/benwilkes9/ctlbreak/internal/rows"
	"github.com/benwilkes9/ctlbreak/internal/scaffold"
	"github.com/benwilkes9/ctlbreak/internal/summary"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ctlbreak",
		Short:         "Grouped subtotals over sorted input using control breaks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "C", ".", "directory containing .ctlbreak/config.yaml")

	root.AddCommand(initCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(levelsCmd())
	root.AddCommand(synopsisCmd())
	return root
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <input>",
		Short: "Scaffold .ctlbreak/config.yaml from an input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("reading --config flag: %w", err)
			}
			plain, err := cmd.Flags().GetBool("plain")
			if err != nil {
				return fmt.Errorf("reading --plain flag: %w", err)
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("reading --force flag: %w", err)
			}

			info, err := scaffold.Detect(args[0])
			if err != nil {
				return fmt.Errorf("inspecting input: %w", err)
			}

			if plain {
				err = scaffold.RunPrompts(info, &scaffold.PromptOptions{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()})
			} else {
				err = scaffold.RunForm(info)
			}
			if err != nil {
				return err
			}

			result, err := scaffold.Generate(root, info, force)
			if err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			scaffold.PrintSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().Bool("plain", false, "use line prompts instead of the interactive form")
	cmd.Flags().Bool("force", false, "overwrite an existing config")
	return cmd
}

type reportFlags struct {
	root          string
	input         string
	format        string
	style         string
	traceDir      string
	noColor       bool
	verbose       int
	allowUnsorted bool
	summary       bool
}

func reportCmd() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print subtotals for every group in the configured input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("reading --config flag: %w", err)
			}
			f.root = root
			return runReport(cmd, &f)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input file, - for stdin (default: config input)")
	cmd.Flags().StringVar(&f.format, "format", "", "input format: csv or jsonl (default: config format)")
	cmd.Flags().StringVar(&f.style, "style", report.StyleCSV, "output style: csv or text")
	cmd.Flags().StringVar(&f.traceDir, "trace-dir", "", "write a JSONL trace of every test cycle to this directory")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colour in text output")
	cmd.Flags().CountVarP(&f.verbose, "verbose", "v", "log progress to stderr (repeat for per-break detail)")
	cmd.Flags().BoolVar(&f.allowUnsorted, "allow-unsorted", false, "warn instead of failing when a group reappears")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "print a summary box after the report")
	return cmd
}

func runReport(cmd *cobra.Command, f *reportFlags) error {
	if err := preflight.Check(f.root, f.input); err != nil {
		return err
	}

	cfg, err := config.Load(f.root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	input := f.input
	if input == "" {
		input = cfg.Input
	}
	if input == "" {
		return fmt.Errorf("no input: pass --input or set input in %s", config.Path(f.root))
	}
	if input != "-" && !filepath.IsAbs(input) && f.input == "" {
		input = filepath.Join(f.root, input)
	}
	format := cfg.Format
	if f.format != "" {
		format = f.format
	}

	src, closer, err := rows.Open(input, format)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck // read-only

	opts := &report.Options{
		Style:         f.style,
		NoColor:       f.noColor || color.NoColor,
		AllowUnsorted: f.allowUnsorted,
		Logger:        newLogger(f.verbose),
	}

	if f.traceDir != "" {
		tw, err := logfile.New(f.traceDir)
		if err != nil {
			return fmt.Errorf("opening trace: %w", err)
		}
		defer tw.Close() //nolint:errcheck // trace is best-effort after the run
		opts.Trace = tw
		opts.Logger.Info("tracing", "path", tw.Path(), "run_id", tw.RunID())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	stats, err := report.Run(ctx, cfg, src, cmd.OutOrStdout(), opts)
	if err != nil {
		return err
	}
	if f.summary {
		summary.PrintBox(cmd.OutOrStdout(), stats, time.Since(start), opts.NoColor)
	}
	return nil
}

func newLogger(verbosity int) logr.Logger {
	if verbosity == 0 {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(os.Stderr, prefix, args) //nolint:errcheck // diagnostics
			return
		}
		fmt.Fprintln(os.Stderr, args) //nolint:errcheck // diagnostics
	}, funcr.Options{Verbosity: verbosity - 1})
}

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show the configured levels, minor to major",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("reading --config flag: %w", err)
			}
			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			tr, err := cfg.Tracker()
			if err != nil {
				return err
			}

			name := color.New(color.Bold)
			w := cmd.OutOrStdout()
			if w != os.Stdout {
				name.DisableColor()
			}
			for i := range tr.Levels() {
				l, err := tr.Level(controlbreak.Pos(i + 1))
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%d  %s  %s\n", l.Position, name.Sprint(l.Name), l.Comparator) //nolint:errcheck // display-only
			}
			return nil
		},
	}
}

func synopsisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "synopsis",
		Short: "Run the built-in cities example with explicit test/break/continue calls",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSynopsis(cmd.OutOrStdout())
		},
	}
}
