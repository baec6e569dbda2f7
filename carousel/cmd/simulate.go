package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/scenario"
	"github.com/sarchlab/carousel/tracing"
)

type simulateOptions struct {
	trace     string
	traceFile string
	json      bool
	summary   bool
}

var simOpts simulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Replay a scripted scenario in virtual time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}

		return simulate(cmd.OutOrStdout(), s, simOpts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simOpts.trace, "trace", "",
		"write transitions as a trace ("+strings.Join(tracing.Formats, "|")+")")
	simulateCmd.Flags().StringVar(&simOpts.traceFile, "trace-file", "",
		"trace file name without extension; a unique name is picked if empty")
	simulateCmd.Flags().BoolVar(&simOpts.json, "json", false,
		"print frames as JSON lines")
	simulateCmd.Flags().BoolVar(&simOpts.summary, "summary", false,
		"print transition statistics at the end")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(out io.Writer, s *scenario.Scenario, opts simulateOptions) error {
	r := scenario.NewRunner(s, hooking.NewLogHook(logger))

	var dbTracer *tracing.DBTracer

	if opts.trace != "" {
		writer, err := tracing.NewTraceWriter(opts.trace, opts.traceFile)
		if err != nil {
			return err
		}

		if dbTracer, err = tracing.NewDBTracer(writer); err != nil {
			return err
		}

		tracing.CollectTrace(r.Controller(), dbTracer)

		if p, ok := writer.(interface{ Path() string }); ok {
			logger.Info("tracing transitions", zap.String("file", p.Path()))
		}
	}

	stats := tracing.NewTransitionStats(tracing.All)
	if opts.summary {
		tracing.CollectTrace(r.Controller(), stats)
	}

	frames, runErr := r.Run()

	if err := printFrames(out, frames, opts.json); err != nil {
		return err
	}

	if opts.summary {
		printSummary(out, stats)
	}

	if dbTracer != nil {
		if err := dbTracer.Terminate(); err != nil && runErr == nil {
			runErr = err
		}
	}

	return runErr
}

func printFrames(out io.Writer, frames []scenario.Frame, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		for _, f := range frames {
			if err := enc.Encode(f); err != nil {
				return err
			}
		}

		return nil
	}

	for _, f := range frames {
		if _, err := fmt.Fprintln(out, f.String()); err != nil {
			return err
		}
	}

	return nil
}

func printSummary(out io.Writer, stats *tracing.TransitionStats) {
	total := stats.Total()
	fmt.Fprintf(out, "transitions: %d, average duration: %dms\n",
		total.Started, total.AverageTime())

	for _, action := range stats.Actions() {
		s := stats.Of(action)
		fmt.Fprintf(out, "  %-5s started %d, settled %d, aborted %d\n",
			action, s.Started, s.Settled, s.Aborted)
	}
}
