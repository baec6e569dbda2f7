package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/carousel/timing"
	"github.com/sarchlab/carousel/tracing"
)

type traceOptions struct {
	where   string
	what    string
	from    time.Duration
	to      time.Duration
	steps   bool
	summary bool
}

var traceOpts traceOptions

var traceCmd = &cobra.Command{
	Use:   "trace <trace.sqlite3>",
	Short: "List the transitions recorded in a SQLite trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return readTrace(cmd.OutOrStdout(), args[0], traceOpts)
	},
}

func init() {
	traceCmd.Flags().StringVar(&traceOpts.where, "where", "",
		"only show the transitions of this carousel")
	traceCmd.Flags().StringVar(&traceOpts.what, "what", "",
		"only show this action (auto, next, prev, goto)")
	traceCmd.Flags().DurationVar(&traceOpts.from, "from", 0,
		"only show transitions that end at or after this time")
	traceCmd.Flags().DurationVar(&traceOpts.to, "to", 0,
		"only show transitions that start at or before this time")
	traceCmd.Flags().BoolVar(&traceOpts.steps, "steps", false,
		"print the steps of every transition")
	traceCmd.Flags().BoolVar(&traceOpts.summary, "summary", false,
		"print transition statistics at the end")
	rootCmd.AddCommand(traceCmd)
}

func readTrace(out io.Writer, path string, opts traceOptions) error {
	r, err := tracing.NewSQLiteTraceReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer r.Close()

	locations, err := r.ListLocations()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "carousels: %s\n", strings.Join(locations, ", "))

	query := tracing.TaskQuery{
		What:      opts.what,
		Where:     opts.where,
		WithSteps: opts.steps || opts.summary,
	}

	if opts.from > 0 || opts.to > 0 {
		query.EnableTimeRange = true
		query.StartTime = timing.Ms(opts.from)
		query.EndTime = timing.VTimeInMs(^uint64(0) >> 1)

		if opts.to > 0 {
			query.EndTime = timing.Ms(opts.to)
		}
	}

	tasks, err := r.ListTasks(query)
	if err != nil {
		return err
	}

	stats := tracing.NewTransitionStats(tracing.All)

	for _, task := range tasks {
		fmt.Fprintf(out, "%8dms %8dms %-5s %-14s %s\n",
			task.StartTime, task.EndTime, task.What, task.Where, task.ID)

		stats.StartTask(task)

		for _, step := range task.Steps {
			if opts.steps {
				fmt.Fprintf(out, "    %8dms %s\n", step.Time, step.What)
			}

			stepped := task
			stepped.Steps = []tracing.TaskStep{step}
			stats.StepTask(stepped)
		}

		stats.EndTask(task)
	}

	if opts.summary {
		printSummary(out, stats)
	}

	return nil
}
