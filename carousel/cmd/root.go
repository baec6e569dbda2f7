// Package cmd provides the command-line interface for the carousel tools.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sarchlab/carousel/config"
)

var (
	configPath string
	verbose    bool

	appConfig *config.Config
	logger    = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Carousel drives paged item rotations in virtual or wall-clock time.",
	Long: `Carousel drives paged item rotations such as hero carousels, ` +
		`client sliders and testimonial sliders. It can replay scripted ` +
		`scenarios, serve live carousels with an HTTP monitor, and preview ` +
		`them in the terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "carousel.yaml",
		"path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log every hook at debug level")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Trace writers registered with atexit are flushed on the way
// out.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func setup(*cobra.Command, []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	appConfig = cfg

	l, err := newLogger(verbose, cfg.Logging.Level)
	if err != nil {
		return err
	}

	logger = l

	return nil
}

func newLogger(verbose bool, level string) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}
