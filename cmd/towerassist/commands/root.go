package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"towerassist/internal/components/chrono"
	"towerassist/internal/components/telemetry"
	"towerassist/lib/serviceutil"
	libtelemetry "towerassist/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	noConfirm  bool
	dateFlag   string
	verbose    bool
)

// set up by the root command before any subcommand runs
var (
	config  Config
	clock   chrono.API
	tel     telemetry.API = telemetry.SlogAPI{}
	tracing libtelemetry.Telemetry
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "towerassist.json5", "The config file to read.")
	flags.BoolVar(&noConfirm, "no-confirm", false, "Submit without asking for confirmation.")
	flags.StringVar(&dateFlag, "date", "", `The day to act on, like "2024-02-26" or "last friday". Defaults to today.`)
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug information and dump http exchanges.")
}

var rootCmd = &cobra.Command{
	Use:   "towerassist",
	Short: "towerassist fills in tower.im weekly reports and records overtime from the command line.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(os.Stderr, verbose)

		var err error
		config, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		if noConfirm {
			config.NoConfirm = true
		}

		clock, err = chrono.NewStandardImpl(config.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", config.Timezone, err)
		}

		tracing, err = libtelemetry.SetupFromEnv(cmd.Context(), "towerassist")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			tel.ReportWarning("telemetry.setup", err)
		}
		tel = telemetry.NewMetricsAPI(telemetry.SlogAPI{}, libtelemetry.Meter("towerassist"))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()
	},
	SilenceUsage: true,
}

func shutdownTelemetry() {
	err := tracing.Shutdown(context.Background())
	if err != nil {
		tel.ReportWarning("telemetry.shutdown", err)
	}
	tracing = libtelemetry.Telemetry{}
}

var exitFatal = serviceutil.Fatal

// fatal flushes telemetry and exits, os.Exit skips PersistentPostRun.
func fatal(message string, err error) {
	shutdownTelemetry()
	exitFatal(message, err)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
