package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/kinsim/internal/logging"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool
	logFile  string

	logger   *slog.Logger
	closeLog = func() error { return nil }
)

// main registers the command tree and exits with status 1 when a command
// fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "kinsim",
		Short:         "deterministic chemical kinetics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, c, err := logging.New(logging.Config{Level: logLevel, JSON: logJSON, File: logFile, Service: "kinsim"})
			if err != nil {
				return err
			}
			logger, closeLog = l, c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLog()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON even on a terminal")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append JSON logs to this file")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newModelsCmd(),
		newPresetsCmd(),
		newValidateCmd(),
		newLiveCmd(),
		newScenarioCmd(),
		newSweepCmd(),
		newCompareCmd(),
		newBenchCmd(),
		newPhaseCmd(),
		newAnalyzeCmd(),
		newFitCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		closeLog()
		os.Exit(1)
	}
}
