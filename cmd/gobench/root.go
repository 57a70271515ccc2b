package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gobench/internal/telemetry"
)

var exit = os.Exit

var (
	cfgFile  string
	debugLog bool
	logFile  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gobench",
	Short: "gobench: a declarative microbenchmark harness",
	Long: `gobench discovers registered benchmark functions, runs them under
controlled timing and persists aggregated statistics joined with run-level
environment facts for historical comparison.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		telemetry.InitLogger(debugLog, logFile)
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./gobench.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
}
