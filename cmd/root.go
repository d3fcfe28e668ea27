// Package cmd provides the boostctl Cobra CLI: one subcommand per
// boosting algorithm, each reading a training (and optional test) CSV or
// SVMLight sample, running the booster to completion, and reporting the
// resulting training/test loss.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "boostctl",
	Short: "A library of boosting algorithms for binary classification and regression",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the root command; main.go's sole responsibility is to
// call this and translate a non-nil error into a nonzero exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(adaboostCmd)
	rootCmd.AddCommand(adaboostvCmd)
	rootCmd.AddCommand(smoothboostCmd)
	rootCmd.AddCommand(gbmCmd)
	rootCmd.AddCommand(graphsepCmd)
	rootCmd.AddCommand(lpboostCmd)
	rootCmd.AddCommand(softboostCmd)
	rootCmd.AddCommand(totalboostCmd)
	rootCmd.AddCommand(erlpboostCmd)
	rootCmd.AddCommand(cerlpboostCmd)
	rootCmd.AddCommand(mlpboostCmd)
}
