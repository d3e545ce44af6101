package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rpgo/etfpension/internal/calculation"
)

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// out of package globals.
func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "etfpension",
		Short: "Compare an ETF savings plan with a funded pension under German tax rules",
		Long: `etfpension simulates a monthly ETF savings plan and an insurance-wrapped
funded pension (fondsgebundene Rentenversicherung) on the same contributions
and returns, applying Vorabpauschale, dividend and sale taxation to the ETF
and payout taxation to the pension.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	logger := func(cmd *cobra.Command) calculation.Logger {
		return newLogger(cmd.ErrOrStderr(), verbose)
	}

	root.AddCommand(
		newCompareCmd(logger),
		newMonteCarloCmd(logger),
		newBreakEvenCmd(logger),
		newETFCmd(logger),
		newPensionCmd(logger),
		newRatesCmd(),
		newExampleCmd(),
		newServeCmd(logger),
		newFormatsCmd(),
	)
	return root
}

func newLogger(w io.Writer, verbose bool) calculation.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return calculation.NewSlogLoggerWithHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
