package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "sparkline"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Bounded live-series core with statistics and plot mapping",
		Version: version,
		Long: `sparkline maintains a bounded, concurrently-updated numeric window and
derives descriptive statistics and screen-space coordinates from it.

The 'feed' subcommand drives the core with a synthetic sample stream and
logs the statistics it derives, for demos and soak testing.`,
	}

	rootCmd.AddCommand(feedCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
