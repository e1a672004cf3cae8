/*
Copyright © 2025 The kattis-grind Authors
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kattis-grind",
	Short: "Fetch, test and submit Kattis problems from your terminal",
	Long: `kattis-grind - grind Kattis problems without leaving the terminal

Fetch a problem with its samples, test your solution locally, pick unseen
problems at random within a difficulty band and submit to the judge.

Quick Start:
  1. Configure:         kattis-grind config init   (or download your .kattisrc)
  2. Pick a problem:    kattis-grind rand --fetch
  3. Test locally:      kattis-grind test kattis_problems/<id>/<id>.py
  4. Submit solution:   kattis-grind submit kattis_problems/<id>/<id>.py

For more information, visit: https://github.com/chrismacdonaldw/kattis-grind`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	// failed samples and rejected submissions were already reported in full
	if !isReported(err) {
		fmt.Fprintln(os.Stderr, red.Render("✗ "+err.Error()))
	}
	if hint := kgerrors.Hint(err); hint != "" {
		fmt.Fprintln(os.Stderr, gray.Render("\n→ "+hint))
	}
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetLevel(log.WarnLevel)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and decisions to stderr")
	config.Init()
}
