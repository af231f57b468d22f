// Command metaspline replays point edits against a metadata store and prints
// the resulting per-point metadata.
//
// Usage:
//
//	metaspline run --schema road.yaml --script edits.yaml
//	metaspline run --schema road.yaml --script edits.yaml --snapshot
//
// A script names the initial number of points, the spline's loop settings,
// and a list of edits:
//
//	points: 3
//	closed_loop: false
//	ops:
//	  - {op: set, index: 2, name: speed, value: 50}
//	  - {op: insert, index: 2, t: 0.5}
//	  - {op: default, name: speed, value: 40}
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "metaspline",
		Short:         "Inspect spline point metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log store diagnostics at debug level")
	root.AddCommand(newRunCmd(func(w io.Writer) *slog.Logger {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "metaspline:", err)
		os.Exit(1)
	}
}
