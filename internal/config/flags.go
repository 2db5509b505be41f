// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"math"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "osgstat [flags] [path...]",
		Short:         "analyze a scene-graph renderer's stats viewer log",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
// Metric keys may contain spaces; flags taking pairs or triples
// separate the parts with commas.
func configureFlags(flags *pflag.FlagSet) {
	flags.Bool("print-keys", false, "Print a list of all present keys in the input")

	// View selection flags
	flags.StringArray("timeseries", nil, "Chart the given metric over time (repeatable)")
	flags.Bool("timeseries-sum", false, "Add a per-frame sum line for all timeseries metrics")
	flags.StringArray("cumulative-timeseries", nil, "Chart the cumulative sum of the given metric over time (repeatable)")
	flags.Bool("cumulative-timeseries-sum", false, "Add a per-frame sum line for all cumulative timeseries metrics")
	flags.StringArray("hist", nil, "Chart a histogram of all values of the given metric (repeatable)")
	flags.StringArray("hist-ratio", nil, "Chart a histogram of the ratio of two metrics, as <num>,<den> (repeatable)")
	flags.StringArray("stdev-hist", nil, "Chart a histogram of a metric windowed to median±stdev/2·scale, as <key>,<scale> (repeatable)")
	flags.StringArray("plot", nil, "Chart the aggregated relation of two metrics, as <x>,<y>,<mean|median> (repeatable)")
	flags.StringArray("stats", nil, "Print a summary statistics table row for the given metric (repeatable)")
	flags.Bool("stats-sum", false, "Add a per-frame sum row to the stats table")

	// Frame range flags
	flags.Int("begin-frame", 0, "Start processing from this frame")
	flags.Int("end-frame", math.MaxInt, "End processing at this frame")

	// Output flags
	flags.StringP("output", "o", ".", "Directory to write chart files into")
	flags.String("format", "png", "Chart image format: png, svg or pdf")
	flags.Bool("html", false, "Emit the stats table as HTML instead of text")
	flags.String("config", "", "Path to a YAML or JSON report configuration file")
}
