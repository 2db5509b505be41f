// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line
// arguments. File settings apply first; explicitly set flags override
// them.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional report file to
// produce a Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cmd.Usage()
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			cmd.Usage()
			return nil, ErrHelpRequested
		}
	}

	cfg := defaultConfig()
	cfg.ConfigFile = flagSet.Lookup("config").Value.String()

	if cfg.ConfigFile != "" {
		cfgViper := viper.New()
		cfgViper.SetConfigFile(cfg.ConfigFile)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.ConfigFile, err)
		}
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	if args := flagSet.Args(); len(args) > 0 {
		cfg.Paths = args
	}

	return cfg, nil
}

// applyConfigSettings applies settings from a report file to the
// Config. Pair and triple settings use the same comma syntax as the
// flags.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := settings["print_keys"]; ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("print_keys: %w", err)
		}
		cfg.PrintKeys = val
	}
	if raw, ok := settings["timeseries"]; ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("timeseries: %w", err)
		}
		cfg.Timeseries = val
	}
	if raw, ok := settings["timeseries_sum"]; ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("timeseries_sum: %w", err)
		}
		cfg.TimeseriesSum = val
	}
	if raw, ok := settings["cumulative_timeseries"]; ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("cumulative_timeseries: %w", err)
		}
		cfg.CumulativeTimeseries = val
	}
	if raw, ok := settings["cumulative_timeseries_sum"]; ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("cumulative_timeseries_sum: %w", err)
		}
		cfg.CumulativeTimeseriesSum = val
	}
	if raw, ok := settings["hist"]; ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("hist: %w", err)
		}
		cfg.Hist = val
	}
	if raw, ok := settings["hist_ratio"]; ok {
		vals, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("hist_ratio: %w", err)
		}
		cfg.HistRatio = cfg.HistRatio[:0]
		for _, v := range vals {
			spec, err := parseRatio(v)
			if err != nil {
				return err
			}
			cfg.HistRatio = append(cfg.HistRatio, spec)
		}
	}
	if raw, ok := settings["stdev_hist"]; ok {
		vals, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("stdev_hist: %w", err)
		}
		cfg.StdevHist = cfg.StdevHist[:0]
		for _, v := range vals {
			spec, err := parseStdevHist(v)
			if err != nil {
				return err
			}
			cfg.StdevHist = append(cfg.StdevHist, spec)
		}
	}
	if raw, ok := settings["plot"]; ok {
		vals, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		cfg.Plots = cfg.Plots[:0]
		for _, v := range vals {
			spec, err := parsePlot(v)
			if err != nil {
				return err
			}
			cfg.Plots = append(cfg.Plots, spec)
		}
	}
	if raw, ok := settings["stats"]; ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		cfg.Stats = val
	}
	if raw, ok := settings["stats_sum"]; ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("stats_sum: %w", err)
		}
		cfg.StatsSum = val
	}
	if raw, ok := settings["begin_frame"]; ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("begin_frame: %w", err)
		}
		cfg.BeginFrame = val
	}
	if raw, ok := settings["end_frame"]; ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("end_frame: %w", err)
		}
		cfg.EndFrame = val
	}
	if raw, ok := settings["output"]; ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		cfg.Output = val
	}
	if raw, ok := settings["format"]; ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("format: %w", err)
		}
		cfg.Format = val
	}
	if raw, ok := settings["html"]; ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("html: %w", err)
		}
		cfg.HTML = val
	}
	if raw, ok := settings["paths"]; ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("paths: %w", err)
		}
		cfg.Paths = val
	}

	return nil
}

// applyFlagOverrides applies explicitly set flags on top of the
// config-file settings.
func applyFlagOverrides(cfg *Config, flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = applyFlag(cfg, flags, f.Name)
	})
	return err
}

func applyFlag(cfg *Config, flags *pflag.FlagSet, name string) error {
	switch name {
	case "print-keys":
		cfg.PrintKeys, _ = flags.GetBool(name)
	case "timeseries":
		cfg.Timeseries, _ = flags.GetStringArray(name)
	case "timeseries-sum":
		cfg.TimeseriesSum, _ = flags.GetBool(name)
	case "cumulative-timeseries":
		cfg.CumulativeTimeseries, _ = flags.GetStringArray(name)
	case "cumulative-timeseries-sum":
		cfg.CumulativeTimeseriesSum, _ = flags.GetBool(name)
	case "hist":
		cfg.Hist, _ = flags.GetStringArray(name)
	case "hist-ratio":
		vals, _ := flags.GetStringArray(name)
		cfg.HistRatio = cfg.HistRatio[:0]
		for _, v := range vals {
			spec, err := parseRatio(v)
			if err != nil {
				return err
			}
			cfg.HistRatio = append(cfg.HistRatio, spec)
		}
	case "stdev-hist":
		vals, _ := flags.GetStringArray(name)
		cfg.StdevHist = cfg.StdevHist[:0]
		for _, v := range vals {
			spec, err := parseStdevHist(v)
			if err != nil {
				return err
			}
			cfg.StdevHist = append(cfg.StdevHist, spec)
		}
	case "plot":
		vals, _ := flags.GetStringArray(name)
		cfg.Plots = cfg.Plots[:0]
		for _, v := range vals {
			spec, err := parsePlot(v)
			if err != nil {
				return err
			}
			cfg.Plots = append(cfg.Plots, spec)
		}
	case "stats":
		cfg.Stats, _ = flags.GetStringArray(name)
	case "stats-sum":
		cfg.StatsSum, _ = flags.GetBool(name)
	case "begin-frame":
		cfg.BeginFrame, _ = flags.GetInt(name)
	case "end-frame":
		cfg.EndFrame, _ = flags.GetInt(name)
	case "output":
		cfg.Output, _ = flags.GetString(name)
	case "format":
		cfg.Format, _ = flags.GetString(name)
	case "html":
		cfg.HTML, _ = flags.GetBool(name)
	}
	return nil
}
