// Package config loads the optional TOML configuration file that tunes the
// REPL without requiring a recompile.
package config

import (
	"github.com/BurntSushi/toml"
)

// Config holds the REPL-level settings a user may override. Architectural
// behavior (instruction semantics, CSR shapes, memory paging) is never
// configurable here; only host-side convenience knobs are.
type Config struct {
	// HistorySize bounds how many REPL lines peterh/liner keeps in its
	// in-memory history.
	HistorySize int `toml:"history_size"`

	// CheckBreakpointsByDefault is the check_bp argument the "step"
	// command passes to Processor.Execute. The "run" command always
	// checks breakpoints, whatever this is set to.
	CheckBreakpointsByDefault bool `toml:"check_breakpoints_by_default"`

	// ImagePath is the hex image loaded automatically at startup if set
	// and no path is given on the command line.
	ImagePath string `toml:"image_path"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		HistorySize:               500,
		CheckBreakpointsByDefault: true,
		ImagePath:                 "",
	}
}

// Load reads and decodes a TOML config file at path, starting from
// DefaultConfig so an absent or partial file still yields sane settings.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
