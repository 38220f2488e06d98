package main

import (
	"errors"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/config"
	"github.com/urfave/cli/v2"
)

// loadConfig builds the configuration from defaults, the config file, the
// environment and the command line, in increasing order of precedence.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.DefaultConfig()
	changed := changedFlags(c)

	path := c.String("config")
	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigPath()
	}
	if path != "" && (explicit || config.FileExists(path)) {
		fc, err := config.LoadFileConfig(path)
		if err != nil {
			return cfg, err
		}
		if err := config.ApplyFileConfig(&cfg, fc, changed); err != nil {
			return cfg, err
		}
	}

	if err := config.ApplyEnvConfig(&cfg, changed); err != nil {
		return cfg, err
	}
	applyFlags(c, &cfg)
	return cfg, nil
}

var configFlagNames = []string{
	"profile",
	"manifest",
	"stats",
	"codec",
	"initial-threshold",
	"cutoff",
	"binarize",
	"delta",
	"invert",
	"no-resize",
	"max-frames",
	"log-level",
	"watch",
}

func changedFlags(c *cli.Context) map[string]bool {
	changed := make(map[string]bool, len(configFlagNames))
	for _, name := range configFlagNames {
		if c.IsSet(name) {
			changed[name] = true
		}
	}
	return changed
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("profile") {
		cfg.Profile = c.String("profile")
	}
	if c.IsSet("manifest") {
		cfg.ManifestPath = c.String("manifest")
	}
	if c.IsSet("stats") {
		cfg.StatsPath = c.String("stats")
	}
	if c.IsSet("codec") {
		cfg.Codec = c.String("codec")
	}
	if c.IsSet("initial-threshold") {
		cfg.InitialThreshold = c.Float64("initial-threshold")
	}
	if c.IsSet("cutoff") {
		cfg.Cutoff = c.Float64("cutoff")
	}
	if c.IsSet("binarize") {
		cfg.Binarize = c.Bool("binarize")
	}
	if c.IsSet("delta") {
		cfg.Delta = c.Bool("delta")
	}
	if c.IsSet("invert") {
		cfg.Invert = c.Bool("invert")
	}
	if c.IsSet("no-resize") {
		cfg.NoResize = c.Bool("no-resize")
	}
	if c.IsSet("max-frames") {
		cfg.MaxFrames = c.Int("max-frames")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("watch") {
		cfg.Watch = c.Bool("watch")
	}
}

// exitCode maps errors to process exit codes for scripts that care.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, framepack.ErrBudgetExceeded):
		return 3
	case errors.Is(err, framepack.ErrInvalidArgument), errors.Is(err, framepack.ErrInvalidProfile):
		return 2
	default:
		return 1
	}
}
