package config

import "os"

// EnvPrefix starts the name of every environment variable the tool reads.
const EnvPrefix = "FRAMEPACK_"

// ApplyEnvConfig copies settings from FRAMEPACK_* environment variables into
// `cfg`, skipping any whose flag was set explicitly.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("profile", os.Getenv(EnvPrefix+"PROFILE"), &cfg.Profile)
	s.setString("manifest", os.Getenv(EnvPrefix+"MANIFEST"), &cfg.ManifestPath)
	s.setString("stats", os.Getenv(EnvPrefix+"STATS"), &cfg.StatsPath)
	s.setString("codec", os.Getenv(EnvPrefix+"CODEC"), &cfg.Codec)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setFloatFromString("initial-threshold", os.Getenv(EnvPrefix+"INITIAL_THRESHOLD"), &cfg.InitialThreshold); err != nil {
		return err
	}
	if err := s.setFloatFromString("cutoff", os.Getenv(EnvPrefix+"CUTOFF"), &cfg.Cutoff); err != nil {
		return err
	}
	if err := s.setIntFromString("max-frames", os.Getenv(EnvPrefix+"MAX_FRAMES"), &cfg.MaxFrames); err != nil {
		return err
	}

	s.setBoolFromString("binarize", os.Getenv(EnvPrefix+"BINARIZE"), &cfg.Binarize)
	s.setBoolFromString("delta", os.Getenv(EnvPrefix+"DELTA"), &cfg.Delta)
	s.setBoolFromString("invert", os.Getenv(EnvPrefix+"INVERT"), &cfg.Invert)
	s.setBoolFromString("no-resize", os.Getenv(EnvPrefix+"NO_RESIZE"), &cfg.NoResize)
	return nil
}
