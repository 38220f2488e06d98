// Package config holds the settings for the framepack command line tool and
// the rules for layering them: built-in defaults, then the TOML config file,
// then FRAMEPACK_* environment variables, then command line flags.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/frames"
	"github.com/dargueta/framepack/platforms"
	"github.com/dargueta/framepack/quadtree"
	"github.com/dargueta/framepack/utilities/compression"
	"github.com/rs/zerolog"
)

// ManifestSuffix is appended to the output path to get the default manifest
// path.
const ManifestSuffix = ".yaml"

// Config holds the settings for one encoding run.
type Config struct {
	Profile      string
	Input        string
	Output       string
	ManifestPath string
	StatsPath    string

	Codec            string
	InitialThreshold float64

	Cutoff    float64
	Binarize  bool
	Delta     bool
	Invert    bool
	NoResize  bool
	MaxFrames int

	LogLevel string
	Watch    bool

	// CustomProfiles come from the config file and take precedence over the
	// built-in platforms with the same name.
	CustomProfiles []framepack.PlatformProfile
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Profile:          platforms.DefaultName,
		Codec:            quadtree.Name,
		InitialThreshold: quadtree.DefaultInitialThreshold,
		Cutoff:           frames.DefaultCutoff,
		LogLevel:         zerolog.LevelInfoValue,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Input == "" {
		return framepack.ErrInvalidArgument.WithMessage("input path is required")
	}
	if c.Output == "" {
		return framepack.ErrInvalidArgument.WithMessage("output path is required")
	}
	if c.ManifestPath == "" {
		c.ManifestPath = c.Output + ManifestSuffix
	}

	c.Codec = strings.ToLower(c.Codec)
	if c.Codec != quadtree.Name && c.Codec != compression.Name {
		return framepack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("unknown codec %q, expected %q or %q", c.Codec, quadtree.Name, compression.Name))
	}
	if c.InitialThreshold < 0 || c.InitialThreshold >= 0.5 {
		return framepack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("initial threshold must be in [0, 0.5), got %v", c.InitialThreshold))
	}
	if c.Cutoff < 0 || c.Cutoff >= 1 {
		return framepack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("binarization cutoff must be in [0, 1), got %v", c.Cutoff))
	}
	if c.MaxFrames < 0 {
		return framepack.ErrInvalidArgument.WithMessage("max frames can't be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return framepack.ErrInvalidArgument.Wrap(err)
	}

	for _, profile := range c.CustomProfiles {
		if err := profile.Validate(); err != nil {
			return err
		}
	}
	_, err := c.ResolveProfile()
	return err
}

// ResolveProfile finds the profile named by [Config.Profile], looking at the
// custom profiles first and then the built-in platforms.
func (c *Config) ResolveProfile() (framepack.PlatformProfile, error) {
	for _, profile := range c.CustomProfiles {
		if strings.EqualFold(profile.Name, c.Profile) {
			return profile, nil
		}
	}
	return platforms.Lookup(c.Profile)
}

// AllProfiles returns the built-in platforms followed by the custom profiles.
func (c *Config) AllProfiles() []framepack.PlatformProfile {
	builtIn := platforms.All()
	result := make([]framepack.PlatformProfile, 0, len(builtIn)+len(c.CustomProfiles))
	for _, platform := range builtIn {
		result = append(result, platform.Profile())
	}
	return append(result, c.CustomProfiles...)
}

// PreprocessFlags returns the frame preprocessing steps the configuration
// enables.
func (c *Config) PreprocessFlags() framepack.PreprocessFlags {
	flags := framepack.NoPreprocessing
	if c.Binarize {
		flags |= framepack.Binarize
	}
	if c.Delta {
		flags |= framepack.Delta
	}
	if c.Invert {
		flags |= framepack.Invert
	}
	return flags
}

// FrameOptions builds the loader options for frames sized for `profile`.
func (c *Config) FrameOptions(profile framepack.PlatformProfile) frames.Options {
	opts := frames.Options{
		Flags:     c.PreprocessFlags(),
		Cutoff:    c.Cutoff,
		MaxFrames: c.MaxFrames,
	}
	if !c.NoResize {
		opts.Width = profile.FrameWidth
		opts.Height = profile.FrameHeight
	}
	return opts
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value from a pointer if not nil and flag not
// changed. Zero is a valid setting.
func (s *configSetter) setFloat(flag string, value *float64, dst *float64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return framepack.ErrInvalidArgument.Wrap(fmt.Errorf("parse %s: %w", flag, err))
	}
	s.setInt(flag, i, dst)
	return nil
}

func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return framepack.ErrInvalidArgument.Wrap(fmt.Errorf("parse %s: %w", flag, err))
	}
	*dst = f
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
