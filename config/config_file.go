package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/dargueta/framepack"
	toml "github.com/pelletier/go-toml/v2"
)

// ProfileConfig is a custom platform profile as written in the config file.
type ProfileConfig struct {
	Name                 string  `toml:"name"`
	MaxFileSizeBytes     int     `toml:"max_file_size_bytes"`
	SplitThresholdTarget float64 `toml:"split_threshold_target"`
	FrameWidth           int     `toml:"frame_width"`
	FrameHeight          int     `toml:"frame_height"`
}

// Profile converts the entry to a [framepack.PlatformProfile].
func (p ProfileConfig) Profile() framepack.PlatformProfile {
	return framepack.PlatformProfile{
		Name:                 p.Name,
		MaxFileSizeBytes:     p.MaxFileSizeBytes,
		SplitThresholdTarget: p.SplitThresholdTarget,
		FrameWidth:           p.FrameWidth,
		FrameHeight:          p.FrameHeight,
	}
}

// FileConfig mirrors Config in a TOML-friendly shape. Booleans and floats are
// pointers so an absent key doesn't override anything.
type FileConfig struct {
	Profile          string          `toml:"profile"`
	ManifestPath     string          `toml:"manifest"`
	StatsPath        string          `toml:"stats"`
	Codec            string          `toml:"codec"`
	InitialThreshold *float64        `toml:"initial_threshold"`
	Cutoff           *float64        `toml:"cutoff"`
	Binarize         *bool           `toml:"binarize"`
	Delta            *bool           `toml:"delta"`
	Invert           *bool           `toml:"invert"`
	NoResize         *bool           `toml:"no_resize"`
	Watch            *bool           `toml:"watch"`
	MaxFrames        int             `toml:"max_frames"`
	LogLevel         string          `toml:"log_level"`
	Profiles         []ProfileConfig `toml:"profiles"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fc, framepack.ErrNotFound.WithMessage(path)
		}
		return fc, framepack.ErrIOFailed.Wrap(err)
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, framepack.ErrInvalidArgument.Wrap(err)
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.framepack/config.toml, or an empty string if
// the home directory can't be determined.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".framepack", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies settings from the config file into `cfg`, skipping
// any whose flag was set explicitly.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("profile", fc.Profile, &cfg.Profile)
	s.setString("manifest", fc.ManifestPath, &cfg.ManifestPath)
	s.setString("stats", fc.StatsPath, &cfg.StatsPath)
	s.setString("codec", fc.Codec, &cfg.Codec)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setFloat("initial-threshold", fc.InitialThreshold, &cfg.InitialThreshold)
	s.setFloat("cutoff", fc.Cutoff, &cfg.Cutoff)
	s.setInt("max-frames", fc.MaxFrames, &cfg.MaxFrames)

	s.setBool("binarize", fc.Binarize, &cfg.Binarize)
	s.setBool("delta", fc.Delta, &cfg.Delta)
	s.setBool("invert", fc.Invert, &cfg.Invert)
	s.setBool("no-resize", fc.NoResize, &cfg.NoResize)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	for _, entry := range fc.Profiles {
		profile := entry.Profile()
		if err := profile.Validate(); err != nil {
			return err
		}
		cfg.CustomProfiles = append(cfg.CustomProfiles, profile)
	}
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
