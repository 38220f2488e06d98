package config

import (
	"testing"

	"github.com/dargueta/framepack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Input = "frames/"
	cfg.Output = "out/video.bin"
	return cfg
}

func TestValidate__DerivesManifestPath(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "out/video.bin.yaml", cfg.ManifestPath)
}

func TestValidate__KeepsExplicitManifestPath(t *testing.T) {
	cfg := validConfig()
	cfg.ManifestPath = "elsewhere.yaml"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "elsewhere.yaml", cfg.ManifestPath)
}

func TestValidate__Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"missing input", func(c *Config) { c.Input = "" }, framepack.ErrInvalidArgument},
		{"missing output", func(c *Config) { c.Output = "" }, framepack.ErrInvalidArgument},
		{"unknown codec", func(c *Config) { c.Codec = "zip" }, framepack.ErrInvalidArgument},
		{"threshold too big", func(c *Config) { c.InitialThreshold = 0.5 }, framepack.ErrInvalidArgument},
		{"negative threshold", func(c *Config) { c.InitialThreshold = -0.1 }, framepack.ErrInvalidArgument},
		{"cutoff too big", func(c *Config) { c.Cutoff = 1 }, framepack.ErrInvalidArgument},
		{"negative max frames", func(c *Config) { c.MaxFrames = -1 }, framepack.ErrInvalidArgument},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, framepack.ErrInvalidArgument},
		{"unknown profile", func(c *Config) { c.Profile = "basalt" }, framepack.ErrInvalidProfile},
		{
			"bad custom profile",
			func(c *Config) {
				c.CustomProfiles = []framepack.PlatformProfile{{Name: "tiny"}}
			},
			framepack.ErrInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidate__CodecIsCaseInsensitive(t *testing.T) {
	cfg := validConfig()
	cfg.Codec = "RLE"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "rle", cfg.Codec)
}

func TestResolveProfile__BuiltIn(t *testing.T) {
	cfg := validConfig()
	cfg.Profile = "aplite"
	profile, err := cfg.ResolveProfile()
	require.NoError(t, err)
	assert.Equal(t, 128000, profile.MaxFileSizeBytes)
	assert.Equal(t, 0.12, profile.SplitThresholdTarget)
}

func TestResolveProfile__CustomShadowsBuiltIn(t *testing.T) {
	cfg := validConfig()
	cfg.Profile = "Aplite"
	cfg.CustomProfiles = []framepack.PlatformProfile{
		{
			Name:                 "aplite",
			MaxFileSizeBytes:     1000,
			SplitThresholdTarget: 0.2,
			FrameWidth:           64,
			FrameHeight:          48,
		},
	}

	profile, err := cfg.ResolveProfile()
	require.NoError(t, err)
	assert.Equal(t, 1000, profile.MaxFileSizeBytes)
}

func TestAllProfiles(t *testing.T) {
	cfg := validConfig()
	cfg.CustomProfiles = []framepack.PlatformProfile{
		{Name: "custom", MaxFileSizeBytes: 10, SplitThresholdTarget: 0.1, FrameWidth: 8, FrameHeight: 8},
	}

	profiles := cfg.AllProfiles()
	require.Len(t, profiles, 3)
	assert.Equal(t, "aplite", profiles[0].Name)
	assert.Equal(t, "default", profiles[1].Name)
	assert.Equal(t, "custom", profiles[2].Name)
}

func TestPreprocessFlags(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, framepack.NoPreprocessing, cfg.PreprocessFlags())

	cfg.Binarize = true
	cfg.Invert = true
	assert.Equal(t, framepack.Binarize|framepack.Invert, cfg.PreprocessFlags())
}

func TestFrameOptions(t *testing.T) {
	cfg := validConfig()
	cfg.Delta = true
	cfg.MaxFrames = 7
	profile := framepack.PlatformProfile{Name: "p", FrameWidth: 144, FrameHeight: 108}

	opts := cfg.FrameOptions(profile)
	assert.Equal(t, framepack.Delta, opts.Flags)
	assert.Equal(t, 144, opts.Width)
	assert.Equal(t, 108, opts.Height)
	assert.Equal(t, 7, opts.MaxFrames)
	assert.Equal(t, cfg.Cutoff, opts.Cutoff)

	cfg.NoResize = true
	opts = cfg.FrameOptions(profile)
	assert.Zero(t, opts.Width)
	assert.Zero(t, opts.Height)
}
