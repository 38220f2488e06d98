// Package manifest reads and writes the YAML sidecar that describes an encoded
// animation. The resource itself has no header, so a player needs the manifest
// (or equivalent constants compiled in) to know the frame geometry and how many
// frames to decode.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/bitstream"
	"github.com/dargueta/framepack/encoder"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the manifest format version written by [Write].
const CurrentVersion = 1

type Manifest struct {
	Version  int    `yaml:"version"`
	Resource string `yaml:"resource"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	FramesCommitted int  `yaml:"frames_committed"`
	FramesTotal     int  `yaml:"frames_total"`
	Truncated       bool `yaml:"truncated"`

	Profile         string  `yaml:"profile"`
	BudgetBytes     int     `yaml:"budget_bytes"`
	ThresholdTarget float64 `yaml:"threshold_target"`

	Codec            string  `yaml:"codec"`
	InitialThreshold float64 `yaml:"initial_threshold,omitempty"`
	Preprocessing    string  `yaml:"preprocessing"`

	TotalBits int `yaml:"total_bits"`
	Bytes     int `yaml:"bytes"`
}

// New describes `result`. `resourcePath` is the path the data will be written
// to; only its base name is recorded.
func New(
	result encoder.Result,
	resourcePath string,
	width int,
	height int,
	initialThreshold float64,
	flags framepack.PreprocessFlags,
) Manifest {
	return Manifest{
		Version:          CurrentVersion,
		Resource:         filepath.Base(resourcePath),
		Width:            width,
		Height:           height,
		FramesCommitted:  result.FramesCommitted,
		FramesTotal:      result.FramesTotal,
		Truncated:        result.Truncated,
		Profile:          result.Profile.Name,
		BudgetBytes:      result.Profile.MaxFileSizeBytes,
		ThresholdTarget:  result.Profile.SplitThresholdTarget,
		Codec:            result.Codec,
		InitialThreshold: initialThreshold,
		Preprocessing:    flags.String(),
		TotalBits:        result.TotalBits,
		Bytes:            len(result.Data),
	}
}

// Check verifies that `data` is the resource this manifest describes: it must
// be exactly ceil(TotalBits / 8) bytes long, fit in the budget, and have only
// zeros in the padding after the last meaningful bit.
func (m Manifest) Check(data []byte) error {
	if m.TotalBits < 0 {
		return framepack.ErrManifestMismatch.WithMessage(
			fmt.Sprintf("negative bit count %d", m.TotalBits))
	}

	expected := bitstream.BytesForBits(m.TotalBits)
	if len(data) != expected {
		return framepack.ErrManifestMismatch.WithMessage(
			fmt.Sprintf(
				"resource is %d bytes, expected %d for %d bits",
				len(data),
				expected,
				m.TotalBits))
	}
	if m.Bytes != expected {
		return framepack.ErrManifestMismatch.WithMessage(
			fmt.Sprintf("manifest says %d bytes but %d bits need %d", m.Bytes, m.TotalBits, expected))
	}
	if m.BudgetBytes > 0 && len(data) > m.BudgetBytes {
		return framepack.ErrManifestMismatch.WithMessage(
			fmt.Sprintf("resource is %d bytes, over the %d byte budget", len(data), m.BudgetBytes))
	}
	if m.FramesCommitted > m.FramesTotal {
		return framepack.ErrManifestMismatch.WithMessage(
			fmt.Sprintf("%d frames committed out of %d", m.FramesCommitted, m.FramesTotal))
	}

	padding := len(data)*8 - m.TotalBits
	if padding > 0 {
		mask := byte(1<<padding) - 1
		if data[len(data)-1]&mask != 0 {
			return framepack.ErrManifestMismatch.WithMessage(
				fmt.Sprintf("last byte 0x%02x has nonzero padding", data[len(data)-1]))
		}
	}
	return nil
}

// Write serializes the manifest as YAML.
func Write(w io.Writer, m Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	return nil
}

// WriteFile writes the manifest to `path`, replacing any existing file.
func WriteFile(path string, m Manifest) error {
	file, err := os.Create(path)
	if err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	if err := Write(file, m); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	return nil
}

// Read parses a manifest. Unknown keys are rejected.
func Read(r io.Reader) (Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return m, framepack.ErrManifestMismatch.WithMessage("empty manifest")
		}
		return m, framepack.ErrManifestMismatch.Wrap(err)
	}
	if m.Version != CurrentVersion {
		return m, framepack.ErrNotSupported.WithMessage(
			fmt.Sprintf("manifest version %d, expected %d", m.Version, CurrentVersion))
	}
	return m, nil
}

// ReadFile reads the manifest at `path`.
func ReadFile(path string) (Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Manifest{}, framepack.ErrNotFound.WithMessage(path)
		}
		return Manifest{}, framepack.ErrIOFailed.Wrap(err)
	}
	defer file.Close()
	return Read(file)
}
