package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/config"
	"github.com/dargueta/framepack/manifest"
	"github.com/dargueta/framepack/report"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCheckerPNG writes a `size` x `size` checkerboard with `cell`-pixel
// cells.
func writeCheckerPNG(t *testing.T, path string, size, cell int) {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
}

func makeInput(t *testing.T, count int) string {
	dir := t.TempDir()
	for i := 0; i < count; i++ {
		writeCheckerPNG(t, filepath.Join(dir, "frame-"+string(rune('a'+i))+".png"), 16, 1+i)
	}
	return dir
}

func testConfig(t *testing.T, input string, budget int) config.Config {
	out := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Input = input
	cfg.Output = filepath.Join(out, "video.bin")
	cfg.Profile = "test"
	cfg.Binarize = true
	cfg.NoResize = true
	cfg.CustomProfiles = []framepack.PlatformProfile{
		{
			Name:                 "test",
			MaxFileSizeBytes:     budget,
			SplitThresholdTarget: 0.015,
			FrameWidth:           16,
			FrameHeight:          16,
		},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunEncode(t *testing.T) {
	cfg := testConfig(t, makeInput(t, 3), 4096)
	cfg.StatsPath = filepath.Join(t.TempDir(), "stats.csv")

	result, err := runEncode(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, result.FramesCommitted)
	assert.False(t, result.Truncated)

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, result.Data, data)

	m, err := manifest.ReadFile(cfg.ManifestPath)
	require.NoError(t, err)
	require.NoError(t, m.Check(data))
	assert.Equal(t, 16, m.Width)
	assert.Equal(t, 16, m.Height)
	assert.Equal(t, "test", m.Profile)
	assert.Equal(t, "quadtree", m.Codec)
	assert.Equal(t, "binarize", m.Preprocessing)

	stats, err := os.Open(cfg.StatsPath)
	require.NoError(t, err)
	defer stats.Close()
	rows, err := report.ReadCSV(stats)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "committed", rows[2].State)
}

func TestRunEncode__RunLengthCodec(t *testing.T) {
	cfg := testConfig(t, makeInput(t, 2), 4096)
	cfg.Codec = "rle"

	result, err := runEncode(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "rle", result.Codec)

	m, err := manifest.ReadFile(cfg.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, "rle", m.Codec)
	assert.Zero(t, m.InitialThreshold)
}

func TestRunEncode__Truncates(t *testing.T) {
	input := makeInput(t, 3)

	full, err := runEncode(context.Background(), testConfig(t, input, 4096), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, full.Frames, 3)

	// Room for the first frame only.
	budget := full.Frames[0].ProjectedBytes
	cfg := testConfig(t, input, budget)
	result, err := runEncode(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FramesCommitted)
	assert.True(t, result.Truncated)

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(data), budget)
}

func TestRunEncode__FirstFrameTooBig(t *testing.T) {
	cfg := testConfig(t, makeInput(t, 1), 1)

	_, err := runEncode(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, framepack.ErrBudgetExceeded)
	assert.NoFileExists(t, cfg.Output)
	assert.NoFileExists(t, cfg.ManifestPath)
}

func TestRunEncode__Canceled(t *testing.T) {
	cfg := testConfig(t, makeInput(t, 1), 4096)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runEncode(ctx, cfg, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStageResource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	outputs := &outputSet{}
	defer outputs.discard()

	require.NoError(t, stageResource(outputs, path, []byte{1, 2, 3}, 3))
	assert.NoFileExists(t, path, "file must not appear before commit")
	require.NoError(t, outputs.commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestStageResource__OverBudget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	outputs := &outputSet{}
	err := stageResource(outputs, path, []byte{1, 2, 3}, 2)
	assert.ErrorIs(t, err, framepack.ErrBudgetExceeded)
	outputs.discard()
	assert.NoFileExists(t, path)
}

func TestOutputSet__DiscardRemovesStagedFiles(t *testing.T) {
	dir := t.TempDir()
	outputs := &outputSet{}
	require.NoError(t, outputs.stage(filepath.Join(dir, "a.bin"), func(w io.Writer) error {
		_, err := w.Write([]byte("a"))
		return err
	}))
	outputs.discard()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunEncode__ManifestFailureLeavesNoOutput(t *testing.T) {
	cfg := testConfig(t, makeInput(t, 2), 4096)
	cfg.ManifestPath = filepath.Join(t.TempDir(), "missing-dir", "video.bin.yaml")

	_, err := runEncode(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, framepack.ErrIOFailed)
	assert.NoFileExists(t, cfg.Output)

	entries, err := os.ReadDir(filepath.Dir(cfg.Output))
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files left behind")
}

func TestRunEncode__StatsFailureLeavesNoOutput(t *testing.T) {
	cfg := testConfig(t, makeInput(t, 2), 4096)
	cfg.StatsPath = filepath.Join(t.TempDir(), "missing-dir", "stats.csv")

	_, err := runEncode(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, framepack.ErrIOFailed)
	assert.NoFileExists(t, cfg.Output)
	assert.NoFileExists(t, cfg.ManifestPath)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("warn", &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger("chatty", &buf)
	assert.ErrorIs(t, err, framepack.ErrInvalidArgument)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 3, exitCode(framepack.ErrBudgetExceeded.WithMessage("x")))
	assert.Equal(t, 2, exitCode(framepack.ErrInvalidProfile))
	assert.Equal(t, 1, exitCode(framepack.ErrIOFailed))
}

func TestApp__EncodeThenInspect(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	input := makeInput(t, 2)
	output := filepath.Join(t.TempDir(), "video.bin")

	err := newApp().Run([]string{
		"framepack", "--log-level", "error",
		"encode", "--profile", "aplite", "--binarize", input, output,
	})
	require.NoError(t, err)
	assert.FileExists(t, output)
	assert.FileExists(t, output+".yaml")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"framepack", "inspect", output}))
	assert.Contains(t, out.String(), "aplite")
	assert.Contains(t, out.String(), "frames:     2 of 2, 144x108")
}

func TestApp__InspectDetectsCorruption(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := testConfig(t, makeInput(t, 1), 4096)
	_, err := runEncode(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfg.Output, []byte{0xFF}, 0o644))
	_, err = inspect(cfg.Output, cfg.ManifestPath)
	assert.ErrorIs(t, err, framepack.ErrManifestMismatch)
}

func TestApp__EncodeRequiresTwoArguments(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	app := newApp()
	err := app.Run([]string{"framepack", "encode", "only-one"})
	assert.ErrorIs(t, err, framepack.ErrInvalidArgument)
}

func TestApp__Profiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".framepack"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(home, ".framepack", "config.toml"),
		[]byte("[[profiles]]\nname = \"mine\"\nmax_file_size_bytes = 512\nsplit_threshold_target = 0.1\n"),
		0o644))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"framepack", "profiles"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasPrefix(lines[1], "aplite"))
	assert.True(t, strings.HasPrefix(lines[2], "default"))
	assert.True(t, strings.HasPrefix(lines[3], "mine"))
}

func TestWatchInput__RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchInput(ctx, dir, 20*time.Millisecond, zerolog.Nop(), func() {
			rebuilds.Add(1)
		})
	}()

	// The watcher may not be registered yet, so keep touching files until it
	// notices one.
	deadline := time.Now().Add(5 * time.Second)
	for i := 0; rebuilds.Load() == 0 && time.Now().Before(deadline); i++ {
		writeCheckerPNG(t, filepath.Join(dir, "frame.png"), 4, 1)
		time.Sleep(50 * time.Millisecond)
	}
	assert.NotZero(t, rebuilds.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher didn't stop after cancel")
	}
}

func TestWatchDir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, watchDir(dir))
	assert.Equal(t, dir, watchDir(filepath.Join(dir, "*.png")))
	assert.Equal(t, dir, watchDir(filepath.Join(dir, "anim.gif")))
}
