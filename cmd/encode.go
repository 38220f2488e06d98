package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/config"
	"github.com/dargueta/framepack/encoder"
	"github.com/dargueta/framepack/frames"
	"github.com/dargueta/framepack/manifest"
	"github.com/dargueta/framepack/quadtree"
	"github.com/dargueta/framepack/report"
	"github.com/dargueta/framepack/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func encodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "platform profile name",
			Value:   "default",
		},
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "manifest path (default OUTPUT.yaml)",
		},
		&cli.StringFlag{
			Name:  "stats",
			Usage: "write per-frame statistics as CSV to this path",
		},
		&cli.StringFlag{
			Name:  "codec",
			Usage: fmt.Sprintf("%q or %q", quadtree.Name, compression.Name),
			Value: quadtree.Name,
		},
		&cli.Float64Flag{
			Name:  "initial-threshold",
			Usage: "quadtree split threshold for the whole frame",
			Value: quadtree.DefaultInitialThreshold,
		},
		&cli.Float64Flag{
			Name:  "cutoff",
			Usage: "binarization cutoff in [0, 1)",
			Value: frames.DefaultCutoff,
		},
		&cli.BoolFlag{
			Name:  "binarize",
			Usage: "threshold frames to pure black and white",
		},
		&cli.BoolFlag{
			Name:  "delta",
			Usage: "XOR every frame with the previous one",
		},
		&cli.BoolFlag{
			Name:  "invert",
			Usage: "swap black and white",
		},
		&cli.BoolFlag{
			Name:  "no-resize",
			Usage: "keep images at their native size",
		},
		&cli.IntFlag{
			Name:  "max-frames",
			Usage: "stop after this many frames (0 for no limit)",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "re-encode whenever the input changes",
		},
	}
}

func encodeCommand(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return framepack.ErrInvalidArgument.WithMessage("expected INPUT and OUTPUT arguments")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.Input = c.Args().Get(0)
	cfg.Output = c.Args().Get(1)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	_, err = runEncode(c.Context, cfg, logger)
	if !cfg.Watch {
		return err
	}
	if err != nil {
		logger.Error().Err(err).Msg("encoding failed, waiting for changes")
	}

	return watchInput(c.Context, cfg.Input, defaultDebounce, logger, func() {
		if _, err := runEncode(c.Context, cfg, logger); err != nil {
			logger.Error().Err(err).Msg("encoding failed")
		}
	})
}

// runEncode loads the input, encodes as many frames as fit, and writes the
// resource, its manifest and optionally the statistics report.
func runEncode(ctx context.Context, cfg config.Config, logger zerolog.Logger) (encoder.Result, error) {
	profile, err := cfg.ResolveProfile()
	if err != nil {
		return encoder.Result{}, err
	}

	loader, err := frames.NewLoader(cfg.Input, cfg.FrameOptions(profile))
	if err != nil {
		return encoder.Result{}, err
	}
	logger.Info().
		Str("input", cfg.Input).
		Int("files", len(loader.Files())).
		Str("profile", profile.Name).
		Int("max_bytes", profile.MaxFileSizeBytes).
		Msg("encoding")

	opts := []encoder.Option{encoder.WithLogger(logger)}
	if cfg.Codec == compression.Name {
		opts = append(opts, encoder.WithCodec(compression.NewRunLengthCodec()))
	} else {
		opts = append(opts, encoder.WithInitialThreshold(cfg.InitialThreshold))
	}

	enc, err := encoder.New(profile, opts...)
	if err != nil {
		return encoder.Result{}, err
	}

	width, height := 0, 0
	for !enc.Stopped() {
		if err := ctx.Err(); err != nil {
			return encoder.Result{}, err
		}

		frame, err := loader.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return encoder.Result{}, err
		}
		if frame.Index == 0 {
			width, height = frame.Width, frame.Height
		}
		if _, err := enc.Push(frame); err != nil {
			return encoder.Result{}, err
		}
	}
	if enc.Stopped() {
		logger.Info().Msg("size budget reached, skipping the remaining input")
	}

	result, err := enc.Finish()
	if err != nil {
		return result, err
	}
	if result.FramesCommitted == 0 {
		return result, framepack.ErrBudgetExceeded.WithMessage(
			fmt.Sprintf(
				"the first frame alone needs more than %d bytes",
				profile.MaxFileSizeBytes))
	}

	m := manifest.New(result, cfg.Output, width, height, cfg.InitialThreshold, cfg.PreprocessFlags())
	if cfg.Codec != quadtree.Name {
		m.InitialThreshold = 0
	}

	// Nothing is moved into place until every file has been written.
	outputs := &outputSet{}
	defer outputs.discard()

	if err := stageResource(outputs, cfg.Output, result.Data, profile.MaxFileSizeBytes); err != nil {
		return result, err
	}
	err = outputs.stage(cfg.ManifestPath, func(w io.Writer) error {
		return manifest.Write(w, m)
	})
	if err != nil {
		return result, err
	}
	if cfg.StatsPath != "" {
		err = outputs.stage(cfg.StatsPath, func(w io.Writer) error {
			return report.WriteCSV(w, result)
		})
		if err != nil {
			return result, err
		}
	}
	if err := outputs.commit(); err != nil {
		return result, err
	}

	logger.Info().
		Str("output", cfg.Output).
		Str("manifest", cfg.ManifestPath).
		Int("bytes", len(result.Data)).
		Int("frames", result.FramesCommitted).
		Msg("wrote resource")
	return result, nil
}

// stageResource copies the data into a buffer no larger than the budget and
// stages it for writing to `path`.
func stageResource(outputs *outputSet, path string, data []byte, budget int) error {
	staging := make([]byte, budget)
	writer := bytewriter.New(staging)
	n, err := writer.Write(data)
	if err != nil || n != len(data) {
		return framepack.ErrBudgetExceeded.WithMessage(
			fmt.Sprintf("%d bytes don't fit in %d", len(data), budget))
	}

	return outputs.stage(path, func(w io.Writer) error {
		_, err := w.Write(staging[:n])
		return err
	})
}
