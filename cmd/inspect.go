package main

import (
	"fmt"
	"os"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/config"
	"github.com/dargueta/framepack/manifest"
	"github.com/urfave/cli/v2"
)

func inspectCommand(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return framepack.ErrInvalidArgument.WithMessage("expected OUTPUT argument")
	}
	output := c.Args().Get(0)
	manifestPath := c.String("manifest")
	if manifestPath == "" {
		manifestPath = output + config.ManifestSuffix
	}

	m, err := inspect(output, manifestPath)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "resource:   %s (%d bytes, %d bits)\n", output, m.Bytes, m.TotalBits)
	fmt.Fprintf(out, "profile:    %s (budget %d bytes, target %g)\n", m.Profile, m.BudgetBytes, m.ThresholdTarget)
	fmt.Fprintf(out, "codec:      %s\n", m.Codec)
	fmt.Fprintf(out, "frames:     %d of %d, %dx%d\n", m.FramesCommitted, m.FramesTotal, m.Width, m.Height)
	fmt.Fprintf(out, "truncated:  %t\n", m.Truncated)
	fmt.Fprintf(out, "preprocess: %s\n", m.Preprocessing)
	return nil
}

// inspect reads the manifest and checks the resource against it.
func inspect(output, manifestPath string) (manifest.Manifest, error) {
	m, err := manifest.ReadFile(manifestPath)
	if err != nil {
		return m, err
	}
	data, err := os.ReadFile(output)
	if err != nil {
		return m, framepack.ErrIOFailed.Wrap(err)
	}
	return m, m.Check(data)
}
