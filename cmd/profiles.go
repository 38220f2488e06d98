package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

func profilesCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMAX BYTES\tTHRESHOLD TARGET\tFRAME SIZE")
	for _, profile := range cfg.AllProfiles() {
		fmt.Fprintf(
			w,
			"%s\t%d\t%g\t%dx%d\n",
			profile.Name,
			profile.MaxFileSizeBytes,
			profile.SplitThresholdTarget,
			profile.FrameWidth,
			profile.FrameHeight)
	}
	return w.Flush()
}
