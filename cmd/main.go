package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %s\n", err.Error())
		os.Exit(exitCode(err))
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "framepack",
		Usage: "Pack 1-bit animations into a fixed-size resource",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "TOML config file (default ~/.framepack/config.toml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "one of trace, debug, info, warn, error",
				Value: "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode a directory, glob or animated GIF",
				ArgsUsage: "INPUT  OUTPUT",
				Flags:     encodeFlags(),
				Action:    encodeCommand,
			},
			{
				Name:   "profiles",
				Usage:  "List the platform profiles",
				Action: profilesCommand,
			},
			{
				Name:      "inspect",
				Usage:     "Check an encoded resource against its manifest",
				ArgsUsage: "OUTPUT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "manifest path (default OUTPUT.yaml)",
					},
				},
				Action: inspectCommand,
			},
		},
	}
}
