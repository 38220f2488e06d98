package main

import (
	"io"
	"time"

	"github.com/dargueta/framepack"
	"github.com/rs/zerolog"
)

// newLogger returns a human-readable logger writing to `out`.
func newLogger(level string, out io.Writer) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), framepack.ErrInvalidArgument.Wrap(err)
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(parsed).With().Timestamp().Logger(), nil
}
