package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dargueta/framepack"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 250 * time.Millisecond

// watchDir returns the directory to watch for an input path: the path itself
// if it's a directory, otherwise the directory containing the file or glob.
func watchDir(input string) string {
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		return input
	}
	return filepath.Dir(input)
}

func isImageEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".png", ".gif", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// watchInput calls `rebuild` every time an image under the input changes,
// waiting until changes have settled for `debounce`. It returns when the
// context is canceled.
func watchInput(
	ctx context.Context,
	input string,
	debounce time.Duration,
	logger zerolog.Logger,
	rebuild func(),
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	defer watcher.Close()

	dir := watchDir(input)
	if err := watcher.Add(dir); err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	logger.Info().Str("dir", dir).Msg("watching for changes")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isImageEvent(event) {
				continue
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("input changed")
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}
