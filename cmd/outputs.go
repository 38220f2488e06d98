package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/dargueta/framepack"
)

type stagedFile struct {
	temp string
	path string
}

// outputSet writes files to temporary names next to their destinations and
// renames them all at once in commit. Anything not committed is removed by
// discard.
type outputSet struct {
	staged    []stagedFile
	committed []string
}

// stage writes a temporary file in the directory of `path` using `write`.
func (s *outputSet) stage(path string, write func(w io.Writer) error) error {
	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	s.staged = append(s.staged, stagedFile{temp: temp.Name(), path: path})

	if err := write(temp); err != nil {
		temp.Close()
		if _, ok := err.(framepack.EncoderError); ok {
			return err
		}
		return framepack.ErrIOFailed.Wrap(err)
	}
	if err := temp.Close(); err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	return nil
}

// commit renames every staged file into place. If a rename fails, the files
// already renamed are removed and the rest are discarded.
func (s *outputSet) commit() error {
	for len(s.staged) > 0 {
		file := s.staged[0]
		if err := os.Rename(file.temp, file.path); err != nil {
			for _, path := range s.committed {
				os.Remove(path)
			}
			s.committed = nil
			return framepack.ErrIOFailed.Wrap(err)
		}
		s.staged = s.staged[1:]
		s.committed = append(s.committed, file.path)
	}
	s.committed = nil
	return nil
}

// discard removes any staged files that were never committed.
func (s *outputSet) discard() {
	for _, file := range s.staged {
		os.Remove(file.temp)
	}
	s.staged = nil
}
