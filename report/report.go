// Package report writes per-frame encoding statistics as CSV.
package report

import (
	"io"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/encoder"
	"github.com/gocarina/gocsv"
)

// Row is one line of the report.
type Row struct {
	Index          int    `csv:"frame"`
	Bits           int    `csv:"bits"`
	CumulativeBits int    `csv:"cumulative_bits"`
	ProjectedBytes int    `csv:"projected_bytes"`
	State          string `csv:"state"`
}

// Rows converts the frame statistics of `result` into report rows.
func Rows(result encoder.Result) []Row {
	rows := make([]Row, len(result.Frames))
	for i, stat := range result.Frames {
		rows[i] = Row{
			Index:          stat.Index,
			Bits:           stat.Bits,
			CumulativeBits: stat.CumulativeBits,
			ProjectedBytes: stat.ProjectedBytes,
			State:          stat.State.String(),
		}
	}
	return rows
}

// WriteCSV writes a header line and one row per frame the encoder evaluated.
func WriteCSV(w io.Writer, result encoder.Result) error {
	rows := Rows(result)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return framepack.ErrIOFailed.Wrap(err)
	}
	return nil
}

// ReadCSV parses a report written by [WriteCSV].
func ReadCSV(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, framepack.ErrIOFailed.Wrap(err)
	}
	return rows, nil
}
