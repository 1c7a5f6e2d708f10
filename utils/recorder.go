package utils

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// GenerationRecord is one row of the per-generation statistics CSV
type GenerationRecord struct {
	Generation int   `csv:"generation"`
	Width      int   `csv:"width"`
	Height     int   `csv:"height"`
	Population int   `csv:"population"`
	Changed    int   `csv:"changed"`
	DurationUS int64 `csv:"duration_us"`
}

// Recorder appends generation records as CSV
type Recorder struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewRecorder writes records to out
func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{out: out}
}

// CreateRecorder creates filename and records into it.
// Returns nil if filename is empty (recording disabled).
func CreateRecorder(filename string) (*Recorder, error) {
	if filename == "" {
		return nil, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "[CreateRecorder] failed to create file: %+v", filename)
	}
	return &Recorder{out: f, closer: f}, nil
}

// Write appends a record, emitting the CSV header first
func (r *Recorder) Write(rec GenerationRecord) error {
	if r == nil {
		return nil
	}

	records := []GenerationRecord{rec}

	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.out); err != nil {
			return errors.Wrap(err, "[Recorder.Write] writing header")
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
		return errors.Wrap(err, "[Recorder.Write]")
	}
	return nil
}

// Close closes the underlying file, if the recorder owns one
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return errors.Wrap(r.closer.Close(), "[Recorder.Close]")
}
