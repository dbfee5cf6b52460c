// SPDX-License-Identifier: GPL-3.0-or-later

package sampling

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// CSVSink appends rows to a CSV file, writing the header with the
// first row and flushing after every append so a crash mid-run loses
// nothing already captured.
type CSVSink struct {
	f           *os.File
	w           *gocsv.SafeCSVWriter
	wroteHeader bool
}

func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating capture file '%s': %v", path, err)
	}

	return &CSVSink{
		f: f,
		w: gocsv.NewSafeCSVWriter(csv.NewWriter(f)),
	}, nil
}

func (s *CSVSink) Append(row *SampleRow) error {
	rows := []*SampleRow{row}

	var err error
	if !s.wroteHeader {
		err = gocsv.MarshalCSV(rows, s.w)
		s.wroteHeader = err == nil
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(rows, s.w)
	}
	if err != nil {
		return err
	}

	s.w.Flush()

	return s.w.Error()
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// LoadRows reads back a capture file written by CSVSink, preserving
// row order.
func LoadRows(path string) ([]*SampleRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture file '%s': %v", path, err)
	}
	defer f.Close()

	var rows []*SampleRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing capture file '%s': %v", path, err)
	}

	return rows, nil
}
