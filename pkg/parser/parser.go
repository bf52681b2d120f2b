package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultHeaderLines is the number of leading lines skipped before data.
const DefaultHeaderLines = 1

// CSVSource implements RowSource for reading a simulation log file.
type CSVSource struct {
	path        string
	headerLines int
	extractor   *RowExtractor

	file        *os.File
	scanner     *bufio.Scanner
	currentLine int
	done        bool
}

// NewCSVSource creates a RowSource that reads the given file.
// The first headerLines lines are discarded.
func NewCSVSource(path string, columns Columns, headerLines int) *CSVSource {
	return &CSVSource{
		path:        path,
		headerLines: headerLines,
		extractor:   NewRowExtractor(columns),
	}
}

// Next returns the next parsed row.
// Returns io.EOF once the file is exhausted.
func (s *CSVSource) Next(ctx context.Context) (*Row, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	if s.scanner == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
	}

	for s.scanner.Scan() {
		s.currentLine++
		if s.currentLine <= s.headerLines {
			continue
		}

		row, err := s.extractor.Extract(s.scanner.Text())
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Source = s.path
				fe.LineNum = s.currentLine
			}
			return nil, err
		}
		row.Source = s.path
		row.LineNum = s.currentLine
		return row, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	s.done = true
	if err := s.close(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Close releases resources.
func (s *CSVSource) Close() error {
	return s.close()
}

func (s *CSVSource) open() error {
	f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}

	s.file = f
	s.scanner = bufio.NewScanner(f)
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.currentLine = 0

	return nil
}

func (s *CSVSource) close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

// Load reads every row of a simulation log into memory.
func Load(ctx context.Context, path string, columns Columns, headerLines int) (*Dataset, error) {
	src := NewCSVSource(path, columns, headerLines)
	defer src.Close()

	return Collect(ctx, path, src)
}

// Collect drains a RowSource into a Dataset.
func Collect(ctx context.Context, name string, src RowSource) (*Dataset, error) {
	ds := &Dataset{Source: name}
	for {
		row, err := src.Next(ctx)
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return nil, err
		}
		ds.Rows = append(ds.Rows, *row)
	}
}
