// Package runlog keeps a CSV history of export runs.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

// Entry is one export run.
type Entry struct {
	Timestamp time.Time
	Source    string // snapshot file, or "-" for stdin
	Entries   int
	Skipped   int
	Output    string // CSV path, or "-" for stdout
}

var header = []string{"timestamp", "source", "entries", "skipped", "output"}

// ErrBadHeader is returned when the first row of the log is not the
// expected header.
var ErrBadHeader = errors.New("run log header mismatch")

// Log is a run log file.
type Log struct {
	path string
}

// New returns the log stored at path. Nothing is created until Append.
func New(path string) *Log {
	return &Log{path: path}
}

// Append adds entries to the log, creating the file, its directory and
// the header as needed.
func (l *Log) Append(entries ...Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat run log: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		_ = cw.Write(header)
	}
	for _, e := range entries {
		_ = cw.Write(e.row())
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	return nil
}

// Recent returns the last n runs, oldest first. n <= 0 returns every run.
// A log that does not exist yet has no runs.
func (l *Log) Recent(n int) ([]Entry, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	if !slices.Equal(first, header) {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, first)
	}

	var runs []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading run log: %w", err)
		}
		e, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("run log line %d: %w", line, err)
		}
		runs = append(runs, e)
		if n > 0 && len(runs) > n {
			runs = runs[1:]
		}
	}
	return runs, nil
}

func (e Entry) row() []string {
	return []string{
		e.Timestamp.Format(time.RFC3339),
		e.Source,
		strconv.Itoa(e.Entries),
		strconv.Itoa(e.Skipped),
		e.Output,
	}
}

func parseRow(rec []string) (Entry, error) {
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return Entry{}, fmt.Errorf("timestamp: %w", err)
	}
	entries, err := strconv.Atoi(rec[2])
	if err != nil {
		return Entry{}, fmt.Errorf("entries: %w", err)
	}
	skipped, err := strconv.Atoi(rec[3])
	if err != nil {
		return Entry{}, fmt.Errorf("skipped: %w", err)
	}
	return Entry{Timestamp: ts, Source: rec[1], Entries: entries, Skipped: skipped, Output: rec[4]}, nil
}
