package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Fixed messages for failures that carry no parser text.
const (
	resourceExhaustedMsg = "ResourceExhausted"
	noFile               = "-"
)

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// ErrorLog is the append-only audit trail of a batch run. Each record is
// three lines (dataset, file, error) followed by a blank line, written with a
// single Write call so an interrupted run leaves whole records behind.
type ErrorLog struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
	n  int
}

// NewErrorLog writes records to w.
func NewErrorLog(w io.Writer) *ErrorLog {
	return &ErrorLog{w: w}
}

// OpenErrorLog opens the log file at path, appending to it when appendMode is
// set and truncating it otherwise.
func OpenErrorLog(path string, appendMode bool) (*ErrorLog, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open error log %s: %w", path, err)
	}
	return &ErrorLog{w: f, c: f}, nil
}

// Record writes one failure. Newlines inside msg are replaced by spaces.
func (l *ErrorLog) Record(dataset, file, msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := "Dataset: " + dataset + "\nFile: " + file + "\nError: " + Sanitize(msg) + "\n\n"
	if _, err := io.WriteString(l.w, rec); err != nil {
		return fmt.Errorf("write error log: %w", err)
	}
	l.n++
	return nil
}

// Count returns the number of records written through this handle.
func (l *ErrorLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

// Close closes the underlying file, if any. Safe to call more than once.
func (l *ErrorLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.c == nil {
		return nil
	}
	err := l.c.Close()
	l.c = nil
	return err
}

// Sanitize turns an error message into a single line.
func Sanitize(msg string) string {
	return newlines.Replace(msg)
}
