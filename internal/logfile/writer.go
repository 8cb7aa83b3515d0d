package logfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Record is one test cycle of a report run.
type Record struct {
	RunID     string   `json:"run_id"`
	Iteration int      `json:"iteration"`
	Line      int      `json:"line,omitempty"`
	LevelNum  int      `json:"level_num"`
	LevelName string   `json:"level_name,omitempty"`
	Values    []string `json:"values"`
}

// Writer appends JSONL trace records to a log file.
type Writer struct {
	file  *os.File
	enc   *json.Encoder
	runID string
}

// New creates a new trace writer under the given logs directory.
// The filename is based on the current timestamp.
func New(logsDir string) (*Writer, error) {
	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}

	name := time.Now().Format("20060102-150405") + ".jsonl"
	path := filepath.Join(logsDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}

	return &Writer{file: f, enc: json.NewEncoder(f), runID: uuid.NewString()}, nil
}

// Path returns the path to the log file.
func (w *Writer) Path() string {
	return w.file.Name()
}

// RunID identifies every record written by this writer.
func (w *Writer) RunID() string {
	return w.runID
}

// Record writes rec as one JSON line, stamping it with the run id.
func (w *Writer) Record(rec Record) error {
	rec.RunID = w.runID
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("writing trace record: %w", err)
	}
	return nil
}

// Close closes the log file.
func (w *Writer) Close() error {
	return w.file.Close()
}
