package rows

import (
	"fmt"
	"io"
	"os"

	"github.com/benwilkes9/ctlbreak/internal/config"
)

// Row is one input record keyed by column name.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get returns the named field and whether the row has it.
func (r *Row) Get(column string) (string, bool) {
	v, ok := r.Fields[column]
	return v, ok
}

// Source yields rows in input order. Next returns io.EOF when done.
type Source interface {
	Next() (*Row, error)
}

// Open returns a source for path in the given format. "-" reads stdin.
// The returned closer must be called when the source is exhausted.
func Open(path, format string) (Source, io.Closer, error) {
	var rc io.ReadCloser
	if path == "-" {
		rc = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		rc = f
	}

	src, err := New(rc, format)
	if err != nil {
		rc.Close() //nolint:errcheck // already failing
		return nil, nil, err
	}
	return src, rc, nil
}

// New wraps r in a source for format.
func New(r io.Reader, format string) (Source, error) {
	switch format {
	case config.FormatCSV, "":
		return NewCSV(r), nil
	case config.FormatJSONL:
		return NewJSONL(r), nil
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}
