package rows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSV reads comma-separated rows. The first record is the header.
type CSV struct {
	r      *csv.Reader
	header []string
	line   int
}

// NewCSV creates a CSV source reading from r.
func NewCSV(r io.Reader) *CSV {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return &CSV{r: cr}
}

// Header returns the column names once the first row has been read.
func (c *CSV) Header() []string {
	return c.header
}

// Next reads the next data row. Returns io.EOF when done.
func (c *CSV) Next() (*Row, error) {
	if c.header == nil {
		rec, err := c.r.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		c.line++
		c.header = make([]string, len(rec))
		for i, h := range rec {
			c.header[i] = strings.TrimSpace(h)
		}
	}

	for {
		rec, err := c.r.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		c.line, _ = c.r.FieldPos(0)

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != len(c.header) {
			return nil, fmt.Errorf("line %d: got %d fields, header has %d", c.line, len(rec), len(c.header))
		}

		fields := make(map[string]string, len(rec))
		for i, v := range rec {
			fields[c.header[i]] = v
		}
		return &Row{Line: c.line, Fields: fields}, nil
	}
}
