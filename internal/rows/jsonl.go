package rows

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// JSONL reads one JSON object per line.
type JSONL struct {
	scanner *bufio.Scanner
	line    int
}

// NewJSONL creates a JSONL source that reads from r.
func NewJSONL(r io.Reader) *JSONL {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB line buffer
	return &JSONL{scanner: s}
}

// Next reads the next object. Returns io.EOF when done.
func (p *JSONL) Next() (*Row, error) {
	for p.scanner.Scan() {
		p.line++
		line := bytes.TrimSpace(p.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}

		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			s, err := scalar(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: field %q: %w", p.line, k, err)
			}
			fields[k] = s
		}
		return &Row{Line: p.line, Fields: fields}, nil
	}

	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading jsonl: %w", err)
	}
	return nil, io.EOF
}

func scalar(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("not a scalar")
	}
}
