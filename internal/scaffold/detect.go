package scaffold

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/benwilkes9/ctlbreak/internal/config"
)

// levelName matches columns usable as level names.
var levelName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ReportInfo holds detected and user-provided report settings used to render
// the config template.
type ReportInfo struct {
	Title  string
	Input  string
	Format string

	// Columns in file order.
	Columns []string
	// Numeric lists columns whose first value parses as a number.
	Numeric []string

	// Levels ordered minor to major.
	Levels []string
	Sum    string
}

// Detect inspects the first record of the input file and guesses levels and
// the sum column.
func Detect(path string) (*ReportInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	info := &ReportInfo{
		Title:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Input:  path,
		Format: config.FormatCSV,
	}

	var first map[string]string
	if strings.HasSuffix(path, ".jsonl") {
		info.Format = config.FormatJSONL
		info.Columns, first, err = peekJSONL(f)
	} else {
		info.Columns, first, err = peekCSV(f)
	}
	if err != nil {
		return nil, err
	}

	for _, c := range info.Columns {
		if _, err := strconv.ParseFloat(strings.TrimSpace(first[c]), 64); err == nil {
			info.Numeric = append(info.Numeric, c)
		}
	}

	info.guess()
	return info, nil
}

func peekCSV(r io.Reader) ([]string, map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	first := make(map[string]string, len(header))
	rec, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("reading first row: %w", err)
	}
	for i, v := range rec {
		if i < len(header) {
			first[header[i]] = v
		}
	}
	return header, first, nil
}

func peekJSONL(r io.Reader) ([]string, map[string]string, error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return nil, nil, fmt.Errorf("parsing first object: %w", err)
		}

		cols := make([]string, 0, len(obj))
		first := make(map[string]string, len(obj))
		for k, v := range obj {
			cols = append(cols, k)
			first[k] = strings.Trim(string(v), `"`)
		}
		sort.Strings(cols)
		return cols, first, nil
	}
	if err := s.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading input: %w", err)
	}
	return nil, nil, fmt.Errorf("input has no rows")
}

// guess picks the last numeric column as the sum and the leading text
// columns, except the final detail column, as levels.
func (i *ReportInfo) guess() {
	if len(i.Numeric) > 0 {
		i.Sum = i.Numeric[len(i.Numeric)-1]
	}

	candidates := i.LevelCandidates()
	if len(candidates) > 1 {
		candidates = candidates[:len(candidates)-1]
	}
	i.Levels = nil
	for k := len(candidates) - 1; k >= 0; k-- {
		i.Levels = append(i.Levels, candidates[k])
	}
}

// LevelCandidates returns the non-numeric columns with valid level names, in
// file order.
func (i *ReportInfo) LevelCandidates() []string {
	numeric := make(map[string]bool, len(i.Numeric))
	for _, c := range i.Numeric {
		numeric[c] = true
	}
	var out []string
	for _, c := range i.Columns {
		if !numeric[c] && levelName.MatchString(c) {
			out = append(out, c)
		}
	}
	return out
}

// SetLevelsMajorFirst stores cols, given major first, as levels ordered minor
// to major.
func (i *ReportInfo) SetLevelsMajorFirst(cols []string) {
	i.Levels = make([]string, 0, len(cols))
	for k := len(cols) - 1; k >= 0; k-- {
		i.Levels = append(i.Levels, cols[k])
	}
}

// LevelsMajorFirst returns the levels ordered major to minor.
func (i *ReportInfo) LevelsMajorFirst() []string {
	out := make([]string, 0, len(i.Levels))
	for k := len(i.Levels) - 1; k >= 0; k-- {
		out = append(out, i.Levels[k])
	}
	return out
}
