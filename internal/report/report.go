package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/benwilkes9/ctlbreak/internal/config"
	"github.com/benwilkes9/ctlbreak/internal/controlbreak"
	"github.com/benwilkes9/ctlbreak/internal/logfile"
	"github.com/benwilkes9/ctlbreak/internal/rows"
)

// endLevel is the pseudo-level appended above the configured levels. Its
// value is true once the input is exhausted.
const endLevel = "__END__"

// ErrUnsorted is returned when a group reappears after it was closed.
var ErrUnsorted = errors.New("input is not sorted by the configured levels")

// Tracer receives one record per test cycle.
type Tracer interface {
	Record(rec logfile.Record) error
}

// Options configures a report run.
type Options struct {
	Style         string
	NoColor       bool
	AllowUnsorted bool
	Logger        logr.Logger
	Trace         Tracer
}

// Stats summarises a finished run.
type Stats struct {
	Title string
	Rows  int
	// Levels are the configured level names, minor to major.
	Levels []string
	// Groups counts closed groups per level name.
	Groups map[string]int
	Total  float64
}

type runner struct {
	cfg     *config.Config
	tr      *controlbreak.Tracker
	out     Printer
	opts    *Options
	log     logr.Logger
	names   []string
	keyPos  []int
	acc     []float64
	closed  []map[string]bool
	stats   *Stats
	emitErr error
}

// Run reads src to the end, printing a subtotal each time a group closes and
// a grand total after the last row.
func Run(ctx context.Context, cfg *config.Config, src rows.Source, w io.Writer, opts *Options) (*Stats, error) {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	tr, err := cfg.Tracker(endLevel)
	if err != nil {
		return nil, err
	}
	names := cfg.LevelNames()
	keys := cfg.Keys
	if len(keys) == 0 {
		for i := len(names) - 1; i >= 0; i-- {
			keys = append(keys, names[i])
		}
	}

	out, err := NewPrinter(w, opts.Style, cfg.Title, len(names), opts.NoColor)
	if err != nil {
		return nil, err
	}

	r := &runner{
		cfg:    cfg,
		tr:     tr,
		out:    out,
		opts:   opts,
		log:    log,
		names:  names,
		keyPos: make([]int, len(keys)),
		acc:    make([]float64, len(names)),
		closed: make([]map[string]bool, len(names)),
		stats: &Stats{
			Title:  cfg.Title,
			Levels: names,
			Groups: make(map[string]int, len(names)),
		},
	}
	for i, k := range keys {
		l, err := tr.Level(controlbreak.Name(k))
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}
		r.keyPos[i] = l.Position
	}
	for i := range r.closed {
		r.closed[i] = make(map[string]bool)
	}

	if err := r.loop(ctx, src); err != nil {
		return r.stats, err
	}
	if err := out.Flush(); err != nil {
		return r.stats, err
	}

	log.Info("report complete", "rows", r.stats.Rows, "total", formatAmount(r.stats.Total))
	return r.stats, nil
}

func (r *runner) loop(ctx context.Context, src rows.Source) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := src.Next()
		end := errors.Is(err, io.EOF)
		if err != nil && !end {
			return fmt.Errorf("reading row: %w", err)
		}

		values := make([]any, len(r.names))
		var amount float64
		if !end {
			if amount, err = r.extract(row, values); err != nil {
				return err
			}
		}

		level, err := r.tr.TestAndDo(values, end, r.closeGroups)
		if err != nil {
			return fmt.Errorf("testing row: %w", err)
		}
		if r.emitErr != nil {
			return r.emitErr
		}
		if err := r.trace(row, values, end); err != nil {
			return err
		}
		if end {
			return nil
		}

		if err := r.checkSorted(row, level); err != nil {
			return err
		}

		for i := range r.acc {
			r.acc[i] += amount
		}
		r.stats.Total += amount
		r.stats.Rows++
		r.tr.Continue()
	}
}

// extract fills values with the row's level columns and returns its amount.
func (r *runner) extract(row *rows.Row, values []any) (float64, error) {
	for i, name := range r.names {
		v, ok := row.Get(name)
		if !ok {
			return 0, fmt.Errorf("line %d: missing level column %q", row.Line, name)
		}
		values[i] = v
	}

	raw, ok := row.Get(r.cfg.Sum)
	if !ok {
		return 0, fmt.Errorf("line %d: missing sum column %q", row.Line, r.cfg.Sum)
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: sum column %q: %w", row.Line, r.cfg.Sum, err)
	}
	return amount, nil
}

// closeGroups runs inside TestAndDo: every level at or below the break
// closes, minor first, using the committed keys of the finished group.
func (r *runner) closeGroups() {
	if r.tr.LevelNum() == 0 {
		return
	}
	r.log.V(1).Info("break", "iteration", r.tr.Iteration(), "level", r.tr.LevelName())

	for pos := 1; pos <= len(r.names); pos++ {
		broken, err := r.tr.Break(controlbreak.Pos(pos))
		if err != nil {
			r.emitErr = err
			return
		}
		if !broken {
			break
		}
		if err := r.emitSubtotal(pos); err != nil {
			r.emitErr = err
			return
		}
	}

	end, err := r.tr.Break(controlbreak.Name(endLevel))
	if err != nil {
		r.emitErr = err
		return
	}
	if end && r.cfg.WantGrandTotal() {
		fields := make([]string, len(r.keyPos))
		fields[0] = "Grand total"
		r.emitErr = r.out.Print(Line{Depth: 0, Fields: fields, Total: formatAmount(r.stats.Total)})
	}
}

func (r *runner) emitSubtotal(pos int) error {
	fields := make([]string, len(r.keyPos))
	for i, kp := range r.keyPos {
		if kp < pos {
			continue
		}
		v, err := r.tr.Last(controlbreak.Pos(kp))
		if err != nil {
			return err
		}
		fields[i] = fmt.Sprint(v)
		if kp == pos && pos > 1 {
			fields[i] += " total"
		}
	}

	path, err := r.groupPath(pos, func(p int) (string, error) {
		v, err := r.tr.Last(controlbreak.Pos(p))
		return fmt.Sprint(v), err
	})
	if err != nil {
		return err
	}
	r.closed[pos-1][path] = true

	name := r.names[pos-1]
	r.stats.Groups[name]++
	total := r.acc[pos-1]
	r.acc[pos-1] = 0

	r.log.V(1).Info("group closed", "level", name, "group", strings.ReplaceAll(path, "\x00", "/"), "total", formatAmount(total))
	return r.out.Print(Line{Depth: pos, Fields: fields, Total: formatAmount(total)})
}

// groupPath identifies the group at pos by the values of pos and every more
// major configured level.
func (r *runner) groupPath(pos int, value func(p int) (string, error)) (string, error) {
	parts := make([]string, 0, len(r.names)-pos+1)
	for p := len(r.names); p >= pos; p-- {
		v, err := value(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "\x00"), nil
}

func (r *runner) checkSorted(row *rows.Row, level int) error {
	if level == 0 {
		return nil
	}
	for pos := 1; pos <= level && pos <= len(r.names); pos++ {
		path, err := r.groupPath(pos, func(p int) (string, error) {
			v, _ := row.Get(r.names[p-1])
			return v, nil
		})
		if err != nil {
			return err
		}
		if !r.closed[pos-1][path] {
			continue
		}
		if !r.opts.AllowUnsorted {
			return fmt.Errorf("line %d: %s %q seen again: %w", row.Line, r.names[pos-1], strings.ReplaceAll(path, "\x00", "/"), ErrUnsorted)
		}
		r.log.Info("group reopened", "line", row.Line, "level", r.names[pos-1])
	}
	return nil
}

func (r *runner) trace(row *rows.Row, values []any, end bool) error {
	if r.opts.Trace == nil {
		return nil
	}
	rec := logfile.Record{
		Iteration: r.tr.Iteration(),
		LevelNum:  r.tr.LevelNum(),
		LevelName: r.tr.LevelName(),
		Values:    make([]string, len(values), len(values)+1),
	}
	if row != nil {
		rec.Line = row.Line
	}
	for i, v := range values {
		if v != nil {
			rec.Values[i] = fmt.Sprint(v)
		}
	}
	rec.Values = append(rec.Values, strconv.FormatBool(end))
	return r.opts.Trace.Record(rec)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
