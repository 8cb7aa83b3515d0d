package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Output styles.
const (
	StyleCSV  = "csv"
	StyleText = "text"
)

// Line is one emitted subtotal or the grand total.
type Line struct {
	// Depth is the level position that closed, 0 for the grand total.
	Depth  int
	Fields []string
	Total  string
}

// Printer renders report lines.
type Printer interface {
	Print(l Line) error
	Flush() error
}

// NewPrinter returns a printer for style writing to w. levels is the number
// of grouping levels, used to indent text output. Text output opens with
// title when it is non-empty; CSV output never carries it.
func NewPrinter(w io.Writer, style, title string, levels int, noColor bool) (Printer, error) {
	switch style {
	case StyleCSV, "":
		return &csvPrinter{w: csv.NewWriter(w)}, nil
	case StyleText:
		return newTextPrinter(w, title, levels, noColor), nil
	default:
		return nil, fmt.Errorf("unknown output style %q", style)
	}
}

type csvPrinter struct {
	w *csv.Writer
}

func (p *csvPrinter) Print(l Line) error {
	rec := make([]string, 0, len(l.Fields)+1)
	rec = append(rec, l.Fields...)
	rec = append(rec, l.Total)
	if err := p.w.Write(rec); err != nil {
		return fmt.Errorf("writing csv line: %w", err)
	}
	return nil
}

func (p *csvPrinter) Flush() error {
	p.w.Flush()
	if err := p.w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// textPrinter indents each line by how minor its level is and highlights
// the more major totals.
type textPrinter struct {
	w      io.Writer
	title  string
	titled bool
	head   *color.Color
	minor  *color.Color
	major  *color.Color
	grand  *color.Color
	amount *color.Color
	levels int
}

func newTextPrinter(w io.Writer, title string, levels int, noColor bool) *textPrinter {
	p := &textPrinter{
		w:      w,
		title:  title,
		levels: levels,
		head:   color.New(color.Bold, color.Underline),
		minor:  color.New(color.FgWhite),
		major:  color.New(color.Bold, color.FgCyan),
		grand:  color.New(color.Bold, color.FgGreen),
		amount: color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range []*color.Color{p.head, p.minor, p.major, p.grand, p.amount} {
			c.DisableColor()
		}
	}
	return p
}

func (p *textPrinter) Print(l Line) error {
	if err := p.heading(); err != nil {
		return err
	}

	var label []string
	for _, f := range l.Fields {
		if f != "" {
			label = append(label, f)
		}
	}

	style := p.major
	switch {
	case l.Depth == 0:
		style = p.grand
	case l.Depth == 1:
		style = p.minor
	}

	indent := ""
	if l.Depth > 0 {
		indent = strings.Repeat("  ", p.levels-l.Depth+1)
	}
	if _, err := fmt.Fprintf(p.w, "%s%s: %s\n", indent, style.Sprint(strings.Join(label, " / ")), p.amount.Sprint(l.Total)); err != nil {
		return fmt.Errorf("writing text line: %w", err)
	}
	return nil
}

func (p *textPrinter) Flush() error {
	return p.heading()
}

// heading writes the title once, ahead of the first line.
func (p *textPrinter) heading() error {
	if p.titled || p.title == "" {
		return nil
	}
	p.titled = true
	if _, err := fmt.Fprintf(p.w, "%s\n\n", p.head.Sprint(p.title)); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}
	return nil
}
