package summary

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/benwilkes9/ctlbreak/internal/report"
)

// innerWidth is the number of columns between the box borders.
const innerWidth = 38

// PrintBox renders the end-of-run summary box, most major level first.
// The header is bold unless noColor is set.
//
//nolint:errcheck // display-only writes to terminal
func PrintBox(w io.Writer, stats *report.Stats, wallTime time.Duration, noColor bool) {
	head := color.New(color.Bold, color.FgCyan)
	if noColor {
		head.DisableColor()
	}

	fmt.Fprintln(w, "┌"+strings.Repeat("─", innerWidth)+"┐")
	fmt.Fprintln(w, styled(head, "  REPORT SUMMARY"))
	if stats.Title != "" {
		fmt.Fprintln(w, styled(head, "  "+truncate(stats.Title, innerWidth-4)))
	}
	fmt.Fprintln(w, "├"+strings.Repeat("─", innerWidth)+"┤")
	fmt.Fprintln(w, row("Rows", strconv.Itoa(stats.Rows)))
	for i := len(stats.Levels) - 1; i >= 0; i-- {
		name := stats.Levels[i]
		fmt.Fprintln(w, row(name+" groups", strconv.Itoa(stats.Groups[name])))
	}
	fmt.Fprintln(w, row("Grand total", strconv.FormatFloat(stats.Total, 'f', -1, 64)))
	fmt.Fprintln(w, row("Wall time", formatDuration(wallTime)))
	fmt.Fprintln(w, "└"+strings.Repeat("─", innerWidth)+"┘")
}

func row(label, value string) string {
	text := fmt.Sprintf("  %-17s%s", label, value)
	return "│" + text + padding(text) + "│"
}

// styled pads text to the box width before colouring so escape codes do not
// count towards alignment.
func styled(c *color.Color, text string) string {
	return "│" + c.Sprint(text) + padding(text) + "│"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}

func padding(text string) string {
	need := innerWidth - len([]rune(text))
	if need <= 0 {
		return ""
	}
	return strings.Repeat(" ", need)
}
