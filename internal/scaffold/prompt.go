package scaffold

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptOptions configures input/output for interactive prompts.
type PromptOptions struct {
	In  io.Reader
	Out io.Writer
}

// RunPrompts asks the user to confirm or override detected values using
// plain line prompts.
func RunPrompts(info *ReportInfo, opts *PromptOptions) error {
	scanner := bufio.NewScanner(opts.In)

	info.Title = promptWithDefault(scanner, opts.Out,
		"Report title", info.Title)

	levels := promptWithDefault(scanner, opts.Out,
		"Level columns, major first (comma-separated)", strings.Join(info.LevelsMajorFirst(), ","))
	var cols []string
	for _, c := range strings.Split(levels, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return fmt.Errorf("at least one level column is required")
	}
	for _, c := range cols {
		if !levelName.MatchString(strings.TrimPrefix(c, "+")) {
			return fmt.Errorf("column %q cannot be used as a level name", c)
		}
	}
	info.SetLevelsMajorFirst(cols)

	info.Sum = promptWithDefault(scanner, opts.Out,
		"Sum column", info.Sum)
	if info.Sum == "" {
		return fmt.Errorf("a sum column is required")
	}

	return nil
}

//nolint:errcheck // display-only writes to terminal
func promptWithDefault(scanner *bufio.Scanner, w io.Writer, prompt, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(w, "%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Fprintf(w, "%s: ", prompt)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
