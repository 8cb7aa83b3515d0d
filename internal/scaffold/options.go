package scaffold

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/huh"
)

// option creates a huh select option with a multiline key showing
// the value and a description underneath.
func option(value, description string) huh.Option[string] {
	key := fmt.Sprintf("%s\n    %s", value, description)
	return huh.NewOption(key, value)
}

// levelOptions offers every level candidate in file order, preselecting the
// detected levels.
func levelOptions(info *ReportInfo) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, c := range info.LevelCandidates() {
		opt := huh.NewOption(c, c)
		if slices.Contains(info.Levels, c) {
			opt = opt.Selected(true)
		}
		opts = append(opts, opt)
	}
	return opts
}

// sumOptions offers numeric columns first, then the rest.
func sumOptions(info *ReportInfo) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, c := range info.Numeric {
		opts = append(opts, option(c, "numeric in the first row"))
	}
	for _, c := range info.Columns {
		if !slices.Contains(info.Numeric, c) {
			opts = append(opts, option(c, "not numeric in the first row"))
		}
	}
	return opts
}

// orderLevels sorts selected columns by file order (major first), since
// files are expected to be sorted by their leading key columns.
func orderLevels(info *ReportInfo, selected []string) []string {
	var out []string
	for _, c := range info.Columns {
		if slices.Contains(selected, c) {
			out = append(out, c)
		}
	}
	return out
}
