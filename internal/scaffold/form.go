package scaffold

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// RunForm asks for the title, levels and sum column with an interactive form.
func RunForm(info *ReportInfo) error {
	selected := append([]string(nil), info.Levels...)
	title := info.Title
	sum := info.Sum

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Report title").
				Value(&title),
			huh.NewMultiSelect[string]().
				Title("Which columns are grouping levels?").
				Description("The input must be sorted by these columns.").
				Options(levelOptions(info)...).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return errors.New("pick at least one level")
					}
					return nil
				}).
				Value(&selected),
			huh.NewSelect[string]().
				Title("Which column is summed?").
				Options(sumOptions(info)...).
				Value(&sum),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("running form: %w", err)
	}

	info.Title = title
	info.Sum = sum
	info.SetLevelsMajorFirst(orderLevels(info, selected))
	return nil
}
