package scaffold

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrompts_AllDefaults(t *testing.T) {
	info := citiesInfo()
	info.Title = "cities"
	out := &bytes.Buffer{}

	err := RunPrompts(info, &PromptOptions{
		In:  strings.NewReader("\n\n\n"),
		Out: out,
	})
	require.NoError(t, err)

	assert.Equal(t, "cities", info.Title)
	assert.Equal(t, []string{"District", "Country"}, info.Levels)
	assert.Equal(t, "Population", info.Sum)
	assert.Contains(t, out.String(), "[Country,District]")
}

func TestRunPrompts_CustomValues(t *testing.T) {
	info := citiesInfo()
	input := "Populations\nCountry, District ,City\nPopulation\n"

	err := RunPrompts(info, &PromptOptions{
		In:  strings.NewReader(input),
		Out: &bytes.Buffer{},
	})
	require.NoError(t, err)

	assert.Equal(t, "Populations", info.Title)
	assert.Equal(t, []string{"City", "District", "Country"}, info.Levels)
}

func TestRunPrompts_EOFKeepsDefaults(t *testing.T) {
	info := citiesInfo()

	err := RunPrompts(info, &PromptOptions{
		In:  strings.NewReader(""),
		Out: &bytes.Buffer{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"District", "Country"}, info.Levels)
}

func TestRunPrompts_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		info  *ReportInfo
		input string
		want  string
	}{
		{"bad level name", citiesInfo(), "\nSales Region\n\n", "cannot be used as a level name"},
		{"no levels", &ReportInfo{Sum: "N"}, "\n , \n\n", "at least one level"},
		{"no sum", &ReportInfo{Levels: []string{"A"}}, "\n\n\n", "sum column is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunPrompts(tt.info, &PromptOptions{
				In:  strings.NewReader(tt.input),
				Out: &bytes.Buffer{},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
