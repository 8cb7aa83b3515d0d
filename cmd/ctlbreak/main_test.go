package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var citiesReport = []string{
	"Canada,Alberta,1019942",
	"Canada,Ontario,3412129",
	"Canada,Quebec,2397919",
	"Canada total,,6829990",
	"USA,Arizona,1640641",
	"USA,California,4946673",
	"USA,Illinois,2756546",
	"USA,New York,9211759",
	"USA,Pennsylvania,1619355",
	"USA,Texas,2345606",
	"USA total,,22520580",
	"Grand total,,29350570",
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".ctlbreak"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ctlbreak", "config.yaml"),
		[]byte("input: cities.csv\nlevels: [District, Country]\nsum: Population\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cities.csv"), []byte(citiesCSV), 0o600))
	return dir
}

func TestSynopsis(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runSynopsis(&buf))

	assert.Equal(t, citiesReport, strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"))
}

func TestSynopsis_ReturnsErrors(t *testing.T) {
	var buf bytes.Buffer
	err := synopsis(&buf, strings.NewReader("Country,District,Population\nCanada,Alberta,many\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	buf.Reset()
	err = synopsis(&buf, strings.NewReader("Country,District,Population\nCanada,Alberta\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading sample")
	assert.Empty(t, buf.String())
}

func TestSynopsis_EmptyInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, synopsis(&buf, strings.NewReader("Country,District,Population\n")))
	assert.Empty(t, buf.String())
}

func TestReportCmd_MatchesSynopsis(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "report", "--config", dir)
	require.NoError(t, err)
	assert.Equal(t, citiesReport, strings.Split(strings.TrimRight(out, "\n"), "\n"))
}

func TestReportCmd_SummaryAndTrace(t *testing.T) {
	dir := setupProject(t)
	traceDir := filepath.Join(dir, "trace")

	out, err := execute(t, "report", "-C", dir, "--summary", "--trace-dir", traceDir, "--style", "text", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "REPORT SUMMARY")
	assert.Contains(t, out, "Grand total: 29350570")

	entries, err := os.ReadDir(traceDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(traceDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, 15, strings.Count(string(data), "\n"))
}

func TestReportCmd_Errors(t *testing.T) {
	_, err := execute(t, "report", "--config", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ctlbreak init")

	dir := setupProject(t)
	_, err = execute(t, "report", "--config", dir, "--input", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLevelsCmd(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "levels", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1  District  eq")
	assert.Contains(t, out, "2  Country  eq")
}

func TestInitCmd_Plain(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cities.csv")
	require.NoError(t, os.WriteFile(input, []byte(citiesCSV), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("\n\n\n"))
	cmd.SetArgs([]string{"init", input, "--plain", "--config", dir})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "created")

	report, err := execute(t, "report", "--config", dir)
	require.NoError(t, err)
	assert.Equal(t, citiesReport, strings.Split(strings.TrimRight(report, "\n"), "\n"))
}
