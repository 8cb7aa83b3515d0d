package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benwilkes9/ctlbreak/internal/controlbreak"
)

func TestLoad_Valid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
title: Population
input: cities.csv
levels: [District, Country]
sum: Population
comparators:
  District: "=="
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Title != "Population" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Population")
	}
	if got := strings.Join(cfg.Keys, ","); got != "Country,District" {
		t.Errorf("Keys = %q, want major-to-minor default", got)
	}
	if cfg.Format != FormatCSV {
		t.Errorf("Format = %q, want %q", cfg.Format, FormatCSV)
	}
	if !cfg.WantGrandTotal() {
		t.Error("grand total should default to on")
	}
}

func TestLoad_DefaultFormatFromInput(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "input: rows.jsonl\nlevels: [A]\nsum: N\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Format != FormatJSONL {
		t.Errorf("Format = %q, want %q", cfg.Format, FormatJSONL)
	}
}

func TestLoad_GrandTotalOff(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "levels: [A]\nsum: N\ngrand_total: false\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WantGrandTotal() {
		t.Error("grand_total: false should disable the grand total")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{"no levels", "sum: N\n", "levels", controlbreak.ErrMissingLevels},
		{"bad level name", "levels: [a-b]\nsum: N\n", "levels", controlbreak.ErrInvalidLevelName},
		{"duplicate level", "levels: [A, +A]\nsum: N\n", "levels", controlbreak.ErrDuplicateLevelName},
		{"no sum", "levels: [A]\n", "sum column", nil},
		{"bad format", "levels: [A]\nsum: N\nformat: xml\n", "format", nil},
		{"unknown comparator level", "levels: [A]\nsum: N\ncomparators: {B: eq}\n", "comparators.B", controlbreak.ErrInvalidLevel},
		{"bad comparator token", "levels: [A]\nsum: N\ncomparators: {A: ne}\n", "comparators.A", controlbreak.ErrInvalidOperator},
		{"unknown key", "levels: [A, B]\nsum: N\nkeys: [A, C]\n", "keys", nil},
		{"partial keys", "levels: [A, B]\nsum: N\nkeys: [A]\n", "keys", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want mention of %q", err.Error(), tt.want)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want errors.Is %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FileTooLarge(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, Dir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		t.Fatal(err)
	}
	large := strings.Repeat("x", maxConfigSize+1)
	if err := os.WriteFile(filepath.Join(configDir, File), []byte(large), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for oversized config")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %q, want mention of too large", err.Error())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ":\n  bad:\nyaml: [")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestTracker_AppliesOverridesAndExtras(t *testing.T) {
	cfg, err := Parse([]byte("levels: [District, +Zip]\nsum: N\ncomparators: {Zip: eq}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr, err := cfg.Tracker("EOF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(tr.Levels(), ","); got != "District,Zip,EOF" {
		t.Errorf("Levels = %q", got)
	}
	zip, err := tr.Level(controlbreak.Name("Zip"))
	if err != nil {
		t.Fatal(err)
	}
	if zip.Comparator.String() != controlbreak.TokenString {
		t.Errorf("Zip comparator = %q, want override %q", zip.Comparator.String(), controlbreak.TokenString)
	}
}

func TestLevelNames_StripsPrefix(t *testing.T) {
	cfg := &Config{Levels: []string{"+Zip", "City"}}
	if got := strings.Join(cfg.LevelNames(), ","); got != "Zip,City" {
		t.Errorf("LevelNames = %q", got)
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, Dir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, File), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
