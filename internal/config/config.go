package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benwilkes9/ctlbreak/internal/controlbreak"
)

// Input formats.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// Dir and File locate the config relative to a project root.
const (
	Dir  = ".ctlbreak"
	File = "config.yaml"
)

// Config describes one grouped report, loaded from .ctlbreak/config.yaml.
type Config struct {
	Title  string `yaml:"title,omitempty"`
	Input  string `yaml:"input,omitempty"`
	Format string `yaml:"format,omitempty"`

	// Levels are level specs ordered minor to major. A "+" prefix selects
	// numeric comparison.
	Levels []string `yaml:"levels"`

	// Keys is the order key columns are printed in. Defaults to the level
	// names from major to minor.
	Keys []string `yaml:"keys,omitempty"`

	Sum         string            `yaml:"sum"`
	GrandTotal  *bool             `yaml:"grand_total,omitempty"`
	Comparators map[string]string `yaml:"comparators,omitempty"`
}

// maxConfigSize is the maximum config file size we'll read (64 KiB).
const maxConfigSize = 64 * 1024

// Path returns the config file path under root.
func Path(root string) string {
	return filepath.Join(root, Dir, File)
}

// Load reads .ctlbreak/config.yaml from the given root.
func Load(root string) (*Config, error) {
	path := Path(root)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

// Parse decodes, validates and defaults a config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("levels: %w", controlbreak.ErrMissingLevels)
	}
	// Building a throwaway tracker checks names and duplicates the same way
	// the report will.
	if _, err := controlbreak.New(c.Levels...); err != nil {
		return fmt.Errorf("levels: %w", err)
	}
	if strings.TrimSpace(c.Sum) == "" {
		return fmt.Errorf("sum column is required")
	}
	switch c.Format {
	case "", FormatCSV, FormatJSONL:
	default:
		return fmt.Errorf("format %q is not one of %s, %s", c.Format, FormatCSV, FormatJSONL)
	}

	names := c.LevelNames()
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for level, token := range c.Comparators {
		if !known[level] {
			return fmt.Errorf("comparators.%s: %w", level, controlbreak.ErrInvalidLevel)
		}
		if _, err := controlbreak.ParseComparator(token); err != nil {
			return fmt.Errorf("comparators.%s: %w", level, err)
		}
	}
	for _, k := range c.Keys {
		if !known[k] {
			return fmt.Errorf("keys: %q is not a configured level", k)
		}
	}
	if len(c.Keys) > 0 && len(c.Keys) != len(names) {
		return fmt.Errorf("keys must list every level (%d), got %d", len(names), len(c.Keys))
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = FormatCSV
		if strings.HasSuffix(c.Input, ".jsonl") {
			c.Format = FormatJSONL
		}
	}
	if len(c.Keys) == 0 {
		names := c.LevelNames()
		for i := len(names) - 1; i >= 0; i-- {
			c.Keys = append(c.Keys, names[i])
		}
	}
	if c.GrandTotal == nil {
		t := true
		c.GrandTotal = &t
	}
}

// LevelNames returns the configured level names without "+" prefixes,
// ordered minor to major.
func (c *Config) LevelNames() []string {
	names := make([]string, len(c.Levels))
	for i, spec := range c.Levels {
		names[i] = strings.TrimPrefix(spec, "+")
	}
	return names
}

// WantGrandTotal reports whether the grand total line is printed.
func (c *Config) WantGrandTotal() bool {
	return c.GrandTotal == nil || *c.GrandTotal
}

// Tracker builds a tracker for the configured levels, followed by any extra
// pseudo-levels, with comparator overrides applied.
func (c *Config) Tracker(extra ...string) (*controlbreak.Tracker, error) {
	specs := make([]string, 0, len(c.Levels)+len(extra))
	specs = append(specs, c.Levels...)
	specs = append(specs, extra...)

	tr, err := controlbreak.New(specs...)
	if err != nil {
		return nil, fmt.Errorf("building tracker: %w", err)
	}
	for level, token := range c.Comparators {
		cmp, err := controlbreak.ParseComparator(token)
		if err != nil {
			return nil, fmt.Errorf("comparator for %s: %w", level, err)
		}
		if err := tr.SetComparator(cmp, controlbreak.Name(level)); err != nil {
			return nil, fmt.Errorf("comparator for %s: %w", level, err)
		}
	}
	return tr, nil
}
