package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benwilkes9/ctlbreak/internal/config"
)

// Check runs pre-flight validation before a report run. It verifies that the
// config exists and that input names a readable regular file ("-" is stdin
// and is not checked).
func Check(root, input string) error {
	// 1. Config must exist locally.
	if _, err := os.Stat(config.Path(root)); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%q not found, run \"ctlbreak init <input>\" first", filepath.Join(config.Dir, config.File))
	} else if err != nil {
		return fmt.Errorf("preflight: checking config: %w", err)
	}

	if input == "" || input == "-" {
		return nil
	}

	// 2. Input must be a regular file we can open.
	info, err := os.Stat(input)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("preflight: input %q does not exist", input)
	} else if err != nil {
		return fmt.Errorf("preflight: checking input: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("preflight: input %q is not a regular file", input)
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("preflight: opening input: %w", err)
	}
	return f.Close()
}
