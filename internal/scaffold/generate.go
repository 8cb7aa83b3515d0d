package scaffold

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/benwilkes9/ctlbreak/internal/config"
)

//go:embed all:templates
var templateFS embed.FS

// funcMap provides helper functions available in all templates.
var funcMap = template.FuncMap{
	"quote": strconv.Quote,
}

// gitignoreEntries are lines to append to .gitignore idempotently.
var gitignoreEntries = []string{
	".ctlbreak/trace/",
}

// GenerateResult tracks which files were created or skipped.
type GenerateResult struct {
	Created []string
	Skipped []string
}

// Generate renders the config into root. An existing config is kept unless
// force is set.
func Generate(root string, info *ReportInfo, force bool) (*GenerateResult, error) {
	result := &GenerateResult{}
	rel := filepath.Join(config.Dir, config.File)
	outputPath := config.Path(root)

	if fileExists(outputPath) && !force {
		result.Skipped = append(result.Skipped, rel)
	} else {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", rel, err)
		}

		tmplContent, err := templateFS.ReadFile("templates/config.yaml.tmpl")
		if err != nil {
			return nil, fmt.Errorf("reading template: %w", err)
		}
		tmpl, err := template.New("config.yaml").Funcs(funcMap).Parse(string(tmplContent))
		if err != nil {
			return nil, fmt.Errorf("parsing template: %w", err)
		}
		if err := renderToFile(outputPath, tmpl, info); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rel, err)
		}
		result.Created = append(result.Created, rel)
	}

	if err := appendGitignore(root, result); err != nil {
		return nil, err
	}
	return result, nil
}

func renderToFile(path string, tmpl *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	execErr := tmpl.Execute(f, data)
	closeErr := f.Close()
	if execErr != nil {
		return execErr
	}
	return closeErr
}

func appendGitignore(root string, result *GenerateResult) error {
	gitignorePath := filepath.Join(root, ".gitignore")

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	var toAdd []string
	for _, entry := range gitignoreEntries {
		if !containsLine(existing, entry) {
			toAdd = append(toAdd, entry)
		}
	}

	if len(toAdd) == 0 {
		return nil
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close() //nolint:errcheck // best-effort close on append

	if existing != "" && !strings.HasSuffix(existing, "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing to .gitignore: %w", err)
		}
	}

	for _, entry := range toAdd {
		if _, err := fmt.Fprintln(f, entry); err != nil {
			return fmt.Errorf("writing to .gitignore: %w", err)
		}
	}

	result.Created = append(result.Created, ".gitignore (appended)")
	return nil
}

func containsLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == strings.TrimSpace(line) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PrintSummary displays which files were created and skipped.
func PrintSummary(w io.Writer, result *GenerateResult) {
	printLine(w, "")
	for _, f := range result.Created {
		printLine(w, "  created  "+f)
	}
	for _, f := range result.Skipped {
		printLine(w, "  exists   "+f+" (use --force to overwrite)")
	}
	printLine(w, "")
	printLine(w, "Next steps:")
	printLine(w, "  1. Make sure the input is sorted by the level columns, major first")
	printLine(w, "  2. Review .ctlbreak/config.yaml")
	printLine(w, "  3. Run: ctlbreak report")
}

func printLine(w io.Writer, s string) {
	fmt.Fprintln(w, s) //nolint:errcheck // display-only
}
