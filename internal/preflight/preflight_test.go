package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".ctlbreak"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".ctlbreak", "config.yaml"), []byte("levels: [A]\nsum: N\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCheck_MissingConfig(t *testing.T) {
	err := Check(t.TempDir(), "")
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !strings.Contains(err.Error(), `"ctlbreak init <input>"`) {
		t.Errorf("expected actionable message mentioning ctlbreak init, got: %s", err)
	}
}

func TestCheck_StdinSkipsInputChecks(t *testing.T) {
	if err := Check(setup(t), "-"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_InputMissing(t *testing.T) {
	dir := setup(t)
	err := Check(dir, filepath.Join(dir, "nope.csv"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing-input error, got: %v", err)
	}
}

func TestCheck_InputIsDirectory(t *testing.T) {
	dir := setup(t)
	err := Check(dir, dir)
	if err == nil || !strings.Contains(err.Error(), "not a regular file") {
		t.Fatalf("expected not-regular error, got: %v", err)
	}
}

func TestCheck_InputOK(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "in.csv")
	if err := os.WriteFile(input, []byte("A,N\nx,1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Check(dir, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_InputUnreadable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission check is not meaningful")
	}
	dir := setup(t)
	input := filepath.Join(dir, "locked.csv")
	if err := os.WriteFile(input, []byte("A\n"), 0o000); err != nil {
		t.Fatal(err)
	}
	if err := Check(dir, input); err == nil {
		t.Fatal("expected error for unreadable input")
	}
}
