package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MDVIEW_THEME", "")
	t.Setenv("MDVIEW_WIDTH", "")
	t.Setenv("MDVIEW_OSC8", "")
	t.Setenv("MDVIEW_CACHE_DIR", t.TempDir())
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func TestRunListThemes(t *testing.T) {
	isolateConfig(t)
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--list-themes"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	names := strings.Fields(stdout.String())
	if len(names) < 2 || !contains(names, "default") || !contains(names, "light") {
		t.Fatalf("unexpected themes: %v", names)
	}
}

func TestRunPrintsPlainDocument(t *testing.T) {
	isolateConfig(t)
	path := writeDoc(t, "# Title\n\nSome *emphasis*.\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--plain", "-w", "40", path}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (stderr %q)", err, stderr.String())
	}
	if got, want := stdout.String(), "# Title\n\nSome emphasis.\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunPrintsStyledDocumentFromStdin(t *testing.T) {
	isolateConfig(t)
	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader("**bold** and [link](https://example.com/)\n")
	if err := run([]string{"--osc8", "on", "--width", "60", "--no-images"}, stdin, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "\x1b[1m") {
		t.Fatalf("expected bold SGR in %q", out)
	}
	if !strings.Contains(out, "\x1b]8;;https://example.com/\x1b\\") {
		t.Fatalf("expected OSC 8 hyperlink in %q", out)
	}
}

func TestRunRejectsExtraArguments(t *testing.T) {
	isolateConfig(t)
	var stdout, stderr bytes.Buffer
	err := run([]string{"a.md", "b.md"}, nil, &stdout, &stderr)
	var usage usageError
	if !errors.As(err, &usage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRunRejectsUnknownTheme(t *testing.T) {
	isolateConfig(t)
	path := writeDoc(t, "text\n")
	var stdout, stderr bytes.Buffer
	err := run([]string{"--theme", "neon", "--print", path}, nil, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "neon") {
		t.Fatalf("expected unknown theme error, got %v", err)
	}
}

func TestRunRequiresExplicitConfig(t *testing.T) {
	isolateConfig(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--config", missing, "--print", "-"}, strings.NewReader("x"), &stdout, &stderr); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestRunHelp(t *testing.T) {
	isolateConfig(t)
	var stdout, stderr bytes.Buffer
	err := run([]string{"--help"}, nil, &stdout, &stderr)
	if !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage: mdview") {
		t.Fatalf("usage not printed: %q", stderr.String())
	}
}

func TestResolveWidth(t *testing.T) {
	var buf bytes.Buffer
	if got := resolveWidth(42, &buf); got != 42 {
		t.Fatalf("explicit width = %d", got)
	}
	t.Setenv("COLUMNS", "99")
	if got := resolveWidth(0, &buf); got != 99 {
		t.Fatalf("COLUMNS width = %d", got)
	}
	t.Setenv("COLUMNS", "")
	if got := resolveWidth(0, &buf); got != defaultWidth {
		t.Fatalf("fallback width = %d", got)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
