package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Notes.Dir = filepath.Join(dir, "notes")
	cfg.App.LogFile = filepath.Join(dir, "scribe.log")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRun_SessionEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	script := "deploy with blue green\n:tag ops\n:save runbook\n:find green\n:stats\n:q\n"
	var out bytes.Buffer

	err := Run(context.Background(), WithConfig(cfg), WithIO(strings.NewReader(script), &out))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{
		"[+] saved as runbook.md",
		"  runbook.md: deploy with blue",
		"Current Note: runbook.md",
		"most used tags: ops (1)",
		"[+] ciao.",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Notes.Dir, "runbook.md")); err != nil {
		t.Errorf("note not written: %v", err)
	}
	if _, err := os.Stat(cfg.IndexPath()); err != nil {
		t.Errorf("catalog not created: %v", err)
	}
	if _, err := os.Stat(cfg.App.LogFile); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestRun_IndexDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Index.Enabled = false
	cfg.Watch.Enabled = false
	var out bytes.Buffer

	err := Run(context.Background(), WithConfig(cfg), WithIO(strings.NewReader(":find x\n"), &out))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "[-] index disabled") {
		t.Errorf("output:\n%s", out.String())
	}
	if _, err := os.Stat(cfg.IndexPath()); !os.IsNotExist(err) {
		t.Errorf("catalog created while disabled: %v", err)
	}
}
