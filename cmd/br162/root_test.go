package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRoundCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(in, []byte("FirstName,162_HR,HR,BA\nBabe,46.2,46.2,.342\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"round", "--in", in, "--out", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v (%s)", err, stderr.String())
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read out: %v", err)
	}
	// prefixed columns win, so the bare HR column is left alone
	if got := string(b); got != "FirstName,162_HR,HR,BA\nBabe,47,46.2,.342\n" {
		t.Fatalf("out = %q", got)
	}
	if !strings.Contains(stdout.String(), "Saved: "+out) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRoundCommand_RequiresFlags(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"round"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected missing flag error")
	}
}

func TestScrapeCommand_NoURLs(t *testing.T) {
	t.Setenv("BR_URLS_FILE", "")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"scrape"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "no urls") {
		t.Fatalf("err = %v", err)
	}
}
