package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/cvpchart/pkg/buildinfo"
)

func restoreBuildinfo(t *testing.T) {
	t.Helper()
	v, c, d := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() {
		buildinfo.Version, buildinfo.Commit, buildinfo.Date = v, c, d
	})
}

func TestSetVersion(t *testing.T) {
	restoreBuildinfo(t)
	SetVersion("1.0.0", "abc123", "2024-01-01")

	if buildinfo.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", buildinfo.Version, "1.0.0")
	}
	if buildinfo.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", buildinfo.Commit, "abc123")
	}
	if buildinfo.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", buildinfo.Date, "2024-01-01")
	}
}

func TestSetVersionEmptyKeepsValues(t *testing.T) {
	restoreBuildinfo(t)
	SetVersion("1.0.0", "abc123", "2024-01-01")
	SetVersion("", "", "")

	if buildinfo.Version != "1.0.0" {
		t.Errorf("Version = %q, want unchanged", buildinfo.Version)
	}
	if buildinfo.Commit != "abc123" {
		t.Errorf("Commit = %q, want unchanged", buildinfo.Commit)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"calc", "layout", "render", "preview", "explore", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	restoreBuildinfo(t)
	buildinfo.Version = "v9.9.9"

	root := New(io.Discard, LogInfo).RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(buf.String(), "v9.9.9") {
		t.Errorf("version output = %q", buf.String())
	}
}
