package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestWriteThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postbuild.toml")

	out, err := execute(t, "--output", path)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(out, "Wrote config template") {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := execute(t, "--output", path); err == nil {
		t.Fatalf("expected refusal to overwrite without --force")
	}
	if _, err := execute(t, "--output", path, "--force"); err != nil {
		t.Fatalf("force write: %v", err)
	}

	out, err = execute(t, "--validate", "--input", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "Validated config") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postbuild.toml")
	if err := os.WriteFile(path, []byte("[shaders]\nbackend = \"fxc\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := execute(t, "--validate", "--input", path); err == nil {
		t.Fatalf("expected validation error")
	}
}
