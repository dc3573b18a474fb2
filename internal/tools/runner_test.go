package tools

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecRunnerSuccessRunsInDir(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()

	res, err := ExecRunner{}.Run(dir, sh, "-c", "pwd; touch marker")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
	if _, err := os.Stat(filepath.Join(dir, "marker")); err != nil {
		t.Fatalf("expected command to run inside dir: %v", err)
	}
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	sh := requireShell(t)

	res, err := ExecRunner{}.Run(t.TempDir(), sh, "-c", "echo first >&2; echo 'bad shader' >&2; exit 3")
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.ExitCode != 3 {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
	if got := res.StderrLine(); got != "bad shader" {
		t.Fatalf("unexpected stderr line: %q", got)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	res, err := ExecRunner{}.Run(t.TempDir(), "postbuild-definitely-missing-binary")
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.ExitCode != ExitNotFound {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
}
