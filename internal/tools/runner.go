package tools

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

// ExitNotFound is reported when the command binary cannot be started.
const ExitNotFound int32 = 127

// CommandResult captures one finished command.
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int32
}

// StderrLine returns stderr trimmed to its last non-empty line.
func (r CommandResult) StderrLine() string {
	lines := strings.Split(strings.TrimSpace(string(r.Stderr)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// CommandRunner abstracts process execution for build collaborators.
type CommandRunner interface {
	Run(dir string, name string, args ...string) (CommandResult, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// Run starts name in dir and waits for it. A non-nil error is returned
// together with the captured output whenever the exit code is non-zero.
func (r ExecRunner) Run(dir string, name string, args ...string) (CommandResult, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = int32(exitErr.ExitCode())
		return res, err
	}

	res.ExitCode = 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		res.ExitCode = ExitNotFound
	}
	return res, err
}
