package shader

import (
	"errors"
	"fmt"
)

// ErrCompileFailure marks every failure reported by a shader collaborator.
var ErrCompileFailure = errors.New("shader: compile failure")

// CompileError describes a failure for one source file.
type CompileError struct {
	Source  string
	Profile string
	Target  Target
	Err     error
}

func (e *CompileError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("compile %s [%s]: %v", e.Source, e.Profile, e.Err)
	}
	return fmt.Sprintf("compile %s [%s/%s]: %v", e.Source, e.Profile, e.Target, e.Err)
}

func (e *CompileError) Unwrap() []error {
	return []error{ErrCompileFailure, e.Err}
}

// CommandError describes a failed external compiler invocation.
type CommandError struct {
	Command  string
	ExitCode int32
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	switch {
	case e.Stderr != "":
		return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, e.Stderr)
	case e.Err != nil:
		return fmt.Sprintf("%s exited with status %d: %v", e.Command, e.ExitCode, e.Err)
	default:
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrCompileFailure, e.Err}
}
