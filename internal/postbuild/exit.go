package postbuild

import (
	"errors"

	"github.com/danmuck/postbuild/internal/config"
	"github.com/danmuck/postbuild/internal/provision"
	"github.com/danmuck/postbuild/internal/shader"
)

const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitUsage            = 2
	ExitPathConflict     = 3
	ExitPermissionDenied = 4
	ExitCompileFailure   = 5
)

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, provision.ErrPathConflict):
		return ExitPathConflict
	case errors.Is(err, provision.ErrPermissionDenied):
		return ExitPermissionDenied
	case errors.Is(err, shader.ErrCompileFailure):
		return ExitCompileFailure
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitUsage
	default:
		return ExitFailure
	}
}
