package shader

import (
	"strings"

	"github.com/danmuck/postbuild/internal/tools"
	"github.com/rs/zerolog/log"
)

// ExecCompiler delegates compilation to an external command run once in Dir.
type ExecCompiler struct {
	Dir     string
	Command string
	Args    []string
	Runner  tools.CommandRunner
}

func NewExecCompiler(dir, command string, args []string, runner tools.CommandRunner) *ExecCompiler {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return &ExecCompiler{
		Dir:     dir,
		Command: command,
		Args:    append([]string(nil), args...),
		Runner:  runner,
	}
}

func (c *ExecCompiler) CompileShaders() error {
	log.Info().Str("command", c.Command).Strs("args", c.Args).Str("dir", c.Dir).Msg("running shader compiler")

	res, err := c.Runner.Run(c.Dir, c.Command, c.Args...)
	if out := strings.TrimSpace(string(res.Stdout)); out != "" {
		log.Debug().Str("command", c.Command).Msg(out)
	}
	if errOut := strings.TrimSpace(string(res.Stderr)); errOut != "" {
		log.Debug().Str("command", c.Command).Str("stream", "stderr").Msg(errOut)
	}
	if err != nil || res.ExitCode != 0 {
		cerr := &CommandError{
			Command:  c.Command,
			ExitCode: res.ExitCode,
			Err:      err,
		}
		if len(strings.TrimSpace(string(res.Stderr))) > 0 {
			cerr.Stderr = res.StderrLine()
		}
		return cerr
	}
	return nil
}
