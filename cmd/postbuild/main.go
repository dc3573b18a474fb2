package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/postbuild/internal/logging"
	"github.com/danmuck/postbuild/internal/postbuild"
	"github.com/danmuck/postbuild/internal/tools"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type options struct {
	base       string
	configPath string
	logLevel   string
	logJSON    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, tools.ExecRunner{}))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, runner tools.CommandRunner) int {
	cmd := newRootCmd(stderr, runner)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "postbuild: %v\n", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			return postbuild.ExitUsage
		}
		return postbuild.ExitCode(err)
	}
	return postbuild.ExitOK
}

type usageError struct{ error }

func newRootCmd(logOut io.Writer, runner tools.CommandRunner) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "postbuild",
		Short: "Provision build output directories and compile shaders",
		Long: `postbuild ensures target/, target/release/ and target/debug/ exist next to
the executable (or under --base), then compiles shaders exactly once.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, logOut, runner)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	cmd.Flags().StringVar(&opts.base, "base", "", "base directory (default: directory of the executable)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: <base>/postbuild.toml when present)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	cmd.Flags().BoolVar(&opts.logJSON, "log-json", false, "emit JSON log lines")
	return cmd
}

func execute(opts options, logOut io.Writer, runner tools.CommandRunner) error {
	base, err := postbuild.ResolveBase(opts.base)
	if err != nil {
		return err
	}
	cfg, cfgPath, err := postbuild.LoadConfig(base, opts.configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		if _, ok := logging.ParseLevel(opts.logLevel); !ok {
			return usageError{fmt.Errorf("invalid --log-level %q", opts.logLevel)}
		}
		level = opts.logLevel
	}
	timestamp := cfg.Log.Timestamp
	logging.ConfigureRuntime(logging.Options{
		Level:     level,
		Timestamp: &timestamp,
		NoColor:   cfg.Log.NoColor,
		JSON:      cfg.Log.JSON || opts.logJSON,
		Output:    logOut,
	})
	log.Debug().Str("base", base).Str("config", cfgPath).Msg("resolved")

	pipeline, err := postbuild.New(base, cfg, runner)
	if err != nil {
		return err
	}
	return pipeline.Run()
}
