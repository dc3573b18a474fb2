package main

import (
	"fmt"
	"io"
	"os"

	"github.com/danmuck/postbuild/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	cmd := newRootCmd(os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		output   string
		input    string
		validate bool
		force    bool
	)
	cmd := &cobra.Command{
		Use:           "configgen",
		Short:         "Write or validate a postbuild.toml",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if validate {
				path := input
				if path == "" {
					path = config.FileName
				}
				if _, err := config.Load(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "Validated config at %s\n", path)
				return nil
			}

			target := output
			if target == "" {
				target = config.FileName
			}
			if err := config.WriteTemplate(target, force); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote config template to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output path for the config template (default postbuild.toml)")
	cmd.Flags().StringVar(&input, "input", "", "config path for validation (default postbuild.toml)")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate an existing config file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")
	return cmd
}
