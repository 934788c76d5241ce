package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/termhost/internal/providers/shell"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var shellType, dir string

	cmd := &cobra.Command{
		Use:   "run [flags] -- command...",
		Short: "Run a one-shot command and print its combined output",
		Example: `  termhost run --shell bash -- 'ls -la | head'
  termhost run --shell cmd --dir C:\Users -- dir`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := shell.NewRunner(opts.logger.Logger).
				WithTimeout(opts.config.Command.Timeout.Std())

			result, err := runner.Run(cmd.Context(), types.ParseShellFamily(shellType), strings.Join(args, " "), dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, result.Output)
			if result.Output != "" && !strings.HasSuffix(result.Output, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&shellType, "shell", "", "shell family: powershell, cmd, bash, zsh (default: platform shell)")
	cmd.Flags().StringVar(&dir, "dir", "", "working directory (default: home directory)")
	return cmd
}
