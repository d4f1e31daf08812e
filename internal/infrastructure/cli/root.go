package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/paceline/paceline/internal/app"
	"github.com/paceline/paceline/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Running paceline with no
// subcommand renders the status line, which is the hot path editors invoke on
// every prompt.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	statuslineCmd := commands.NewStatuslineCommand(container)

	root := &cobra.Command{
		Use:   "paceline",
		Short: "paceline - powerline status line with spend telemetry",
		Long:  "paceline reads a session snapshot on stdin and prints one colorized status line summarizing directory, git, usage cost, spend pace, context window and time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return statuslineCmd.RunE(statuslineCmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(statuslineCmd)
	root.AddCommand(commands.NewPruneCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}
