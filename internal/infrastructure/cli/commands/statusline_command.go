package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/paceline/paceline/internal/app"
)

// NewStatuslineCommand creates the statusline command
func NewStatuslineCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "statusline",
		Short: "Render the status line from a stdin snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer container.Close()

			// A stdin read error is treated like empty input; segments render
			// their placeholder states.
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				raw = nil
			}

			line, err := container.Statusline.Run(cmd.Context(), raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
}
