package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paceline/paceline/internal/app"
)

// NewPruneCommand creates the prune command
func NewPruneCommand(container *app.Container) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete snapshots and idle sessions past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer container.Close()
			if days <= 0 {
				days = container.Config.Retention.Days
			}
			if err := container.Store.PruneOlderThan(days); err != nil {
				return fmt.Errorf("prune store: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned entries older than %d days\n", days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "retention window in days (default from config)")
	return cmd
}
