package cli

import (
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the room and its players",
		Long: `Fetch the current room snapshot.

The access code is only included when a valid host token is present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Snapshot

			if err := client.Get("/api/v1/room", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
