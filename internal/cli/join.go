package cli

import (
	"github.com/spf13/cobra"
)

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code> <name>",
		Short: "Join the room as a player",
		Long: `Join the room with the access code and a nickname.

The code is matched case-insensitively. Fails if the room is closed,
the code is wrong, or the room is full.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinResult
			body := map[string]string{"code": args[0], "name": args[1]}
			if err := client.Post("/api/v1/players", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
