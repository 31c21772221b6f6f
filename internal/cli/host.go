package cli

import (
	"fmt"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newHostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Host dashboard operations",
	}

	cmd.AddCommand(newHostLoginCmd())
	cmd.AddCommand(newHostLogoutCmd())
	cmd.AddCommand(newHostCodeCmd())
	cmd.AddCommand(newHostOpenCmd())
	cmd.AddCommand(newHostCloseCmd())
	cmd.AddCommand(newHostCapacityCmd())

	return cmd
}

func newHostLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as the host and open the room",
		Long: `Verify the host password and mark the host as present.

The session token is saved to the token file for subsequent commands.
If --password is not given, the password is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Println()
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(raw)
			}

			var result HostLoginResult
			body := map[string]string{"password": password}
			if err := client.Post("/api/v1/host/login", body, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			client.SetToken(result.SessionToken)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Host password (prompted if omitted)")

	return cmd
}

func newHostLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out, close the room and clear all players",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/host/logout", nil, nil); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out; room reset")
			return nil
		},
	}
}

func newHostCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "code",
		Short: "Regenerate the access code",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room
			if err := client.Post("/api/v1/room/code", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newHostOpenCmd() *cobra.Command {
	return newSetActiveCmd("open", "Open the room to players", true)
}

func newHostCloseCmd() *cobra.Command {
	return newSetActiveCmd("close", "Close the room to players", false)
}

func newSetActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room
			body := map[string]bool{"active": active}
			if err := client.Patch("/api/v1/room/active", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newHostCapacityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capacity <max-players>",
		Short: "Set the player cap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxPlayers, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid capacity %q", args[0])
			}

			var result Room
			body := map[string]int{"max_players": maxPlayers}
			if err := client.Patch("/api/v1/room/capacity", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
