package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chimgan/sales/internal/auth"
	"github.com/chimgan/sales/internal/services"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Find and moderate accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List accounts, optionally filtered by e-mail or name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		search := ""
		if len(args) == 1 {
			search = args[0]
		}
		ctx, done, err := connect(cmd)
		if err != nil {
			return err
		}
		defer done()
		users, err := current.users.List(ctx, search)
		if err != nil {
			return err
		}
		for _, u := range users {
			blocked := ""
			if u.BlockedFromPosting {
				blocked = "  [blocked]"
			}
			fmt.Printf("%s  %-32s %s%s\n", u.ID, u.Email, u.DisplayName, blocked)
		}
		return nil
	},
}

func blockCommand(use, short string, blocked bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [email]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done, err := connect(cmd)
			if err != nil {
				return err
			}
			defer done()
			user, err := current.users.FindByEmail(ctx, args[0])
			if err != nil {
				return err
			}
			if _, err := current.users.AdminUpdate(ctx, user.ID, services.AdminUserUpdate{BlockedFromPosting: &blocked}); err != nil {
				return err
			}
			fmt.Printf("%s blocked_from_posting=%t\n", user.Email, blocked)
			return nil
		},
	}
}

// hashPasswordCmd prints a value for ADMIN_PASSWORD_HASH. It needs no store.
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Read a password from stdin and print its bcrypt hash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return fmt.Errorf("empty password")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(
		usersListCmd,
		blockCommand("block", "Stop an account from posting items", true),
		blockCommand("unblock", "Allow an account to post items again", false),
	)
	rootCmd.AddCommand(usersCmd, hashPasswordCmd)
}
