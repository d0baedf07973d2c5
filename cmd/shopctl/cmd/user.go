package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/domain"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Short:   "Manage platform accounts",
	Aliases: []string{"users"},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		role, _ := cmd.Flags().GetString("role")
		search, _ := cmd.Flags().GetString("search")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		result, err := a.ctl.Users.List(cmd.Context(), domain.Role(role), search, page, perPage)
		if err != nil {
			return err
		}
		return printYAML(result)
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		u, err := a.ctl.Users.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printYAML(u)
	},
}

var userSetRoleCmd = &cobra.Command{
	Use:   "set-role ID ROLE",
	Short: "Change a user's role (ADMIN or CUSTOMER)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := domain.Role(args[1])
		if role != domain.RoleAdmin && role != domain.RoleCustomer {
			return fmt.Errorf("unknown role %q", args[1])
		}

		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		u, err := a.ctl.Users.SetRole(cmd.Context(), args[0], role)
		if err != nil {
			return err
		}
		return printYAML(u)
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.ctl.Users.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("User deleted.")
		return nil
	},
}

func init() {
	userListCmd.Flags().String("role", "", "filter by role")
	userListCmd.Flags().String("search", "", "search by name or email")
	userListCmd.Flags().Int("page", 0, "page number")
	userListCmd.Flags().Int("per-page", 0, "items per page")

	userCmd.AddCommand(userListCmd, userGetCmd, userSetRoleCmd, userDeleteCmd)
}
