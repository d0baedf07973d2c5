package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/domain"
)

var reviewCmd = &cobra.Command{
	Use:     "review",
	Short:   "Moderate customer reviews",
	Aliases: []string{"reviews"},
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		result, err := a.ctl.Reviews.List(cmd.Context(), domain.ReviewStatus(status), page, perPage)
		if err != nil {
			return err
		}
		return printYAML(result)
	},
}

func moderateCmd(use, short string, status domain.ReviewStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := a.ctl.Reviews.Moderate(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			return printYAML(r)
		},
	}
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.ctl.Reviews.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Review deleted.")
		return nil
	},
}

func init() {
	reviewListCmd.Flags().String("status", "", "filter by status (PENDING, APPROVED, REJECTED)")
	reviewListCmd.Flags().Int("page", 0, "page number")
	reviewListCmd.Flags().Int("per-page", 0, "items per page")

	reviewCmd.AddCommand(
		reviewListCmd,
		moderateCmd("approve", "Approve a review", domain.ReviewApproved),
		moderateCmd("reject", "Reject a review", domain.ReviewRejected),
		reviewDeleteCmd,
	)
}
