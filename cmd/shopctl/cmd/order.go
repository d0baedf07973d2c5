package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/domain"
)

var orderCmd = &cobra.Command{
	Use:     "order",
	Short:   "View and progress customer orders",
	Aliases: []string{"orders"},
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		status, _ := cmd.Flags().GetString("status")
		userID, _ := cmd.Flags().GetString("user")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		result, err := a.ctl.Orders.List(cmd.Context(), domain.OrderQuery{
			Status:  domain.OrderStatus(status),
			UserID:  userID,
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			return err
		}
		return printYAML(result)
	},
}

var orderGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		o, err := a.ctl.Orders.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printYAML(o)
	},
}

var orderSetStatusCmd = &cobra.Command{
	Use:   "set-status ID STATUS",
	Short: "Move an order to a new status",
	Long:  "STATUS is one of PENDING, PAID, SHIPPED, DELIVERED, CANCELLED, REFUNDED; only legal transitions are accepted.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		order, err := a.ctl.Orders.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		updated, err := a.ctl.Orders.UpdateStatus(cmd.Context(), order, domain.OrderStatus(args[1]))
		if err != nil {
			return err
		}
		return printYAML(updated)
	},
}

func init() {
	orderListCmd.Flags().String("status", "", "filter by status")
	orderListCmd.Flags().String("user", "", "filter by customer user ID")
	orderListCmd.Flags().Int("page", 0, "page number")
	orderListCmd.Flags().Int("per-page", 0, "items per page")

	orderCmd.AddCommand(orderListCmd, orderGetCmd, orderSetStatusCmd)
}
