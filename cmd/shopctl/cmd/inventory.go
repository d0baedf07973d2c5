package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/domain"
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Short:   "View and adjust stock levels",
	Aliases: []string{"stock"},
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stock records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		lowOnly, _ := cmd.Flags().GetBool("low")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		result, err := a.ctl.Inventory.List(cmd.Context(), lowOnly, page, perPage)
		if err != nil {
			return err
		}
		return printYAML(result)
	},
}

var inventoryGetCmd = &cobra.Command{
	Use:   "get PRODUCT_ID",
	Short: "Show a product's stock record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		rec, err := a.ctl.Inventory.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printYAML(rec)
	},
}

var inventoryAdjustCmd = &cobra.Command{
	Use:   "adjust PRODUCT_ID",
	Short: "Apply a signed stock delta",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, _ := cmd.Flags().GetInt("delta")
		reason, _ := cmd.Flags().GetString("reason")
		if delta == 0 {
			return errors.New("--delta must be non-zero")
		}

		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		rec, err := a.ctl.Inventory.Adjust(cmd.Context(), args[0], domain.StockAdjustment{Delta: delta, Reason: reason})
		if err != nil {
			return err
		}
		return printYAML(rec)
	},
}

func init() {
	inventoryListCmd.Flags().Bool("low", false, "only records at or below their low-stock threshold")
	inventoryListCmd.Flags().Int("page", 0, "page number")
	inventoryListCmd.Flags().Int("per-page", 0, "items per page")
	inventoryAdjustCmd.Flags().Int("delta", 0, "signed stock change")
	inventoryAdjustCmd.Flags().String("reason", "", "reason for the adjustment")

	inventoryCmd.AddCommand(inventoryListCmd, inventoryGetCmd, inventoryAdjustCmd)
}
