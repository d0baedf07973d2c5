package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/domain"
)

var dealCmd = &cobra.Command{
	Use:     "deal",
	Short:   "Manage promotional deals",
	Aliases: []string{"deals"},
}

func dealInputFromFlags(cmd *cobra.Command) (domain.DealInput, error) {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	productIDs, _ := cmd.Flags().GetStringSlice("products")
	discount, _ := cmd.Flags().GetInt("discount")
	startsAt, _ := cmd.Flags().GetString("starts")
	endsAt, _ := cmd.Flags().GetString("ends")
	active, _ := cmd.Flags().GetBool("active")

	input := domain.DealInput{
		Title:       title,
		Description: description,
		ProductIDs:  productIDs,
		DiscountPct: discount,
		Active:      active,
	}
	var err error
	if startsAt != "" {
		if input.StartsAt, err = time.Parse(time.RFC3339, startsAt); err != nil {
			return input, fmt.Errorf("invalid --starts (want RFC3339): %w", err)
		}
	}
	if endsAt != "" {
		if input.EndsAt, err = time.Parse(time.RFC3339, endsAt); err != nil {
			return input, fmt.Errorf("invalid --ends (want RFC3339): %w", err)
		}
	}
	return input, nil
}

func addDealFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "deal title")
	cmd.Flags().String("description", "", "deal description")
	cmd.Flags().StringSlice("products", nil, "product IDs covered by the deal")
	cmd.Flags().Int("discount", 0, "discount percentage (1-100)")
	cmd.Flags().String("starts", "", "start time, RFC3339")
	cmd.Flags().String("ends", "", "end time, RFC3339")
	cmd.Flags().Bool("active", true, "whether the deal is active")
}

var dealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		activeOnly, _ := cmd.Flags().GetBool("active-only")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		result, err := a.ctl.Deals.List(cmd.Context(), activeOnly, page, perPage)
		if err != nil {
			return err
		}
		return printYAML(result)
	},
}

var dealGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a deal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		d, err := a.ctl.Deals.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printYAML(d)
	},
}

var dealCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a deal",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := dealInputFromFlags(cmd)
		if err != nil {
			return err
		}
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		d, err := a.ctl.Deals.Create(cmd.Context(), input)
		if err != nil {
			return err
		}
		return printYAML(d)
	},
}

var dealUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a deal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := dealInputFromFlags(cmd)
		if err != nil {
			return err
		}
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		d, err := a.ctl.Deals.Update(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}
		return printYAML(d)
	},
}

var dealDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a deal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.ctl.Deals.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deal deleted.")
		return nil
	},
}

func init() {
	addDealFlags(dealCreateCmd)
	addDealFlags(dealUpdateCmd)
	dealListCmd.Flags().Bool("active-only", false, "only currently active deals")
	dealListCmd.Flags().Int("page", 0, "page number")
	dealListCmd.Flags().Int("per-page", 0, "items per page")

	dealCmd.AddCommand(dealListCmd, dealGetCmd, dealCreateCmd, dealUpdateCmd, dealDeleteCmd)
}
