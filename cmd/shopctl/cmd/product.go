package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/cmd/shopctl/config"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/drafts"
)

var productCmd = &cobra.Command{
	Use:     "product",
	Short:   "Manage catalog products",
	Aliases: []string{"products"},
}

func productInputFromFlags(cmd *cobra.Command) domain.ProductInput {
	name, _ := cmd.Flags().GetString("name")
	slug, _ := cmd.Flags().GetString("slug")
	description, _ := cmd.Flags().GetString("description")
	price, _ := cmd.Flags().GetInt64("price")
	salePrice, _ := cmd.Flags().GetInt64("sale-price")
	brandID, _ := cmd.Flags().GetString("brand")
	categoryID, _ := cmd.Flags().GetString("category")
	tagIDs, _ := cmd.Flags().GetStringSlice("tags")
	imageIDs, _ := cmd.Flags().GetStringSlice("images")
	published, _ := cmd.Flags().GetBool("published")

	return domain.ProductInput{
		Name:        name,
		Slug:        slug,
		Description: description,
		Price:       price,
		SalePrice:   salePrice,
		BrandID:     brandID,
		CategoryID:  categoryID,
		TagIDs:      tagIDs,
		ImageIDs:    imageIDs,
		Published:   published,
	}
}

func addProductFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "product name")
	cmd.Flags().String("slug", "", "URL slug (derived server-side when omitted)")
	cmd.Flags().String("description", "", "product description")
	cmd.Flags().Int64("price", 0, "price in minor currency units")
	cmd.Flags().Int64("sale-price", 0, "sale price in minor currency units")
	cmd.Flags().String("brand", "", "brand ID")
	cmd.Flags().String("category", "", "category ID")
	cmd.Flags().StringSlice("tags", nil, "tag IDs")
	cmd.Flags().StringSlice("images", nil, "uploaded image IDs")
	cmd.Flags().Bool("published", false, "publish immediately")
}

// sectionCompletion marks which form sections the input already fills.
func sectionCompletion(input domain.ProductInput) map[string]bool {
	return map[string]bool{
		"basics":         input.Name != "",
		"pricing":        input.Price > 0,
		"classification": input.BrandID != "" && input.CategoryID != "",
		"media":          len(input.ImageIDs) > 0,
	}
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		search, _ := cmd.Flags().GetString("search")
		brandID, _ := cmd.Flags().GetString("brand")
		categoryID, _ := cmd.Flags().GetString("category")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		result, err := a.ctl.Products.List(cmd.Context(), domain.ProductQuery{
			Search:     search,
			BrandID:    brandID,
			CategoryID: categoryID,
			Page:       page,
			PerPage:    perPage,
		})
		if err != nil {
			return err
		}
		return printYAML(result)
	},
}

var productGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := a.ctl.Products.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printYAML(p)
	},
}

var productCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Long: `Create a product from flags. With --save-draft the input is stored
locally instead of being submitted; --from-draft submits a stored draft.
A failed submission is saved as a draft automatically so nothing typed is
lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		saveDraft, _ := cmd.Flags().GetBool("save-draft")
		fromDraft, _ := cmd.Flags().GetString("from-draft")

		input := productInputFromFlags(cmd)

		store, err := openDraftStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var draft *drafts.Draft
		if fromDraft != "" {
			draft, err = store.Get(fromDraft)
			if err != nil {
				return fmt.Errorf("load draft %s: %w", fromDraft, err)
			}
			input = draft.Product
		}

		if saveDraft {
			d := &drafts.Draft{Name: input.Name, Product: input, Completed: sectionCompletion(input)}
			if err := store.Save(d); err != nil {
				return err
			}
			fmt.Printf("Draft saved (%s, %d%% complete).\n", d.ID, d.Completion())
			return nil
		}

		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := a.ctl.Products.Create(cmd.Context(), input)
		if err != nil {
			d := draft
			if d == nil {
				d = &drafts.Draft{Name: input.Name, Product: input}
			}
			d.Completed = sectionCompletion(input)
			if saveErr := store.Save(d); saveErr == nil {
				fmt.Fprintf(os.Stderr, "Submission failed; input kept as draft %s.\n", d.ID)
			}
			return err
		}
		if draft != nil {
			_ = store.Delete(draft.ID)
		}
		return printYAML(p)
	},
}

var productUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := a.ctl.Products.Update(cmd.Context(), args[0], productInputFromFlags(cmd))
		if err != nil {
			return err
		}
		return printYAML(p)
	},
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.ctl.Products.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Product deleted.")
		return nil
	},
}

var productUploadImageCmd = &cobra.Command{
	Use:   "upload-image FILE",
	Short: "Upload a product image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := a.ctl.Uploads.Upload(cmd.Context(), filepath.Base(args[0]), f)
		if err != nil {
			return err
		}
		return printYAML(result)
	},
}

func openDraftStore() (*drafts.Store, error) {
	path, err := config.DraftsPath()
	if err != nil {
		return nil, err
	}
	return drafts.Open(path, drafts.DefaultTTL)
}

func init() {
	addProductFlags(productCreateCmd)
	productCreateCmd.Flags().Bool("save-draft", false, "store locally as a draft instead of submitting")
	productCreateCmd.Flags().String("from-draft", "", "submit a stored draft by ID")
	addProductFlags(productUpdateCmd)

	productListCmd.Flags().String("search", "", "search term")
	productListCmd.Flags().String("brand", "", "filter by brand ID")
	productListCmd.Flags().String("category", "", "filter by category ID")
	productListCmd.Flags().Int("page", 0, "page number")
	productListCmd.Flags().Int("per-page", 0, "items per page")

	productCmd.AddCommand(productListCmd, productGetCmd, productCreateCmd,
		productUpdateCmd, productDeleteCmd, productUploadImageCmd)
}
