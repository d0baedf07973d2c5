package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/client"
	"github.com/shopkit-dev/shopctl/domain"
)

// refCommands builds the list/create/update/delete command set shared by
// brands, categories and tags.
type refOps[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, input domain.NameInput) (*T, error)
	Update(ctx context.Context, id string, input domain.NameInput) (*T, error)
	Delete(ctx context.Context, id string) error
}

func refCommands[T any](parent *cobra.Command, noun string, pick func(*client.API) refOps[T], withParent bool) {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List " + noun + "s",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			items, err := pick(a.ctl).List(cmd.Context())
			if err != nil {
				return err
			}
			return printYAML(items)
		},
	}

	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			input := domain.NameInput{Name: args[0]}
			input.Slug, _ = cmd.Flags().GetString("slug")
			if withParent {
				input.ParentID, _ = cmd.Flags().GetString("parent")
			}
			out, err := pick(a.ctl).Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printYAML(out)
		},
	}
	createCmd.Flags().String("slug", "", "URL slug (derived server-side when omitted)")
	if withParent {
		createCmd.Flags().String("parent", "", "parent category ID")
	}

	updateCmd := &cobra.Command{
		Use:   "update ID NAME",
		Short: "Rename a " + noun,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := pick(a.ctl).Update(cmd.Context(), args[0], domain.NameInput{Name: args[1]})
			if err != nil {
				return err
			}
			return printYAML(out)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := pick(a.ctl).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("%s deleted.\n", noun)
			return nil
		},
	}

	parent.AddCommand(listCmd, createCmd, updateCmd, deleteCmd)
}

var brandCmd = &cobra.Command{
	Use:     "brand",
	Short:   "Manage brands",
	Aliases: []string{"brands"},
}

var categoryCmd = &cobra.Command{
	Use:     "category",
	Short:   "Manage the category tree",
	Aliases: []string{"categories"},
}

var tagCmd = &cobra.Command{
	Use:     "tag",
	Short:   "Manage tags",
	Aliases: []string{"tags"},
}

func init() {
	refCommands(brandCmd, "brand", func(api *client.API) refOps[domain.Brand] { return api.Brands }, false)
	refCommands(categoryCmd, "category", func(api *client.API) refOps[domain.Category] { return api.Categories }, true)
	refCommands(tagCmd, "tag", func(api *client.API) refOps[domain.Tag] { return api.Tags }, false)
}
