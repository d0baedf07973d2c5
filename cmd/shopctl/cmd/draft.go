package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/drafts"
)

var draftCmd = &cobra.Command{
	Use:     "draft",
	Short:   "Manage locally saved product drafts",
	Aliases: []string{"drafts"},
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDraftStore()
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.List()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("No drafts saved.")
			return nil
		}
		for _, d := range all {
			name := d.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("%s  %s  %d%% complete, saved %s\n", d.ID, name, d.Completion(), d.SavedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var draftShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a draft's contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDraftStore()
		if err != nil {
			return err
		}
		defer store.Close()

		d, err := store.Get(args[0])
		if err != nil {
			return err
		}
		return printYAML(d)
	},
}

var draftResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Show the most recently saved draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDraftStore()
		if err != nil {
			return err
		}
		defer store.Close()

		d, err := store.Resume()
		if errors.Is(err, drafts.ErrNoDrafts) {
			fmt.Println("No drafts saved.")
			return nil
		}
		if err != nil {
			return err
		}
		if err := printYAML(d); err != nil {
			return err
		}
		fmt.Printf("Submit with 'shopctl product create --from-draft %s'.\n", d.ID)
		return nil
	},
}

var draftDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDraftStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println("Draft deleted.")
		return nil
	},
}

func init() {
	draftCmd.AddCommand(draftListCmd, draftShowCmd, draftResumeCmd, draftDeleteCmd)
}
