package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/cmd/shopctl/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage shopctl configuration and contexts",
	Aliases: []string{"cfg"},
}

var getContextsCmd = &cobra.Command{
	Use:     "get-contexts",
	Short:   "Display the configured contexts",
	Aliases: []string{"get"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.GlobalConfig == nil || len(config.GlobalConfig.Contexts) == 0 {
			fmt.Println("No contexts defined.")
			return nil
		}
		if err := printYAML(config.GlobalConfig.Contexts); err != nil {
			return err
		}
		if config.GlobalConfig.CurrentContext != "" {
			fmt.Printf("Current context: %s\n", config.GlobalConfig.CurrentContext)
		}
		return nil
	},
}

var setContextCmd = &cobra.Command{
	Use:   "set-context NAME",
	Short: "Create or update a context entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		server, _ := cmd.Flags().GetString("server")
		if server == "" {
			return errors.New("--server flag is required")
		}
		entry, ok := config.GlobalConfig.Contexts[name]
		if !ok {
			entry = &config.Context{Name: name}
			config.GlobalConfig.Contexts[name] = entry
		}
		entry.ServerEndpoint = server
		if config.GlobalConfig.CurrentContext == "" {
			config.GlobalConfig.CurrentContext = name
		}
		if err := config.SaveConfig(); err != nil {
			return err
		}
		fmt.Printf("Context %q set.\n", name)
		return nil
	},
}

var useContextCmd = &cobra.Command{
	Use:     "use-context NAME",
	Short:   "Select the current context",
	Aliases: []string{"use"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, ok := config.GlobalConfig.Contexts[name]; !ok {
			return fmt.Errorf("context %q not found", name)
		}
		config.GlobalConfig.CurrentContext = name
		if err := config.SaveConfig(); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q.\n", name)
		return nil
	},
}

var deleteContextCmd = &cobra.Command{
	Use:   "delete-context NAME",
	Short: "Remove a context entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, ok := config.GlobalConfig.Contexts[name]; !ok {
			return fmt.Errorf("context %q not found", name)
		}
		delete(config.GlobalConfig.Contexts, name)
		if config.GlobalConfig.CurrentContext == name {
			config.GlobalConfig.CurrentContext = ""
		}
		if err := config.SaveConfig(); err != nil {
			return err
		}
		fmt.Printf("Context %q deleted.\n", name)
		return nil
	},
}

func init() {
	setContextCmd.Flags().String("server", "", "platform API endpoint, e.g. https://shop.example.com/api")
	configCmd.AddCommand(getContextsCmd, setContextCmd, useContextCmd, deleteContextCmd)
}
