package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopctl/cmd/shopctl/config"
	"github.com/shopkit-dev/shopctl/log"
)

var (
	appLogger log.Logger
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "shopctl is the admin console CLI for the ShopKit platform",
	Long: `A command-line admin console for a ShopKit e-commerce installation:
manage products, brands, categories, tags, orders, inventory, reviews,
deals and users against the platform API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		appLogger = log.NewZerologAdapter(level, true)
		return config.InitConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "",
		fmt.Sprintf("config file (default is $HOME/.%s/config.yaml)", config.AppName))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(brandCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(dealCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(draftCmd)
}
