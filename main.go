package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abrahamneben/silverbullet-treeview/cmd"
	"github.com/abrahamneben/silverbullet-treeview/cmd/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "treeview",
		Short:         "Navigation tree builder for SilverBullet-style spaces",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	config.AddGlobalFlags(rootCmd)
	cobra.OnInitialize(config.InitConfig)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewTreeCmd())
	rootCmd.AddCommand(cmd.NewShortcutsCmd())
	rootCmd.AddCommand(cmd.NewListCmd())
	rootCmd.AddCommand(cmd.NewIndexCmd())
	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
