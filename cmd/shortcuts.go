package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abrahamneben/silverbullet-treeview/cmd/config"
)

func NewShortcutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcuts",
		Short: "Print the previous/next shortcut pages for the current page",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			assembler, err := config.NewAssembler(config.NewLogger())
			if err != nil {
				return err
			}
			result, err := assembler.Assemble(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "prev\t%s\n", result.ShortcutPages.PrevPage)
			fmt.Fprintf(cmd.OutOrStdout(), "next\t%s\n", result.ShortcutPages.NextPage)
			return nil
		},
	}

	return cmd
}
