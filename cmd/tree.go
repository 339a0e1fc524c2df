package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abrahamneben/silverbullet-treeview/cmd/config"
	"github.com/abrahamneben/silverbullet-treeview/pkg/treeview"
)

func NewTreeCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Build and print the navigation tree",
		Long: `Build the navigation tree for the configured space.

The page list is run through the configured exclusion filters, sorted, and
folded into a tree. The current page is marked and its previous/next
shortcut pages are reported.

Examples:
  treeview tree                       # Indented tree for the current directory
  treeview tree --json                # Full result bundle as JSON
  treeview tree -S ~/space -C notes/a # Explicit space and current page`,
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

			if jsonOutput {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal result: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			for _, node := range result.Nodes {
				printTree(cmd, node, 0)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nprev: %s  next: %s\n",
				result.ShortcutPages.PrevPage, result.ShortcutPages.NextPage)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result bundle as JSON")

	return cmd
}

func printTree(cmd *cobra.Command, t *treeview.Tree, depth int) {
	marker := " "
	if t.Kind == treeview.KindFolder {
		marker = "/"
	}
	cursor := ""
	if t.IsCurrentPage {
		cursor = " <"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s%s\n", strings.Repeat("  ", depth), t.Title, marker, cursor)
	for _, child := range t.Children {
		printTree(cmd, child, depth+1)
	}
}
