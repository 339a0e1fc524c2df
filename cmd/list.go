package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abrahamneben/silverbullet-treeview/cmd/config"
	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
)

func NewListCmd() *cobra.Command {
	var (
		listJSON bool
		listTag  string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the pages that survive the exclusion filters",
		Aliases: []string{"ls"},
		Long: `List the pages of the configured space after applying the exclusion
filters, in the order the tree builder will see them.

Examples:
  treeview list              # All surviving pages
  treeview list --tag draft  # Only pages carrying a tag
  treeview list --json       # Machine-readable output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			log := config.NewLogger()

			sp, err := config.NewSpace()
			if err != nil {
				return err
			}
			pipeline, err := config.NewPipeline(log)
			if err != nil {
				return err
			}

			all, err := sp.ListPages(ctx)
			if err != nil {
				return fmt.Errorf("list pages: %w", err)
			}
			filtered, err := pipeline.Apply(ctx, all)
			if err != nil {
				return fmt.Errorf("apply exclusion filters: %w", err)
			}

			if listTag != "" {
				var tagged []*pages.Page
				for _, pg := range filtered {
					if pg.HasTag(listTag) {
						tagged = append(tagged, pg)
					}
				}
				filtered = tagged
			}

			if listJSON {
				data, err := json.MarshalIndent(filtered, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tTAGS")
			for _, pg := range filtered {
				fmt.Fprintf(w, "%s\t%s\t%s\n", pg.Name, pg.Title, strings.Join(pg.Tags, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&listTag, "tag", "", "Only list pages carrying this tag")

	return cmd
}
