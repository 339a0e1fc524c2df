package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abrahamneben/silverbullet-treeview/cmd/config"
	"github.com/abrahamneben/silverbullet-treeview/pkg/index"
	"github.com/abrahamneben/silverbullet-treeview/pkg/space"
)

func NewIndexCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or refresh the sqlite page index for a space",
		Long: `Scan the space directory and write every page's metadata into the sqlite
index. Subsequent commands read from the index when 'index_db' is configured,
avoiding a full rescan of large spaces.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if dbPath == "" {
				dbPath = viper.GetString("index_db")
			}
			if dbPath == "" {
				return fmt.Errorf("no index database given; pass --db or set index_db")
			}

			root := config.SpaceOverride
			if root == "" {
				root = viper.GetString("space_dir")
			}
			current := config.CurrentOverride
			if current == "" {
				current = viper.GetString("current_page")
			}

			idx, err := index.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open page index: %w", err)
			}
			defer idx.Close()

			n, err := idx.Reindex(ctx, space.NewFS(root, current))
			if err != nil {
				return err
			}
			if err := idx.SetCurrentPage(current); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d pages into %s\n", n, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the sqlite index database")

	return cmd
}
