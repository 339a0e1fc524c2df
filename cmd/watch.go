package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abrahamneben/silverbullet-treeview/cmd/config"
	"github.com/abrahamneben/silverbullet-treeview/pkg/treeview"
)

func NewWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild and reprint the tree whenever the space changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := config.NewLogger()

			root := config.SpaceOverride
			if root == "" {
				root = viper.GetString("space_dir")
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			if err := watchRecursive(watcher, root); err != nil {
				return err
			}

			assembler, err := config.NewAssembler(log)
			if err != nil {
				return err
			}

			if err := rebuild(ctx, cmd, assembler); err != nil {
				return err
			}

			var timer *time.Timer
			rebuilds := make(chan struct{}, 1)
			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
						continue
					}
					if event.Op&fsnotify.Create != 0 {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							_ = watchRecursive(watcher, event.Name)
						}
					}
					// Collapse bursts of events into one rebuild.
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, func() {
						select {
						case rebuilds <- struct{}{}:
						default:
						}
					})
				case <-rebuilds:
					if err := rebuild(ctx, cmd, assembler); err != nil {
						log.Warnf("rebuild failed: %v", err)
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Warnf("watcher error: %v", err)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Delay before rebuilding after a change")

	return cmd
}

func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if filepath.Base(path)[0] == '.' && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func rebuild(ctx context.Context, cmd *cobra.Command, assembler *treeview.Assembler) error {
	result, err := assembler.Assemble(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "--- %s\n", time.Now().Format("15:04:05"))
	for _, node := range result.Nodes {
		printTree(cmd, node, 0)
	}
	return nil
}
