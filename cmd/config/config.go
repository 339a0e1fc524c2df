package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/abrahamneben/silverbullet-treeview/pkg/filter"
	"github.com/abrahamneben/silverbullet-treeview/pkg/index"
	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
	"github.com/abrahamneben/silverbullet-treeview/pkg/space"
	"github.com/abrahamneben/silverbullet-treeview/pkg/treeview"
)

var (
	cfgFile         string
	SpaceOverride   string
	CurrentOverride string
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "silverbullet-treeview")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TREEVIEW")

	// Set defaults
	viper.SetDefault("space_dir", ".")
	viper.SetDefault("current_page", space.DefaultCurrentPage)
	viper.SetDefault("collation", "und")

	if err := viper.ReadInConfig(); err == nil {
		// Do not print this in normal operation, it's noisy.
		// fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// NewLogger builds the shared stderr logger. Kept quiet unless there are
// issues; the deprecation advisory for the legacy 'exclude' option goes
// through it.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// NewSpace builds the configured page space: the sqlite index when
// 'index_db' is set, otherwise a walk of the markdown space directory.
func NewSpace() (pages.Space, error) {
	current := CurrentOverride
	if current == "" {
		current = viper.GetString("current_page")
	}

	if dbPath := viper.GetString("index_db"); dbPath != "" {
		idx, err := index.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open page index: %w", err)
		}
		if CurrentOverride != "" {
			if err := idx.SetCurrentPage(CurrentOverride); err != nil {
				return nil, err
			}
		}
		return idx, nil
	}

	root := SpaceOverride
	if root == "" {
		root = viper.GetString("space_dir")
	}
	return space.NewFS(root, current), nil
}

// NewPipeline compiles the configured exclusion stages, including the
// deprecated scalar 'exclude' option.
func NewPipeline(log *logrus.Logger) (*filter.Pipeline, error) {
	var stages []filter.StageConfig
	if err := viper.UnmarshalKey("exclusions", &stages); err != nil {
		return nil, fmt.Errorf("decode exclusions: %w", err)
	}
	return filter.NewPipeline(stages, viper.GetString("exclude"), log)
}

// NewCollator builds the collator for the configured collation language.
func NewCollator() (*collate.Collator, error) {
	tag, err := language.Parse(viper.GetString("collation"))
	if err != nil {
		return nil, fmt.Errorf("invalid collation %q: %w", viper.GetString("collation"), err)
	}
	return collate.New(tag), nil
}

// NewAssembler wires a full tree assembler from the active configuration.
func NewAssembler(log *logrus.Logger) (*treeview.Assembler, error) {
	sp, err := NewSpace()
	if err != nil {
		return nil, err
	}
	pipeline, err := NewPipeline(log)
	if err != nil {
		return nil, err
	}
	collator, err := NewCollator()
	if err != nil {
		return nil, err
	}
	return treeview.NewAssembler(sp, pipeline, collator), nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/silverbullet-treeview/config.yaml)")
	cmd.PersistentFlags().StringVarP(&SpaceOverride, "space", "S", "", "Override the space directory")
	cmd.PersistentFlags().StringVarP(&CurrentOverride, "current", "C", "", "Override the current page name")
}
