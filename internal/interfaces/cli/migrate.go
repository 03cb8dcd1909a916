package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/infrastructure/database/postgres"
)

const defaultConfigFile = "./lexintel.yaml"

// loadConfig resolves the config file from the --config flag or the
// default search path.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s not found; pass --config", path)
	}
	return config.Load(path)
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			path := migrationsPath
			if path == "" {
				path = cfg.Database.MigrationPath
			}
			if path == "" {
				return fmt.Errorf("no migrations path configured; pass --path or set database.migration_path")
			}

			if err := postgres.RunMigrations(postgres.BuildDSN(cfg.Database), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&migrationsPath, "path", "", "migrations directory (overrides config)")
	return cmd
}
