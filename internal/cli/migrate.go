package cli

import (
	"fmt"

	"storefront/internal/infra/db"

	"github.com/spf13/cobra"
)

type MigrateOptions struct {
	*RootOptions
	Down bool
}

// NewMigrateCommand はスキーマを作る（postgresは1つ戻すこともできる）
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Create or upgrade the database schema",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.close()

			if opts.Down {
				if a.cfg.DB.Driver != "postgres" {
					return fmt.Errorf("--down is only supported for postgres")
				}
				if err := db.RollbackPostgres(a.cfg.DB.DSN); err != nil {
					return err
				}
				a.logger.Infof("rolled back one migration")
				return nil
			}

			if err := a.migrateSchema(); err != nil {
				return err
			}
			a.logger.Infof("schema is up to date (driver=%s)", a.cfg.DB.Driver)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Down, "down", false, "roll back one migration (postgres only)")
	return cmd
}
