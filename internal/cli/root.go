package cli

import (
	"github.com/spf13/cobra"
)

// 全コマンド共通のフラグ
type RootOptions struct {
	EnvFile string
	Verbose bool
}

// NewRootCommand はstorefrontのルートコマンドを作る
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Saree storefront server and admin tools",
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load (ignored when missing)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))

	return cmd
}
