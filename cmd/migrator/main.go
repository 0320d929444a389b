package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ninernav/internal/service/config"
)

var envFile string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrator",
		Short:        "Database maintenance for ninernav",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env file with DB_* settings")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	return cmd
}

func openDB() (*gorm.DB, error) {
	cfg, err := config.LoadDB(envFile)
	if err != nil {
		return nil, err
	}
	if cfg.DSN() == "" {
		return nil, fmt.Errorf("DB_HOST is not set")
	}
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
