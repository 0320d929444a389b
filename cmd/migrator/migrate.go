package main

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ninernav/domain"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, maps and scores tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := migrate(db); err != nil {
				return err
			}
			cmd.Println("Database migrated")
			return nil
		},
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Map{}, &domain.Score{})
}
