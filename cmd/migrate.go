package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/learnpath-backend/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}
		log.Println("postgreSQL migrated successfully!")
		return nil
	},
}
