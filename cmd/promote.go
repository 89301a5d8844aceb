package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/learnpath-backend/config"
	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/validators"
)

var demote bool

// promoteCmd bootstraps the first admin, which cannot be created over HTTP.
var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant (or with --demote revoke) admin rights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}

		email := validators.NormalizeEmail(args[0])
		res := db.Model(&models.User{}).Where("email = ?", email).Update("is_admin", !demote)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("no user with email %s", email)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is_admin=%t\n", email, !demote)
		return nil
	},
}

func init() {
	promoteCmd.Flags().BoolVar(&demote, "demote", false, "Revoke admin rights instead")
}
