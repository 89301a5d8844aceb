package main

import (
	"github.com/spf13/cobra"

	"github.com/vnkhanh/learnpath-backend/config"
)

var rootCmd = &cobra.Command{
	Use:   "learnpath",
	Short: "Quiz and learning roadmap backend",
	Long:  "learnpath serves the quiz, roadmap and progress-tracking REST API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

var cfg *config.Config

func init() {
	cobra.OnInitialize(func() {
		cfg = config.Load()
	})

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(promoteCmd)
}
