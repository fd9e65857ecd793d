package cmd

import (
	"github.com/spf13/cobra"

	"github.com/candidate-concierge/concierge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize concierge configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that picks the résumé file, fallback providers and storage, and writes a .concierge.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
