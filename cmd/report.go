package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/candidate-concierge/concierge/internal/analytics"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyse feedback and recurring questions",
	Long:  `Prints a JSON report of how answers were rated over a window, recurring themes in low- and high-rated questions, and recommendations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		days, _ := cmd.Flags().GetInt("days")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openInteractions(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		report, err := analytics.New(store).Report(ctx, days)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, report)
	},
}

func init() {
	reportCmd.Flags().Int("days", 30, "analysis window in days")
	rootCmd.AddCommand(reportCmd)
}
