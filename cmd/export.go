package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/candidate-concierge/concierge/internal/analytics"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export highly rated question and answer pairs",
	Long:  `Writes every logged exchange whose feedback score is at least --min-score as a JSON array.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		minScore, _ := cmd.Flags().GetInt("min-score")
		output, _ := cmd.Flags().GetString("output")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openInteractions(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		pairs, err := analytics.New(store).Export(ctx, minScore)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}
		if err := printJSON(w, pairs); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(os.Stderr, "Exported %d pairs to %s\n", len(pairs), output)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().Int("min-score", analytics.DefaultMinScore, "lowest feedback score to export")
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
