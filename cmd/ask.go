package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/candidate-concierge/concierge/internal/concierge"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question from the command line",
	Long:  `Resolves one question through the full fallback chain and prints the answer with its confidence and source.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the answer as JSON")
	askCmd.Flags().Bool("no-log", false, "do not record the exchange in the interaction log")
	askCmd.Flags().String("session", "cli", "session id recorded with the exchange")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	noLog, _ := cmd.Flags().GetBool("no-log")
	session, _ := cmd.Flags().GetString("session")

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.log.Sync() //nolint:errcheck

	var recorder concierge.Recorder
	if !noLog {
		database, store, err := openInteractions(ctx, a.cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		recorder = store
	}

	ans := concierge.New(a.resolver, recorder, a.log.Named("concierge")).Ask(ctx, question, session)

	if jsonOutput {
		return printJSON(os.Stdout, ans)
	}

	fmt.Println(ans.Text)
	fmt.Printf("\n[%s, confidence %.2f", ans.Source, ans.Confidence)
	if ans.Usage != nil {
		fmt.Printf(", %s, $%.5f", ans.Usage.Model, ans.Usage.CostUSD)
	}
	if ans.AnswerID != nil {
		fmt.Printf(", answer %d", *ans.AnswerID)
	}
	fmt.Println("]")
	return nil
}
