package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/config"
	"github.com/candidate-concierge/concierge/internal/embeddings"
	"github.com/candidate-concierge/concierge/internal/extractive"
	"github.com/candidate-concierge/concierge/internal/progress"
	"github.com/candidate-concierge/concierge/internal/vectordb"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the semantic passage index",
	Long:  `Embeds every résumé passage and persists the index used by the semantic extractive strategy.`,
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().Bool("plain", false, "print line-based progress instead of a progress bar")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	plain, _ := cmd.Flags().GetBool("plain")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	kb, err := loadKnowledge(cfg, log)
	if err != nil {
		return err
	}
	if cfg.Extractive.Provider != config.ExtractiveSemantic {
		log.Warn("extractive.provider is not semantic; the index will not be used until it is",
			zap.String("provider", string(cfg.Extractive.Provider)))
	}

	embedder, err := embeddings.New(cfg.Extractive)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}

	if err := extractive.BuildIndex(ctx, store, kb, progress.NewReporter("Embedding passages", plain)); err != nil {
		return err
	}
	if err := store.Persist(ctx, cfg.Extractive.IndexDir); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}

	log.Info("passage index built",
		zap.String("dir", cfg.Extractive.IndexDir),
		zap.Int("passages", store.Count()),
		zap.String("embedder", embedder.Name()),
	)
	return nil
}
