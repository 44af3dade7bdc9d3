package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wichananm65/eco-shop-backend/internal/eco/bayes"
)

func newTrainCmd(opts *options) *cobra.Command {
	var corpusPath, outPath string
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model from a labeled corpus",
		Long: `Train a naive Bayes model and write the JSON artifact.

Examples:
  ecotrain train                                # embedded corpus
  ecotrain train --corpus corpus.toml --out ml-model.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := loadCorpus(corpusPath)
			if err != nil {
				return err
			}
			model, err := bayes.Train(corpus)
			if err != nil {
				return fmt.Errorf("failed to train model: %w", err)
			}
			blob, err := model.Marshal()
			if err != nil {
				return fmt.Errorf("failed to encode model: %w", err)
			}
			if err := os.WriteFile(outPath, blob, 0o644); err != nil {
				return fmt.Errorf("failed to write model: %w", err)
			}

			summary := map[string]any{
				"id":             model.ID,
				"corpus_version": model.CorpusVersion,
				"corpus_digest":  model.CorpusDigest,
				"samples":        len(corpus.Samples),
				"vocabulary":     len(model.Vocabulary),
				"out":            outPath,
			}
			return render(cmd.OutOrStdout(), opts.output, summary, []field{
				{"model id", model.ID},
				{"corpus version", model.CorpusVersion},
				{"corpus digest", model.CorpusDigest},
				{"samples", len(corpus.Samples)},
				{"vocabulary", len(model.Vocabulary)},
				{"written to", outPath},
			})
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus TOML file (default: embedded corpus)")
	cmd.Flags().StringVar(&outPath, "out", "ml-model.json", "model artifact path")
	return cmd
}

func loadCorpus(path string) (*bayes.Corpus, error) {
	if path == "" {
		return bayes.DefaultCorpus()
	}
	return bayes.LoadCorpus(path)
}
