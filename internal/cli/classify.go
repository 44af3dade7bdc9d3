package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
	"github.com/wichananm65/eco-shop-backend/internal/eco/bayes"
)

func newClassifyCmd(opts *options) *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "classify <text...>",
		Short: "Label free text with a trained model",
		Long: `Classify product text and print the label, per-label
probabilities, keyword evidence and the explanation.

Examples:
  ecotrain classify "organic cotton tote, plastic-free packaging"
  ecotrain classify --model ml-model.json -o json single-use plastic straw`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := bayes.LoadFile(modelPath)
			if err != nil {
				return fmt.Errorf("failed to load model: %w", err)
			}
			text := strings.ToLower(strings.Join(args, " "))
			a := eco.NewAssessor(eco.NewScorer(eco.DefaultRules()), model).Classify(text)

			rows := []field{
				{"label", a.Label},
				{"confidence", fmt.Sprintf("%.4f", a.Confidence)},
			}
			for _, l := range eco.Labels {
				if p, ok := a.Probabilities[l]; ok {
					rows = append(rows, field{"p(" + string(l) + ")", fmt.Sprintf("%.4f", p)})
				}
			}
			rows = append(rows,
				field{"positive", joinOrDash(a.Evidence.Positive)},
				field{"negative", joinOrDash(a.Evidence.Negative)},
				field{"explanation", a.Explanation},
			)
			return render(cmd.OutOrStdout(), opts.output, a, rows)
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "ml-model.json", "model artifact path")
	return cmd
}

func joinOrDash(words []string) string {
	if len(words) == 0 {
		return "-"
	}
	return strings.Join(words, ", ")
}
