package cli

import (
	"github.com/spf13/cobra"
	"github.com/wichananm65/eco-shop-backend/internal/config"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

func newScoreCmd(opts *options) *cobra.Command {
	var attrs eco.Attributes
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the rule-based eco score",
		Long: `Score product attributes with the rule engine. Rule overrides
are read from ECO_CONFIG_FILE like the API does.

Examples:
  ecotrain score --materials "recycled polyester" --packaging minimal --shipping carbon-neutral
  ecotrain score --materials plastic --tags fast-fashion -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			scorer := eco.NewScorer(cfg.Rules)
			score := scorer.Score(attrs)
			b := scorer.Breakdown(attrs)

			return render(cmd.OutOrStdout(), opts.output, map[string]any{
				"eco_score":     score,
				"eco_breakdown": b,
			}, []field{
				{"eco score", score},
				{"materials", b.Materials},
				{"ethics", b.Ethics},
				{"packaging", b.Packaging},
				{"shipping", b.Shipping},
				{"lifespan", b.Lifespan},
			})
		},
	}
	cmd.Flags().StringSliceVar(&attrs.Materials, "materials", nil, "comma-separated materials")
	cmd.Flags().StringVar(&attrs.Packaging, "packaging", "", "packaging description")
	cmd.Flags().StringVar(&attrs.ShippingType, "shipping", "", "shipping type")
	cmd.Flags().StringSliceVar(&attrs.EcoTags, "tags", nil, "comma-separated eco tags")
	return cmd
}
