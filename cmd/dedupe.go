package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partnerscout/internal/dedupe"
)

// newDedupeCmd creates the 'dedupe' subcommand, which purges duplicate
// subjects sharing a website.
func newDedupeCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Removes duplicate subjects that share a website",
		Long: `Groups subjects by normalized website and deletes all but the most
complete record in each group. Completeness is scored by configurable
field weights; --dry-run reports what would be deleted without touching
the store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			weights := dedupe.WeightsFromMap(a.cfg.Dedupe.Weights)
			purger := dedupe.New(a.store, weights, a.logger)
			res, err := purger.Run(cmd.Context(), dryRun)
			if err != nil {
				return fmt.Errorf("dedupe: %w", err)
			}
			a.logger.Info("dedupe finished",
				zap.Int("groups", res.Groups),
				zap.Int("deleted", res.Deleted),
				zap.Bool("dry_run", dryRun),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report duplicates without deleting")
	return cmd
}
