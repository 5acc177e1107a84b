package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partnerscout/internal/merge"
	"partnerscout/internal/scout"
)

// newResetCmd creates the 'reset' subcommand, which returns subjects to the
// Pending state and clears every discovered fact.
func newResetCmd() *cobra.Command {
	var (
		subjectID  string
		fromStatus string
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Returns subjects to Pending and clears discovered facts",
		Long: `Resets subjects so a future run re-examines them from scratch.
Either one subject by --id, or every subject currently in a given
--status ("Found" or "Not Found").`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			switch {
			case subjectID != "" && fromStatus != "":
				return fmt.Errorf("--id and --status are mutually exclusive")
			case subjectID != "":
				upd := merge.ResetUpdate("Reset to pending")
				if err := a.store.Update(cmd.Context(), subjectID, upd); err != nil {
					return fmt.Errorf("reset subject: %w", err)
				}
				a.logger.Info("subject reset", zap.String("id", subjectID))
				return nil
			case fromStatus != "":
				status := scout.Status(fromStatus)
				if status != scout.StatusFound && status != scout.StatusNotFound {
					return fmt.Errorf("--status must be %q or %q", scout.StatusFound, scout.StatusNotFound)
				}
				upd := merge.ResetUpdate(fmt.Sprintf("Reset from %s status", fromStatus))
				count, err := a.store.UpdateWhereStatus(cmd.Context(), status, upd)
				if err != nil {
					return fmt.Errorf("reset subjects: %w", err)
				}
				a.logger.Info("subjects reset",
					zap.String("from_status", fromStatus),
					zap.Int("count", count),
				)
				return nil
			default:
				return fmt.Errorf("one of --id or --status is required")
			}
		},
	}

	cmd.Flags().StringVar(&subjectID, "id", "", "reset a single subject by ID")
	cmd.Flags().StringVar(&fromStatus, "status", "", `reset every subject in this status ("Found" or "Not Found")`)
	return cmd
}
