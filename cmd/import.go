package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partnerscout/internal/importer"
)

// newImportCmd creates the 'import' subcommand, which loads subjects from a
// CSV file.
func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Imports subjects from a CSV file",
		Long: `Reads a header-addressed CSV file (name and website columns are
required) and inserts each row as a Pending subject. Rows whose website
already exists in the catalog are skipped and counted as duplicates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer func() {
				_ = f.Close()
			}()

			imp := importer.New(a.store, a.logger)
			res, err := imp.Run(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("import csv: %w", err)
			}
			a.logger.Info("import finished",
				zap.Int("inserted", res.Inserted),
				zap.Int("duplicates", res.Duplicates),
				zap.Int("errors", res.Errors),
				zap.Int("skipped", res.Skipped),
			)
			return nil
		},
	}
	return cmd
}
