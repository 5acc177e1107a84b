package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partnerscout/internal/api"
)

// newAutoCmd creates the 'auto' subcommand, which keeps processing batches
// until no pending subjects remain.
func newAutoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Processes batches until the pending queue is empty",
		Long: `Runs the discovery pipeline batch after batch, pausing between
batches to stay polite, until the store reports zero pending subjects.
When an ops server port is configured, health, status, and metrics
endpoints are served for the duration of the run.`,
		RunE: runAutoCommand,
	}
}

func runAutoCommand(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(a)
	if err != nil {
		return err
	}

	if a.cfg.Server.Port > 0 {
		srv := api.New(fmt.Sprintf(":%d", a.cfg.Server.Port), a.store, orch, a.logger)
		go func() {
			if serveErr := srv.Start(); serveErr != nil {
				a.logger.Error("ops server failed", zap.Error(serveErr))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if sdErr := srv.Shutdown(shutdownCtx); sdErr != nil {
				a.logger.Warn("ops server shutdown failed", zap.Error(sdErr))
			}
		}()
	}

	summary, err := orch.RunAuto(cmd.Context())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run auto: %w", err)
	}
	a.logger.Info("auto run finished",
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
	)
	return nil
}
