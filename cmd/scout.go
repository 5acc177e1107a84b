package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partnerscout/internal/fetch"
	"partnerscout/internal/orchestrator"
	"partnerscout/internal/prober"
	"partnerscout/internal/progress"
	"partnerscout/internal/progress/sinks"
	"partnerscout/internal/scout"
)

// newScoutCmd creates the 'scout' subcommand, which processes exactly one
// batch of pending subjects and exits.
func newScoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scout",
		Short: "Processes one batch of pending subjects",
		Long: `Pulls one batch of pending subjects from the store, runs the staged
affiliate discovery pipeline against each concurrently, and writes the
results back. Stops after a single batch; use 'auto' to keep going until
the queue is empty.`,
		RunE: runScoutCommand,
	}
}

func runScoutCommand(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(a)
	if err != nil {
		return err
	}

	summary, err := orch.RunBatch(cmd.Context())
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}
	a.logger.Info("batch finished",
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
	)
	return nil
}

// buildOrchestrator assembles the discovery pipeline from the app's
// configured services.
func buildOrchestrator(a *app) (*orchestrator.Orchestrator, error) {
	fetcher := fetch.New(fetch.Config{UserAgent: a.cfg.HTTP.UserAgent})

	p := prober.New(
		fetcher,
		prober.StaticOracle{Verdict: scout.VerdictUnknown},
		a.snapshots,
		prober.Config{
			PageTimeout:    a.cfg.PageTimeout(),
			ProbeTimeout:   a.cfg.ProbeTimeout(),
			ContactTimeout: a.cfg.ContactTimeout(),
			SnapshotPrefix: a.cfg.Snapshot.Prefix,
		},
		a.logger,
	)

	promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("init prometheus sink: %w", err)
	}
	emitter := progress.NewFanout(a.logger, sinks.NewLogSink(a.logger), promSink)

	return orchestrator.New(
		a.store,
		p,
		emitter,
		a.publisher,
		nil, // system clock
		nil, // system sleeper
		orchestrator.Config{
			BatchSize:   a.cfg.Batch.Size,
			Concurrency: a.cfg.Batch.Concurrency,
			Pause:       a.cfg.Pause(),
			Topic:       a.cfg.PubSub.TopicName,
		},
		a.logger,
	), nil
}
