// Package cmd defines and implements the CLI commands for the partnerscout
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	gcstorage "cloud.google.com/go/storage"

	"cloud.google.com/go/pubsub"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partnerscout/internal/config"
	"partnerscout/internal/logging"
	pubsubpub "partnerscout/internal/publisher/pubsub"
	"partnerscout/internal/scout"
	"partnerscout/internal/storage"
	"partnerscout/internal/storage/gcs"
	"partnerscout/internal/storage/local"
	"partnerscout/internal/store/postgres"
)

var cfgFile string

// appKeyType is the key for storing the app in the command context.
type appKeyType string

const appKey appKeyType = "app"

// app bundles the services every subcommand needs. Discovery-only services
// (fetcher, prober, orchestrator) are built by the commands that run them.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *postgres.Store
	snapshots scout.Snapshotter
	publisher scout.Publisher

	cleanup []func()
}

func (a *app) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// newApp is a variable so tests can substitute a fake factory.
var newApp = buildApp

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	store, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.DB.DSN,
		Table:    cfg.DB.Table,
		MaxConns: cfg.DB.MaxConns,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init subject store: %w", err)
	}
	a.store = store
	a.cleanup = append(a.cleanup, store.Close)

	if a.snapshots, err = buildSnapshotter(ctx, cfg, a); err != nil {
		a.Close()
		return nil, err
	}
	if a.publisher, err = buildPublisher(ctx, cfg, a); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func buildSnapshotter(ctx context.Context, cfg config.Config, a *app) (scout.Snapshotter, error) {
	switch cfg.Snapshot.Backend {
	case "local":
		store, err := local.New(local.Config{BaseDir: cfg.Snapshot.Dir})
		if err != nil {
			return nil, fmt.Errorf("init local snapshot store: %w", err)
		}
		return store, nil
	case "gcs":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		a.cleanup = append(a.cleanup, func() { _ = client.Close() })
		store, err := gcs.New(client, gcs.Config{Bucket: cfg.Snapshot.GCSBucket})
		if err != nil {
			return nil, fmt.Errorf("init gcs snapshot store: %w", err)
		}
		return store, nil
	default:
		return &storage.NoOpSnapshotter{}, nil
	}
}

func buildPublisher(ctx context.Context, cfg config.Config, a *app) (scout.Publisher, error) {
	if cfg.PubSub.TopicName == "" {
		return nil, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("init pubsub client: %w", err)
	}
	a.cleanup = append(a.cleanup, func() { _ = client.Close() })
	pub, err := pubsubpub.New(client)
	if err != nil {
		return nil, fmt.Errorf("init publisher: %w", err)
	}
	a.cleanup = append(a.cleanup, pub.Stop)
	return pub, nil
}

func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKey).(*app)
	if !ok || a == nil {
		return nil, errors.New("application services not initialized")
	}
	return a, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partnerscout",
		Short: "Discovers affiliate programs for catalog subjects.",
		Long: `partnerscout works through the catalog of pending subjects,
visits each website, and records whether an affiliate or partner program
exists, along with program terms, contact details, and branding assets.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKey).(*app); ok && a != nil {
				a.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is env-only)")

	cmd.AddCommand(newScoutCmd())
	cmd.AddCommand(newAutoCmd())
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newDedupeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
