// Package config loads and validates partnerscout configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Bounds on the orchestrator's externally configurable knobs.
const (
	MinBatchSize = 5
	MaxBatchSize = 100

	MinPauseSeconds = 10
	MaxPauseSeconds = 300
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Batch    BatchConfig    `mapstructure:"batch"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	DB       DBConfig       `mapstructure:"db"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Server   ServerConfig   `mapstructure:"server"`
	Dedupe   DedupeConfig   `mapstructure:"dedupe"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// BatchConfig governs orchestrator pacing and fan-out.
type BatchConfig struct {
	Size         int `mapstructure:"size"`
	Concurrency  int `mapstructure:"concurrency"`
	PauseSeconds int `mapstructure:"pause_seconds"`
}

// HTTPConfig configures the fetch client.
type HTTPConfig struct {
	UserAgent             string `mapstructure:"user_agent"`
	PageTimeoutSeconds    int    `mapstructure:"page_timeout_seconds"`
	ProbeTimeoutSeconds   int    `mapstructure:"probe_timeout_seconds"`
	ContactTimeoutSeconds int    `mapstructure:"contact_timeout_seconds"`
}

// DBConfig controls access to the subject store.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// SnapshotConfig selects where affiliate-page snapshots are archived.
// Backend is one of "none", "local", or "gcs".
type SnapshotConfig struct {
	Backend   string `mapstructure:"backend"`
	Dir       string `mapstructure:"dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// PubSubConfig holds metadata for subject-completion notifications.
// Publishing is disabled when TopicName is empty.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// ServerConfig controls the ops HTTP server; 0 disables it.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DedupeConfig carries completeness-scoring weights for the duplicate
// purge job. Zero values fall back to the package defaults.
type DedupeConfig struct {
	Weights map[string]int `mapstructure:"weights"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.clamp()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("batch.size", 25)
	v.SetDefault("batch.concurrency", 5)
	v.SetDefault("batch.pause_seconds", 60)
	v.SetDefault("http.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("http.page_timeout_seconds", 15)
	v.SetDefault("http.probe_timeout_seconds", 8)
	v.SetDefault("http.contact_timeout_seconds", 5)
	v.SetDefault("db.table", "subjects")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("snapshot.backend", "none")
	v.SetDefault("snapshot.prefix", "pages")
	v.SetDefault("server.port", 0)
	v.SetDefault("logging.development", true)
}

// clamp forces out-of-range pacing knobs back into their allowed windows
// rather than rejecting the config outright.
func (c *Config) clamp() {
	if c.Batch.Size < MinBatchSize {
		c.Batch.Size = MinBatchSize
	}
	if c.Batch.Size > MaxBatchSize {
		c.Batch.Size = MaxBatchSize
	}
	if c.Batch.PauseSeconds < MinPauseSeconds {
		c.Batch.PauseSeconds = MinPauseSeconds
	}
	if c.Batch.PauseSeconds > MaxPauseSeconds {
		c.Batch.PauseSeconds = MaxPauseSeconds
	}
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be > 0")
	}
	if c.HTTP.PageTimeoutSeconds <= 0 {
		return fmt.Errorf("http.page_timeout_seconds must be > 0")
	}
	if c.HTTP.ProbeTimeoutSeconds <= 0 {
		return fmt.Errorf("http.probe_timeout_seconds must be > 0")
	}
	if c.HTTP.ContactTimeoutSeconds <= 0 {
		return fmt.Errorf("http.contact_timeout_seconds must be > 0")
	}
	switch c.Snapshot.Backend {
	case "none", "local", "gcs":
	default:
		return fmt.Errorf("snapshot.backend must be one of none, local, gcs")
	}
	if c.Snapshot.Backend == "local" && c.Snapshot.Dir == "" {
		return fmt.Errorf("snapshot.dir must be set when snapshot.backend is local")
	}
	if c.Snapshot.Backend == "gcs" && c.Snapshot.GCSBucket == "" {
		return fmt.Errorf("snapshot.gcs_bucket must be set when snapshot.backend is gcs")
	}
	if c.PubSub.TopicName != "" && c.PubSub.ProjectID == "" {
		return fmt.Errorf("pubsub.project_id must be set when pubsub.topic_name is set")
	}
	return nil
}

// PageTimeout is the fetch budget for homepage and affiliate pages.
func (c Config) PageTimeout() time.Duration {
	return time.Duration(c.HTTP.PageTimeoutSeconds) * time.Second
}

// ProbeTimeout is the fetch budget for conventional-path probes.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.HTTP.ProbeTimeoutSeconds) * time.Second
}

// ContactTimeout is the fetch budget for contact-path probes.
func (c Config) ContactTimeout() time.Duration {
	return time.Duration(c.HTTP.ContactTimeoutSeconds) * time.Second
}

// Pause is the inter-batch throttle duration.
func (c Config) Pause() time.Duration {
	return time.Duration(c.Batch.PauseSeconds) * time.Second
}
