package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost        = "0.0.0.0"
	DefaultServerPort        = 8080
	DefaultServerMode        = "release"
	DefaultReadTimeout       = 30 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultMaxBodySize int64 = 32 << 20
	DefaultRateBurst         = 20

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "hbond"

	DefaultBatchConcurrency = 4

	DefaultLogLevel  = logging.LevelInfo
	DefaultLogFormat = logging.FormatJSON
)

// setDefaults registers every default with v.  Registering a key also makes
// it visible to AutomaticEnv during Unmarshal, so HBR_* overrides reach
// fields the config file does not mention.
func setDefaults(v *viper.Viper) {
	v.SetDefault("restraints.restrain_helices", true)
	v.SetDefault("restraints.restrain_sheets", true)
	v.SetDefault("restraints.alpha_only", false)
	v.SetDefault("restraints.sigma", hbond.DefaultSigma)
	v.SetDefault("restraints.slack", hbond.DefaultSlack)
	v.SetDefault("restraints.ideal_distance_h", hbond.DefaultIdealDistanceH)
	v.SetDefault("restraints.max_distance_h", hbond.DefaultMaxDistanceH)
	v.SetDefault("restraints.ideal_distance_heavy", hbond.DefaultIdealDistanceHeavy)
	v.SetDefault("restraints.max_distance_heavy", hbond.DefaultMaxDistanceHeavy)
	v.SetDefault("restraints.remove_outliers", true)
	v.SetDefault("restraints.verbose", false)
	// no default: unset means decide per model
	_ = v.BindEnv("restraints.substitute_heavy_for_hydrogen")

	v.SetDefault("secondary_structure.from_records", true)
	v.SetDefault("secondary_structure.residue_ids", false)

	v.SetDefault("input.first_model_only", false)
	v.SetDefault("batch.concurrency", DefaultBatchConcurrency)

	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.max_body_size", DefaultMaxBodySize)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.rate_limit", 0.0)
	v.SetDefault("server.rate_burst", DefaultRateBurst)
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", DefaultMetricsPath)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

// NewDefaultConfig returns a Config holding every default, as if loaded
// from an empty file.
func NewDefaultConfig() *Config {
	p := hbond.DefaultParams()
	cfg := &Config{
		Restraints: RestraintsConfig{
			RestrainHelices:    p.RestrainHelices,
			RestrainSheets:     p.RestrainSheets,
			Sigma:              hbond.Float(*p.Sigma),
			Slack:              hbond.Float(*p.Slack),
			IdealDistanceH:     p.IdealDistanceH,
			MaxDistanceH:       p.MaxDistanceH,
			IdealDistanceHeavy: p.IdealDistanceHeavy,
			MaxDistanceHeavy:   p.MaxDistanceHeavy,
			RemoveOutliers:     p.RemoveOutliers,
		},
		SecondaryStructure: SecondaryStructureConfig{FromRecords: true},
		Metrics:            MetricsConfig{Enabled: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// Fields that have already been set by the caller are left unchanged.
// Booleans cannot be told apart from an explicit false and are left alone;
// setDefaults covers them for loaded configs.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Restraints ────────────────────────────────────────────────────────────
	r := &cfg.Restraints
	if r.IdealDistanceH == 0 {
		r.IdealDistanceH = hbond.DefaultIdealDistanceH
	}
	if r.MaxDistanceH == 0 {
		r.MaxDistanceH = hbond.DefaultMaxDistanceH
	}
	if r.IdealDistanceHeavy == 0 {
		r.IdealDistanceHeavy = hbond.DefaultIdealDistanceHeavy
	}
	if r.MaxDistanceHeavy == 0 {
		r.MaxDistanceHeavy = hbond.DefaultMaxDistanceHeavy
	}

	// ── Batch ─────────────────────────────────────────────────────────────────
	if cfg.Batch.Concurrency == 0 {
		cfg.Batch.Concurrency = DefaultBatchConcurrency
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = DefaultRateBurst
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
