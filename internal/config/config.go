// Package config defines the configuration structures of the restraint
// synthesizer.  No I/O or parsing logic lives here, only plain data types,
// conversion and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// RestraintsConfig holds the synthesis options.
type RestraintsConfig struct {
	RestrainHelices bool `mapstructure:"restrain_helices" yaml:"restrain_helices"`
	RestrainSheets  bool `mapstructure:"restrain_sheets" yaml:"restrain_sheets"`
	AlphaOnly       bool `mapstructure:"alpha_only" yaml:"alpha_only"`

	// SubstituteHeavyForHydrogen unset means: decide per model, substituting
	// when it carries no H or D atoms.
	SubstituteHeavyForHydrogen *bool `mapstructure:"substitute_heavy_for_hydrogen" yaml:"substitute_heavy_for_hydrogen,omitempty"`

	Sigma *float64 `mapstructure:"sigma" yaml:"sigma"`
	Slack *float64 `mapstructure:"slack" yaml:"slack"`

	IdealDistanceH     float64 `mapstructure:"ideal_distance_h" yaml:"ideal_distance_h"`
	MaxDistanceH       float64 `mapstructure:"max_distance_h" yaml:"max_distance_h"`
	IdealDistanceHeavy float64 `mapstructure:"ideal_distance_heavy" yaml:"ideal_distance_heavy"`
	MaxDistanceHeavy   float64 `mapstructure:"max_distance_heavy" yaml:"max_distance_heavy"`

	RemoveOutliers bool `mapstructure:"remove_outliers" yaml:"remove_outliers"`
	Verbose        bool `mapstructure:"verbose" yaml:"verbose"`
}

// ToParams converts the section into synthesis options.
func (r RestraintsConfig) ToParams() hbond.Params {
	p := hbond.Params{
		RestrainHelices:    r.RestrainHelices,
		RestrainSheets:     r.RestrainSheets,
		AlphaOnly:          r.AlphaOnly,
		IdealDistanceH:     r.IdealDistanceH,
		MaxDistanceH:       r.MaxDistanceH,
		IdealDistanceHeavy: r.IdealDistanceHeavy,
		MaxDistanceHeavy:   r.MaxDistanceHeavy,
		RemoveOutliers:     r.RemoveOutliers,
		Verbose:            r.Verbose,
	}
	if r.SubstituteHeavyForHydrogen != nil {
		p.SubstituteHeavy = hbond.Bool(*r.SubstituteHeavyForHydrogen)
	}
	if r.Sigma != nil {
		p.Sigma = hbond.Float(*r.Sigma)
	}
	if r.Slack != nil {
		p.Slack = hbond.Float(*r.Slack)
	}
	return p
}

// SecondaryStructureConfig says where restrained elements come from: the
// HELIX/SHEET records of each input file, the elements listed here, or
// both (records first).
type SecondaryStructureConfig struct {
	FromRecords bool `mapstructure:"from_records" yaml:"from_records"`

	// ResidueIDs builds record selections with "resid a through b".
	ResidueIDs bool `mapstructure:"residue_ids" yaml:"residue_ids"`

	Helices []secstr.Helix `mapstructure:"helix" yaml:"helix,omitempty"`
	Sheets  []secstr.Sheet `mapstructure:"sheet" yaml:"sheet,omitempty"`
}

// Annotation returns the explicitly configured elements.
func (s SecondaryStructureConfig) Annotation() secstr.Annotation {
	return secstr.Annotation{Helices: s.Helices, Sheets: s.Sheets}
}

// ConvertOptions returns the record conversion options.
func (s SecondaryStructureConfig) ConvertOptions() secstr.ConvertOptions {
	return secstr.ConvertOptions{ResidueIDs: s.ResidueIDs}
}

// InputConfig controls structure reading.
type InputConfig struct {
	FirstModelOnly bool `mapstructure:"first_model_only" yaml:"first_model_only"`
}

// BatchConfig bounds batch parallelism.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	Mode            string        `mapstructure:"mode" yaml:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size" yaml:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// RateLimit is the sustained per-client request rate on /api/v1.  Zero
	// disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst" yaml:"rate_burst"`

	// CORSOrigins lists the browser origins allowed to call the API: exact
	// origins, "*" or "*.example.org".  Empty disables CORS.
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Path      string `mapstructure:"path" yaml:"path"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Restraints         RestraintsConfig         `mapstructure:"restraints" yaml:"restraints"`
	SecondaryStructure SecondaryStructureConfig `mapstructure:"secondary_structure" yaml:"secondary_structure"`
	Input              InputConfig              `mapstructure:"input" yaml:"input"`
	Batch              BatchConfig              `mapstructure:"batch" yaml:"batch"`
	Server             ServerConfig             `mapstructure:"server" yaml:"server"`
	Metrics            MetricsConfig            `mapstructure:"metrics" yaml:"metrics"`
	Log                logging.LogConfig        `mapstructure:"log" yaml:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Restraints
	if err := c.Restraints.ToParams().Validate(); err != nil {
		return fmt.Errorf("config: restraints: %w", err)
	}
	if err := c.SecondaryStructure.Annotation().Validate(); err != nil {
		return fmt.Errorf("config: secondary_structure: %w", err)
	}

	// Batch
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("config: batch.concurrency must be ≥ 1, got %d", c.Batch.Concurrency)
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxBodySize < 1 {
		return fmt.Errorf("config: server.max_body_size must be ≥ 1, got %d", c.Server.MaxBodySize)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("config: server.rate_limit must be ≥ 0, got %g", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("config: server.rate_burst must be ≥ 1 when rate limiting, got %d", c.Server.RateBurst)
	}

	// Metrics
	if c.Metrics.Enabled && (c.Metrics.Path == "" || c.Metrics.Path[0] != '/') {
		return fmt.Errorf("config: metrics.path %q must start with '/'", c.Metrics.Path)
	}

	// Log
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
