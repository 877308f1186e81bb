package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
)

func TestRestraintsConfig_ToParams(t *testing.T) {
	r := NewDefaultConfig().Restraints
	r.AlphaOnly = true
	r.Verbose = true
	r.SubstituteHeavyForHydrogen = hbond.Bool(true)
	r.Sigma = nil

	p := r.ToParams()
	assert.True(t, p.AlphaOnly)
	assert.True(t, p.Verbose)
	assert.True(t, p.Heavy())
	assert.Nil(t, p.Sigma)
	assert.Equal(t, 0.0, *p.Slack)

	// the Params own their pointers
	*r.Slack = 0.5
	assert.Equal(t, 0.0, *p.Slack)
}

func TestSecondaryStructureConfig(t *testing.T) {
	s := SecondaryStructureConfig{
		ResidueIDs: true,
		Helices:    []secstr.Helix{{Selection: "chain A and resseq 1:10"}},
	}
	assert.Len(t, s.Annotation().Helices, 1)
	assert.True(t, s.ConvertOptions().ResidueIDs)
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Addr())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"body size", func(c *Config) { c.Server.MaxBodySize = -1 }, "server.max_body_size"},
		{"batch", func(c *Config) { c.Batch.Concurrency = 0 }, "batch.concurrency"},
		{"rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "server.rate_limit"},
		{"rate burst", func(c *Config) { c.Server.RateLimit, c.Server.RateBurst = 5, 0 }, "server.rate_burst"},
		{"rate limit enabled", func(c *Config) { c.Server.RateLimit = 5 }, ""},
		{"sigma", func(c *Config) { c.Restraints.Sigma = hbond.Float(-1) }, "restraints"},
		{"distance", func(c *Config) { c.Restraints.MaxDistanceH = 0 }, "max_distance_h"},
		{"helix", func(c *Config) {
			c.SecondaryStructure.Helices = []secstr.Helix{{Selection: " "}}
		}, "secondary_structure"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"metrics disabled", func(c *Config) { c.Metrics.Enabled, c.Metrics.Path = false, "" }, ""},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "text" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
