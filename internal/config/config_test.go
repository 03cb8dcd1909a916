package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config that passes Validate after ApplyDefaults.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Database.User = "lexintel"
	cfg.Embedding.BaseURL = "http://localhost:8090"
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, DefaultMilvusCollection, cfg.Milvus.Collection)
	assert.Equal(t, DefaultEmbeddingDim, cfg.Milvus.EmbeddingDim)
	assert.Equal(t, DefaultUnchangedThreshold, cfg.Analysis.UnchangedThreshold)
	assert.Equal(t, DefaultSameClauseFloor, cfg.Analysis.SameClauseFloor)
	assert.Equal(t, DefaultConflictThreshold, cfg.Analysis.ConflictThreshold)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)

	// explicit values win
	cfg2 := &Config{}
	cfg2.Server.Port = 9999
	cfg2.Analysis.ConflictThreshold = 0.85
	ApplyDefaults(cfg2)
	assert.Equal(t, 9999, cfg2.Server.Port)
	assert.Equal(t, 0.85, cfg2.Analysis.ConflictThreshold)
}

func TestApplyDefaultsNil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing db user", func(c *Config) { c.Database.User = "" }},
		{"missing redis addr", func(c *Config) { c.Redis.Addr = "" }},
		{"no kafka brokers", func(c *Config) { c.Kafka.Brokers = nil }},
		{"missing milvus addr", func(c *Config) { c.Milvus.Addr = "" }},
		{"missing embedding url", func(c *Config) { c.Embedding.BaseURL = "" }},
		{"dim mismatch", func(c *Config) { c.Embedding.Dimension = 1536 }},
		{"thresholds inverted", func(c *Config) {
			c.Analysis.UnchangedThreshold = 0.2
			c.Analysis.SameClauseFloor = 0.3
		}},
		{"conflict threshold out of range", func(c *Config) { c.Analysis.ConflictThreshold = 1.2 }},
		{"validation floor out of range", func(c *Config) { c.Analysis.ValidationFloor = 101 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "text" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
