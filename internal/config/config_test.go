package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "formpilot-cli", cfg.Logger.ServiceName)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)

	// Scoring weights and threshold.
	assert.Equal(t, 10, cfg.Classifier.EmailWeight)
	assert.Equal(t, 5, cfg.Classifier.CommonWeight)
	assert.Equal(t, 10, cfg.Classifier.JobWeight)
	assert.Equal(t, 20, cfg.Classifier.Threshold)

	// Pacing bounds.
	assert.Equal(t, 30, cfg.Timing.CharDelayMinMs)
	assert.Equal(t, 100, cfg.Timing.CharDelayMaxMs)
	assert.Equal(t, 10, cfg.Timing.ChunkSize)

	// Demographics are opt-in by default.
	assert.True(t, cfg.Fill.SkipDemographics)
	assert.False(t, cfg.Fill.SkipOptional)
	assert.Equal(t, 50, cfg.Fill.HistoryLimit)

	assert.Equal(t, 15*time.Minute, cfg.Profile.CacheTTL)
	assert.NotEmpty(t, cfg.Store.Path)

	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("classifier.threshold", 25)
	v.Set("fill.skip_demographics", false)
	v.Set("browser.headless", false)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Classifier.Threshold)
	assert.False(t, cfg.Fill.SkipDemographics)
	assert.False(t, cfg.Browser.Headless)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FORMPILOT_API_TOKEN", "secret-token")

	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Profile.APIToken)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.Classifier.Threshold = 0 }},
		{"zero email weight", func(c *Config) { c.Classifier.EmailWeight = 0 }},
		{"zero chunk size", func(c *Config) { c.Timing.ChunkSize = 0 }},
		{"inverted char delays", func(c *Config) { c.Timing.CharDelayMaxMs = 10 }},
		{"inverted field delays", func(c *Config) { c.Timing.FieldDelayMaxMs = 10 }},
		{"zero history limit", func(c *Config) { c.Fill.HistoryLimit = 0 }},
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
