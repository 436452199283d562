// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/formpilot-cli/internal/executor"
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig          `mapstructure:"logger" yaml:"logger"`
	Browser    BrowserConfig         `mapstructure:"browser" yaml:"browser"`
	Classifier ClassifierConfig      `mapstructure:"classifier" yaml:"classifier"`
	Timing     executor.TimingConfig `mapstructure:"timing" yaml:"timing"`
	Fill       FillConfig            `mapstructure:"fill" yaml:"fill"`
	Profile    ProfileConfig         `mapstructure:"profile" yaml:"profile"`
	Store      StoreConfig           `mapstructure:"store" yaml:"store"`
	Webhook    WebhookConfig         `mapstructure:"webhook" yaml:"webhook"`
}

// LoggerConfig controls log output, formatting and rotation.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig controls the Chrome launch and navigation behavior.
type BrowserConfig struct {
	Headless    bool     `mapstructure:"headless" yaml:"headless"`
	ExecPath    string   `mapstructure:"exec_path" yaml:"exec_path"`
	UserDataDir string   `mapstructure:"user_data_dir" yaml:"user_data_dir"`
	Args        []string `mapstructure:"args" yaml:"args"`
	// Headers are added to every request the browser makes.
	Headers            map[string]string `mapstructure:"headers" yaml:"headers"`
	NavigationTimeout  time.Duration     `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	WaitElementTimeout time.Duration     `mapstructure:"wait_element_timeout" yaml:"wait_element_timeout"`
}

// ClassifierConfig holds the form scoring weights. A container is treated as
// an application form when its weighted field score reaches the threshold,
// and never without an email field.
type ClassifierConfig struct {
	EmailWeight  int `mapstructure:"email_weight" yaml:"email_weight"`
	CommonWeight int `mapstructure:"common_weight" yaml:"common_weight"`
	JobWeight    int `mapstructure:"job_weight" yaml:"job_weight"`
	Threshold    int `mapstructure:"threshold" yaml:"threshold"`
}

// FillConfig holds the default fill options applied when the CLI flags leave
// them unset.
type FillConfig struct {
	SkipOptional     bool `mapstructure:"skip_optional" yaml:"skip_optional"`
	SkipDemographics bool `mapstructure:"skip_demographics" yaml:"skip_demographics"`
	FocusFirst       bool `mapstructure:"focus_first" yaml:"focus_first"`
	// HistoryLimit caps the persisted audit log.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`
}

// ProfileConfig points at the companion profile backend.
type ProfileConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// APIToken is normally supplied via FORMPILOT_API_TOKEN.
	APIToken string        `mapstructure:"api_token" yaml:"api_token"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// StoreConfig locates the local persistence file.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// WebhookConfig configures the optional fill-outcome webhook.
type WebhookConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "formpilot-cli")
	v.SetDefault("logger.log_file", "formpilot.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigation_timeout", "30s")
	v.SetDefault("browser.wait_element_timeout", "4s")

	// -- Classifier --
	v.SetDefault("classifier.email_weight", 10)
	v.SetDefault("classifier.common_weight", 5)
	v.SetDefault("classifier.job_weight", 10)
	v.SetDefault("classifier.threshold", 20)

	// -- Timing --
	v.SetDefault("timing.char_delay_min_ms", 30)
	v.SetDefault("timing.char_delay_max_ms", 100)
	v.SetDefault("timing.chunk_size", 10)
	v.SetDefault("timing.chunk_delay_min_ms", 50)
	v.SetDefault("timing.chunk_delay_max_ms", 150)
	v.SetDefault("timing.field_delay_min_ms", 100)
	v.SetDefault("timing.field_delay_max_ms", 500)
	v.SetDefault("timing.pre_focus_delay_ms", 150)

	// -- Fill --
	v.SetDefault("fill.skip_optional", false)
	v.SetDefault("fill.skip_demographics", true)
	v.SetDefault("fill.focus_first", true)
	v.SetDefault("fill.history_limit", 50)

	// -- Profile --
	v.SetDefault("profile.base_url", "https://app.formpilot.io")
	v.SetDefault("profile.cache_ttl", "15m")

	// -- Store --
	v.SetDefault("store.path", defaultStorePath())

	// -- Webhook --
	v.SetDefault("webhook.url", "")
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "formpilot-store.json"
	}
	return filepath.Join(home, ".formpilot", "store.json")
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data.
	v.BindEnv("profile.api_token", "FORMPILOT_API_TOKEN")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.Profile.APIToken == "" {
		cfg.Profile.APIToken = os.Getenv("FORMPILOT_API_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot work at runtime.
func (c *Config) Validate() error {
	if c.Classifier.Threshold <= 0 {
		return fmt.Errorf("classifier.threshold must be positive, got %d", c.Classifier.Threshold)
	}
	if c.Classifier.EmailWeight <= 0 {
		return fmt.Errorf("classifier.email_weight must be positive, got %d", c.Classifier.EmailWeight)
	}
	if c.Timing.ChunkSize < 1 {
		return fmt.Errorf("timing.chunk_size must be at least 1, got %d", c.Timing.ChunkSize)
	}
	if c.Timing.CharDelayMaxMs < c.Timing.CharDelayMinMs {
		return fmt.Errorf("timing.char_delay_max_ms below char_delay_min_ms")
	}
	if c.Timing.FieldDelayMaxMs < c.Timing.FieldDelayMinMs {
		return fmt.Errorf("timing.field_delay_max_ms below field_delay_min_ms")
	}
	if c.Fill.HistoryLimit <= 0 {
		return fmt.Errorf("fill.history_limit must be positive, got %d", c.Fill.HistoryLimit)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	return nil
}
