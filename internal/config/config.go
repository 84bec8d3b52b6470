package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Notifier kinds accepted in notify.kind.
const (
	NotifySlack   = "slack"
	NotifyWebhook = "webhook"
)

// ErrMissingRequired is wrapped by Validate when a required value is unset.
var ErrMissingRequired = errors.New("missing required configuration")

// Config holds all cost reporter configuration.
type Config struct {
	Report  ReportConfig  `mapstructure:"report"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	AWS     AWSConfig     `mapstructure:"aws"`
	History HistoryConfig `mapstructure:"history"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ReportConfig defines the default tag and window reported on.
type ReportConfig struct {
	TagKey     string `mapstructure:"tag_key"`
	TagValue   string `mapstructure:"tag_value"`
	WindowDays int    `mapstructure:"window_days"`
}

// NotifyConfig defines where report messages are delivered.
type NotifyConfig struct {
	Kind       string `mapstructure:"kind"`
	WebhookURL string `mapstructure:"webhook_url"`
	Secret     string `mapstructure:"secret"`
	Timeout    string `mapstructure:"timeout"`
}

// AWSConfig selects the AWS credentials used for Cost Explorer.
type AWSConfig struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// HistoryConfig defines the optional local report history.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ServerConfig defines the local HTTP server settings.
type ServerConfig struct {
	Listen       string `mapstructure:"listen"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envAliases binds the unprefixed variable names of existing Lambda deployments.
var envAliases = map[string]string{
	"report.tag_key":     "AWS_COST_TARGET_TAG",
	"report.tag_value":   "AWS_COST_TARGET_KEY",
	"notify.webhook_url": "SLACK_WEBHOOK_URL",
}

// Load reads configuration from file and environment variables.
// It does not validate; call Validate before using the result.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home != "" {
			v.AddConfigPath(filepath.Join(home, ".tcr"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	v.SetDefault("report.tag_key", "")
	v.SetDefault("report.tag_value", "")
	v.SetDefault("report.window_days", 30)
	v.SetDefault("notify.kind", NotifySlack)
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.secret", "")
	v.SetDefault("notify.timeout", "10s")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", filepath.Join(home, ".tcr", "history.db"))
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Environment variables
	v.SetEnvPrefix("TCR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		prefixed := "TCR_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", alias, err)
		}
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate reports the first configuration problem that would prevent a report from running.
func (c *Config) Validate() error {
	if c.Report.TagKey == "" {
		return fmt.Errorf("%w: report.tag_key (AWS_COST_TARGET_TAG)", ErrMissingRequired)
	}
	if c.Report.TagValue == "" {
		return fmt.Errorf("%w: report.tag_value (AWS_COST_TARGET_KEY)", ErrMissingRequired)
	}
	if c.Notify.WebhookURL == "" {
		return fmt.Errorf("%w: notify.webhook_url (SLACK_WEBHOOK_URL)", ErrMissingRequired)
	}
	if c.Report.WindowDays < 1 {
		return fmt.Errorf("report.window_days must be at least 1, got %d", c.Report.WindowDays)
	}
	switch c.Notify.Kind {
	case NotifySlack, NotifyWebhook:
	default:
		return fmt.Errorf("unknown notify.kind %q", c.Notify.Kind)
	}
	if _, err := time.ParseDuration(c.Notify.Timeout); err != nil {
		return fmt.Errorf("notify.timeout: %w", err)
	}
	return nil
}

// NotifyTimeout returns the configured HTTP timeout for notifications.
func (c *Config) NotifyTimeout() time.Duration {
	d, err := time.ParseDuration(c.Notify.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
