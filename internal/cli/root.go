package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/ogulcanaydogan/aws-cost-reporter/internal/app"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tcr",
	Short: "Tag Cost Reporter - AWS cost reports by resource tag",
	Long: `Tag Cost Reporter sums the last 30 days of AWS Cost Explorer spend for a
resource tag and posts the result to Slack or a generic webhook. It runs as an
AWS Lambda function, as a local HTTP server, or from the command line.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.tcr/config.yaml)")
}

// loadRawConfig loads the configuration without validating it.
func loadRawConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// loadConfig loads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := loadRawConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	return app.NewLogger(cfg, os.Stderr)
}

// initComponents creates a fully wired report handler.
func initComponents(ctx context.Context, cfg *config.Config) (*app.Components, error) {
	return app.Build(ctx, cfg, newLogger(cfg))
}
