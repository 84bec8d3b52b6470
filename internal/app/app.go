// Package app wires configuration into the report handler and its collaborators.
// It is shared by the CLI and the Lambda entry point.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ogulcanaydogan/aws-cost-reporter/internal/awsenv"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/config"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/report"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/billing"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/notify"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/storage"
)

// NewLogger creates a structured logger from config.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// NewNotifier creates the notifier selected by notify.kind.
func NewNotifier(cfg *config.Config) (notify.Notifier, error) {
	switch cfg.Notify.Kind {
	case config.NotifySlack, "":
		return notify.NewSlackNotifier(cfg.Notify.WebhookURL, cfg.NotifyTimeout()), nil
	case config.NotifyWebhook:
		return notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Secret, cfg.NotifyTimeout()), nil
	default:
		return nil, fmt.Errorf("unknown notify.kind %q", cfg.Notify.Kind)
	}
}

// OpenHistory opens the report history store, or returns nil when history
// is disabled.
func OpenHistory(cfg *config.Config) (storage.Storage, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := storage.NewSQLite(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// Components is a fully wired report handler plus the resources it holds.
type Components struct {
	Handler *report.Handler
	History storage.Storage
}

// Close releases the history store if one was opened.
func (c *Components) Close() error {
	if c.History == nil {
		return nil
	}
	return c.History.Close()
}

// Build resolves AWS credentials and wires a report handler from cfg.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	awsCfg, err := awsenv.Load(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	return BuildWith(cfg, billing.NewCostExplorer(awsCfg), logger)
}

// BuildWith wires a report handler around an existing cost querier.
func BuildWith(cfg *config.Config, costs billing.CostQuerier, logger *slog.Logger) (*Components, error) {
	notifier, err := NewNotifier(cfg)
	if err != nil {
		return nil, err
	}

	history, err := OpenHistory(cfg)
	if err != nil {
		return nil, err
	}

	opts := []report.Option{report.WithWindowDays(cfg.Report.WindowDays)}
	if history != nil {
		opts = append(opts, report.WithHistory(history))
	}

	defaults := model.TagFilter{Key: cfg.Report.TagKey, Value: cfg.Report.TagValue}
	return &Components{
		Handler: report.NewHandler(defaults, costs, notifier, logger, opts...),
		History: history,
	}, nil
}
