package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/app"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("TCR_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := app.NewLogger(cfg, os.Stderr)

	comps, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	logger.Info("cost reporter ready",
		"tag_key", cfg.Report.TagKey,
		"tag_value", cfg.Report.TagValue,
		"notifier", cfg.Notify.Kind,
	)

	lambda.Start(comps.Handler.HandleRequest)
	return nil
}
