package storage

import (
	"context"

	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
)

// Storage defines the persistence layer for sent cost reports.
type Storage interface {
	// RecordReport persists a sent report.
	RecordReport(ctx context.Context, report *model.CostReport) error

	// ListReports returns stored reports, newest first.
	ListReports(ctx context.Context, filter model.HistoryFilter) ([]model.CostReport, error)

	// Close releases resources.
	Close() error
}
