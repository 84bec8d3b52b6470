package billing

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
)

// MetricUnblendedCost is the Cost Explorer metric summed by reports.
const MetricUnblendedCost = "UnblendedCost"

// CostQuerier returns the total cost attributed to a tag over a date range.
type CostQuerier interface {
	TotalCost(ctx context.Context, tag model.TagFilter, period model.DateRange) (float64, error)
}

// GetCostAndUsageAPI is the subset of the Cost Explorer client used here.
type GetCostAndUsageAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}
