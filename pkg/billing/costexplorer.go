package billing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
)

// costExplorerRegion is where the Cost Explorer API is served from.
const costExplorerRegion = "us-east-1"

// CostExplorer implements CostQuerier on top of AWS Cost Explorer.
type CostExplorer struct {
	client GetCostAndUsageAPI
}

// NewCostExplorer creates a Cost Explorer backed querier from an AWS config.
func NewCostExplorer(awsCfg aws.Config) *CostExplorer {
	cfg := awsCfg.Copy()
	cfg.Region = costExplorerRegion
	return &CostExplorer{client: costexplorer.NewFromConfig(cfg)}
}

// NewCostExplorerWithClient wraps an existing client, typically a test double.
func NewCostExplorerWithClient(client GetCostAndUsageAPI) *CostExplorer {
	return &CostExplorer{client: client}
}

// TotalCost sums the daily unblended cost for resources tagged with tag.
// Results are taken from a single call; pagination is not followed.
func (c *CostExplorer) TotalCost(ctx context.Context, tag model.TagFilter, period model.DateRange) (float64, error) {
	output, err := c.client.GetCostAndUsage(ctx, BuildInput(tag, period))
	if err != nil {
		return 0, fmt.Errorf("get cost and usage: %w", err)
	}
	return SumUnblendedCost(output)
}

// BuildInput constructs the GetCostAndUsage request for a tag and date range.
func BuildInput(tag model.TagFilter, period model.DateRange) *costexplorer.GetCostAndUsageInput {
	return &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(period.StartDate()),
			End:   aws.String(period.EndDate()),
		},
		Granularity: types.GranularityDaily,
		Filter: &types.Expression{
			Tags: &types.TagValues{
				Key:    aws.String(tag.Key),
				Values: []string{tag.Value},
			},
		},
		Metrics: []string{MetricUnblendedCost},
	}
}

// SumUnblendedCost adds up the unblended cost of every period in output.
func SumUnblendedCost(output *costexplorer.GetCostAndUsageOutput) (float64, error) {
	if output == nil {
		return 0, nil
	}

	var total float64
	for _, result := range output.ResultsByTime {
		metric, ok := result.Total[MetricUnblendedCost]
		if !ok || metric.Amount == nil {
			return 0, fmt.Errorf("period %s: missing %s amount", periodStart(result), MetricUnblendedCost)
		}
		amount, err := strconv.ParseFloat(*metric.Amount, 64)
		if err != nil {
			return 0, fmt.Errorf("period %s: parse amount %q: %w", periodStart(result), *metric.Amount, err)
		}
		total += amount
	}
	return total, nil
}

func periodStart(result types.ResultByTime) string {
	if result.TimePeriod == nil {
		return "?"
	}
	return aws.ToString(result.TimePeriod.Start)
}
