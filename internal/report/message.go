package report

import (
	"fmt"

	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
)

// SuccessMessage is returned to the caller once a report has been delivered.
const SuccessMessage = "Cost report sent to Slack!"

// InvalidBodyMessage is the error text for a body that cannot be decoded.
const InvalidBodyMessage = "Invalid JSON body"

// FormatMessage renders the Slack mrkdwn report text.
func FormatMessage(tag model.TagFilter, period model.DateRange, total float64) string {
	return fmt.Sprintf("*AWS Cost Report*\n"+
		"🔖 *Tag:* `%s`\n"+
		"📅 *Time Period:* %s → %s\n"+
		"💰 *Total Cost:* $%.2f",
		tag.String(), period.StartDate(), period.EndDate(), total)
}
