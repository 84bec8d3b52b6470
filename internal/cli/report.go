package cli

import (
	"fmt"

	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a cost report for a tag and send it",
	Long: `Query AWS Cost Explorer for the trailing window's unblended cost of resources
carrying the given tag, then post the report to the configured notifier.
Use --dry-run to print the report without sending it.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("tag-key", "k", "", "Tag key (default from config)")
	reportCmd.Flags().StringP("tag-value", "v", "", "Tag value (default from config)")
	reportCmd.Flags().Bool("dry-run", false, "Print the report without sending it")
	reportCmd.Flags().StringP("output", "o", outputText, "Output format (text, json, yaml)")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tagKey, _ := cmd.Flags().GetString("tag-key")
	tagValue, _ := cmd.Flags().GetString("tag-value")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	output, _ := cmd.Flags().GetString("output")

	if err := checkOutput(output); err != nil {
		return err
	}

	tag := model.TagFilter{Key: cfg.Report.TagKey, Value: cfg.Report.TagValue}
	if tagKey != "" {
		tag.Key = tagKey
	}
	if tagValue != "" {
		tag.Value = tagValue
	}

	comps, err := initComponents(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	var r *model.CostReport
	if dryRun {
		r, err = comps.Handler.Build(cmd.Context(), tag)
	} else {
		r, err = comps.Handler.Send(cmd.Context(), tag)
	}
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	return writeReport(cmd.OutOrStdout(), output, r)
}
