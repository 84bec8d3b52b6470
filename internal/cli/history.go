package cli

import (
	"errors"
	"fmt"

	"github.com/ogulcanaydogan/aws-cost-reporter/internal/app"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously sent cost reports",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringP("tag-key", "k", "", "Filter by tag key")
	historyCmd.Flags().StringP("tag-value", "v", "", "Filter by tag value")
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of reports (0 for all)")
	historyCmd.Flags().StringP("output", "o", outputText, "Output format (text, json, yaml)")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRawConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.New("report history is disabled; set history.enabled: true")
	}

	tagKey, _ := cmd.Flags().GetString("tag-key")
	tagValue, _ := cmd.Flags().GetString("tag-value")
	limit, _ := cmd.Flags().GetInt("limit")
	output, _ := cmd.Flags().GetString("output")

	if err := checkOutput(output); err != nil {
		return err
	}

	store, err := app.OpenHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	reports, err := store.ListReports(cmd.Context(), model.HistoryFilter{
		TagKey:   tagKey,
		TagValue: tagValue,
		Limit:    limit,
	})
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	return writeHistory(cmd.OutOrStdout(), output, reports)
}
