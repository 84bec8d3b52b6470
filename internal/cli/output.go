package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func checkOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (text, json, yaml)", format)
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeReport prints a single report in the requested format.
func writeReport(w io.Writer, format string, r *model.CostReport) error {
	if format != outputText {
		return writeStructured(w, format, r)
	}

	fmt.Fprintf(w, "=== AWS Cost Report ===\n")
	fmt.Fprintf(w, "Tag:         %s\n", r.Tag)
	fmt.Fprintf(w, "Period:      %s to %s\n", r.Range.StartDate(), r.Range.EndDate())
	fmt.Fprintf(w, "Total Cost:  $%.2f\n", r.TotalCost)
	if r.Notifier != "" {
		fmt.Fprintf(w, "Sent via:    %s\n", r.Notifier)
	} else {
		fmt.Fprintf(w, "\nMessage (not sent):\n%s\n", r.Message)
	}
	return nil
}

// writeHistory prints stored reports in the requested format.
func writeHistory(w io.Writer, format string, reports []model.CostReport) error {
	if format != outputText {
		if reports == nil {
			reports = []model.CostReport{}
		}
		return writeStructured(w, format, reports)
	}

	if len(reports) == 0 {
		fmt.Fprintln(w, "No reports recorded.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"SENT", "TAG", "START", "END", "COST", "NOTIFIER"})
	for _, r := range reports {
		tw.AppendRow(table.Row{
			r.SentAt.Format("2006-01-02 15:04"),
			r.Tag.String(),
			r.Range.StartDate(),
			r.Range.EndDate(),
			fmt.Sprintf("$%.2f", r.TotalCost),
			r.Notifier,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})
	tw.Render()
	return nil
}
