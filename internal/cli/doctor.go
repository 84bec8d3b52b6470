package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/app"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/awsenv"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, AWS credentials, and report history",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	failed := false

	cfg, err := loadRawConfig()
	if err != nil {
		check(out, "config", err)
		return errors.New("configuration could not be loaded")
	}

	if err := cfg.Validate(); err != nil {
		failed = true
		check(out, "config", err)
	} else {
		check(out, "config", nil)
		fmt.Fprintf(out, "       tag %s=%s, notifier %s, window %d days\n",
			cfg.Report.TagKey, cfg.Report.TagValue, cfg.Notify.Kind, cfg.Report.WindowDays)
	}

	awsCfg, err := awsenv.Load(cmd.Context(), cfg.AWS)
	if err != nil {
		failed = true
		check(out, "aws credentials", err)
	} else {
		id, err := awsenv.CallerIdentity(cmd.Context(), awsCfg)
		check(out, "aws credentials", err)
		if err != nil {
			failed = true
		} else {
			fmt.Fprintf(out, "       account %s as %s\n", id.AccountID, id.ARN)
		}
	}

	if cfg.History.Enabled {
		store, err := app.OpenHistory(cfg)
		check(out, "history", err)
		if err != nil {
			failed = true
		} else {
			store.Close()
			fmt.Fprintf(out, "       %s\n", cfg.History.Path)
		}
	}

	if failed {
		return errors.New("one or more checks failed")
	}
	return nil
}

var (
	okMark   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
)

func check(w io.Writer, name string, err error) {
	if err != nil {
		fmt.Fprintf(w, "[%s] %s: %v\n", failMark("FAIL"), name, err)
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", okMark(" OK "), name)
}
