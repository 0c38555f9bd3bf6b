package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/service"

	"github.com/spf13/cobra"
)

var (
	analyzeDays int
	analyzeOut  string
)

// analyzeCmd scans the inbox and writes the report the dashboard uploads
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the inbox and write a report",
	Long: `Scans the emails of the last --days days, detects newsletters and
large emails, and writes the report as JSON. Use --out - for stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mailboxClient(cmd.Context())
		if err != nil {
			return err
		}

		analyzer := service.NewAnalyzerService(client, service.AnalyzerOptions{
			MaxResults:   cfg.AnalyzeMaxResults,
			LargeEmailMB: cfg.LargeEmailMB,
			Pace:         cfg.DeleteInterval,
		}, appLogger.WithComponent("analyzer"))

		report, err := analyzer.AnalyzeInbox(cmd.Context(), analyzeDays)
		if err != nil {
			return err
		}

		if analyzeOut == "-" {
			return writeReport(cmd.OutOrStdout(), report)
		}
		if err := writeReportFile(analyzeOut, report); err != nil {
			return err
		}
		printSummary(cmd.ErrOrStderr(), report)
		fmt.Fprintf(cmd.ErrOrStderr(), "📁 Detailanalyse in %s gespeichert\n", analyzeOut)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 30, "number of days to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "email_analysis.json", "output file, - for stdout")
}

func writeReport(w io.Writer, report *model.EmailReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

func writeReportFile(path string, report *model.EmailReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeReport(f, report); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func printSummary(w io.Writer, report *model.EmailReport) {
	fmt.Fprintln(w, "📊 ANALYSIS REPORT:")
	fmt.Fprintf(w, "   📧 Emails insgesamt: %d\n", report.TotalEmails)
	fmt.Fprintf(w, "   📰 Newsletter gefunden: %d\n", len(report.Newsletters))
	fmt.Fprintf(w, "   💾 Große Emails: %d\n", len(report.LargeEmails))
	fmt.Fprintf(w, "   📏 Gesamtgröße: %.2f MB\n", report.TotalSizeMB)
	if t, ok := report.AnalysisTime(); ok {
		fmt.Fprintf(w, "   🕒 Analysiert: %s\n", t.Local().Format(time.DateTime))
	}
}
