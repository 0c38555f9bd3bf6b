package export

import (
	"encoding/json"
	"time"

	"inbox-dashboard/internal/model"
)

const DaysAnalyzed = 30

type Report struct {
	Generated        string           `json:"generated"`
	Summary          Summary          `json:"summary"`
	DetailedAnalysis DetailedAnalysis `json:"detailed_analysis"`
	Metadata         Metadata         `json:"metadata"`
}

type Summary struct {
	TotalEmails        int     `json:"total_emails"`
	NewslettersFound   int     `json:"newsletters_found"`
	TotalSizeMB        float64 `json:"total_size_mb"`
	PotentialSavingsMB float64 `json:"potential_savings_mb"`
	LargeEmailsCount   int     `json:"large_emails_count"`
}

type DetailedAnalysis struct {
	Newsletters []model.NewsletterEntry `json:"newsletters"`
	LargeEmails []model.EmailEntry      `json:"large_emails"`
}

type Metadata struct {
	AnalysisDate string `json:"analysis_date,omitempty"`
	DaysAnalyzed int    `json:"days_analyzed"`
	ToolVersion  string `json:"tool_version"`
}

// BuildReport wraps a loaded report with its summary and metadata.
func BuildReport(report *model.EmailReport, now time.Time, toolVersion string) Report {
	if report == nil {
		report = model.NewEmailReport()
	}
	newsletters := report.Newsletters
	if newsletters == nil {
		newsletters = []model.NewsletterEntry{}
	}
	largeEmails := report.LargeEmails
	if largeEmails == nil {
		largeEmails = []model.EmailEntry{}
	}

	return Report{
		Generated: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Summary: Summary{
			TotalEmails:        report.TotalEmails,
			NewslettersFound:   len(newsletters),
			TotalSizeMB:        report.TotalSizeMB,
			PotentialSavingsMB: report.NewsletterSizeMB(),
			LargeEmailsCount:   len(largeEmails),
		},
		DetailedAnalysis: DetailedAnalysis{
			Newsletters: newsletters,
			LargeEmails: largeEmails,
		},
		Metadata: Metadata{
			AnalysisDate: report.AnalysisDate,
			DaysAnalyzed: DaysAnalyzed,
			ToolVersion:  toolVersion,
		},
	}
}

// JSON renders the report indented by two spaces.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
