package model

import (
	"strings"
	"time"
)

// NewsletterEntry is one email classified as bulk or marketing content.
type NewsletterEntry struct {
	Subject         string  `json:"subject"`
	From            string  `json:"from"`
	SizeMB          float64 `json:"size_mb"`
	UnsubscribeLink string  `json:"unsubscribe_link"`
	Date            string  `json:"date"`
	ID              string  `json:"id,omitempty"`
}

// HasID reports whether live actions can target the entry.
func (n NewsletterEntry) HasID() bool {
	return strings.TrimSpace(n.ID) != ""
}

func (n NewsletterEntry) HasUnsubscribeLink() bool {
	return strings.TrimSpace(n.UnsubscribeLink) != ""
}

// EmailEntry is a regular email listed in the report, e.g. a large one.
type EmailEntry struct {
	Subject string  `json:"subject"`
	From    string  `json:"from"`
	SizeMB  float64 `json:"size_mb"`
	Date    string  `json:"date"`
	ID      string  `json:"id,omitempty"`
}

// EmailReport is the parsed inbox export.
type EmailReport struct {
	TotalEmails  int               `json:"total_emails"`
	TotalSizeMB  float64           `json:"total_size_mb"`
	AnalysisDate string            `json:"analysis_date,omitempty"`
	Newsletters  []NewsletterEntry `json:"newsletters"`
	LargeEmails  []EmailEntry      `json:"large_emails"`
}

// NewEmailReport returns an empty report with non-nil slices.
func NewEmailReport() *EmailReport {
	return &EmailReport{
		Newsletters: []NewsletterEntry{},
		LargeEmails: []EmailEntry{},
	}
}

// AnalysisTime parses AnalysisDate, returning false when it is absent or unparsable.
func (r *EmailReport) AnalysisTime() (time.Time, bool) {
	if r.AnalysisDate == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, r.AnalysisDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewsletterSizeMB sums the sizes of all newsletters.
func (r *EmailReport) NewsletterSizeMB() float64 {
	var sum float64
	for _, n := range r.Newsletters {
		sum += n.SizeMB
	}
	return sum
}
