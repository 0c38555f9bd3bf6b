package export

import (
	"fmt"
	"time"
)

const (
	ReportPurpose = "email_cleaner_report"
	CSVPurpose    = "newsletter_export"
)

// FileName builds "{purpose}_{YYYY-MM-DD}.{ext}" for the given day.
func FileName(purpose, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", purpose, now.UTC().Format("2006-01-02"), ext)
}
