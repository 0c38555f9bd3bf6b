package ingest

import (
	"time"

	"inbox-dashboard/internal/model"
)

// DemoReport is the sample inbox shown by the demo button.
func DemoReport(now time.Time) *model.EmailReport {
	return &model.EmailReport{
		TotalEmails:  1247,
		TotalSizeMB:  523.7,
		AnalysisDate: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Newsletters: []model.NewsletterEntry{
			{
				Subject:         "Weekly Tech Newsletter - KI & Automation Trends",
				From:            "tech@newsletter.com",
				SizeMB:          2.3,
				UnsubscribeLink: "https://example.com/unsubscribe",
				Date:            "2025-07-20",
			},
			{
				Subject: "Marketing Update - Q3 Strategien für 2025",
				From:    "marketing@company.com",
				SizeMB:  1.8,
				Date:    "2025-07-19",
			},
			{
				Subject:         "Daily Digest - Wichtige News aus Tech & Business",
				From:            "news@dailydigest.com",
				SizeMB:          0.9,
				UnsubscribeLink: "https://dailydigest.com/unsubscribe",
				Date:            "2025-07-18",
			},
			{
				Subject:         "Shopping Deals & Angebote - Wöchentliche Highlights",
				From:            "deals@shop.com",
				SizeMB:          3.1,
				UnsubscribeLink: "https://shop.com/unsubscribe",
				Date:            "2025-07-17",
			},
			{
				Subject:         "Fitness Weekly - Workout Tips & Gesundheit",
				From:            "fitness@healthapp.com",
				SizeMB:          1.5,
				UnsubscribeLink: "https://healthapp.com/unsubscribe",
				Date:            "2025-07-16",
			},
		},
		LargeEmails: []model.EmailEntry{
			{
				Subject: "Video Conference Recording - Team Meeting",
				From:    "meetings@company.com",
				SizeMB:  15.2,
				Date:    "2025-07-15",
			},
		},
	}
}
