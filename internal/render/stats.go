package render

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"inbox-dashboard/internal/model"
)

var germanPrinter = message.NewPrinter(language.German)

// Stats are the figures shown on the stat cards.
type Stats struct {
	TotalEmails      string `json:"total_emails"`
	NewsletterCount  string `json:"newsletter_count"`
	TotalSize        string `json:"total_size"`
	PotentialSavings string `json:"potential_savings"`
	LargeEmailCount  string `json:"large_email_count"`
}

func BuildStats(m model.DerivedMetrics) Stats {
	return Stats{
		TotalEmails:      GroupThousands(m.TotalEmails),
		NewsletterCount:  GroupThousands(m.NewsletterCount),
		TotalSize:        fmt.Sprintf("%.1f", m.TotalSizeMB),
		PotentialSavings: fmt.Sprintf("%.1f", m.PotentialSavingsMB),
		LargeEmailCount:  GroupThousands(m.LargeEmailCount),
	}
}

// GroupThousands formats a count the German way, e.g. 1.247.
func GroupThousands(n int) string {
	return germanPrinter.Sprintf("%d", n)
}
