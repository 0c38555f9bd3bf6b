package metrics

import (
	"math"

	"inbox-dashboard/internal/model"
)

// Derive computes the aggregate figures for a report. Regular counts and
// sizes clamp at zero when newsletters exceed the totals, and every
// percentage is 0 when its denominator is 0.
func Derive(report *model.EmailReport) model.DerivedMetrics {
	if report == nil {
		return model.DerivedMetrics{}
	}

	newsletterCount := len(report.Newsletters)
	newsletterSize := report.NewsletterSizeMB()

	regularCount := report.TotalEmails - newsletterCount
	if regularCount < 0 {
		regularCount = 0
	}
	regularSize := math.Max(0, report.TotalSizeMB-newsletterSize)

	return model.DerivedMetrics{
		TotalEmails:       report.TotalEmails,
		NewsletterCount:   newsletterCount,
		RegularEmailCount: regularCount,
		LargeEmailCount:   len(report.LargeEmails),

		TotalSizeMB:      Round1(report.TotalSizeMB),
		NewsletterSizeMB: Round1(newsletterSize),
		RegularSizeMB:    Round1(regularSize),

		NewsletterPercent:     Percent(float64(newsletterCount), float64(report.TotalEmails)),
		RegularPercent:        Percent(float64(regularCount), float64(report.TotalEmails)),
		NewsletterSizePercent: Percent(newsletterSize, report.TotalSizeMB),
		RegularSizePercent:    Percent(regularSize, report.TotalSizeMB),

		PotentialSavingsMB: Round1(newsletterSize),
	}
}

// Percent returns part/total*100 rounded to one decimal, or 0 for an empty total.
func Percent(part, total float64) float64 {
	if total <= 0 || math.IsNaN(part) || math.IsNaN(total) {
		return 0
	}
	return Round1(part / total * 100)
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}
