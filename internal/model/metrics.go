package model

// DerivedMetrics holds the aggregate figures recomputed on every render.
type DerivedMetrics struct {
	TotalEmails       int `json:"total_emails"`
	NewsletterCount   int `json:"newsletter_count"`
	RegularEmailCount int `json:"regular_email_count"`
	LargeEmailCount   int `json:"large_email_count"`

	TotalSizeMB      float64 `json:"total_size_mb"`
	NewsletterSizeMB float64 `json:"newsletter_size_mb"`
	RegularSizeMB    float64 `json:"regular_size_mb"`

	NewsletterPercent     float64 `json:"newsletter_percent"`
	RegularPercent        float64 `json:"regular_percent"`
	NewsletterSizePercent float64 `json:"newsletter_size_percent"`
	RegularSizePercent    float64 `json:"regular_size_percent"`

	// PotentialSavingsMB is what deleting every newsletter would free.
	PotentialSavingsMB float64 `json:"potential_savings_mb"`
}
