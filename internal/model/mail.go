package model

// MessageDetails is what the mail backend knows about a single message.
type MessageDetails struct {
	ID      string            `json:"id"`
	Subject string            `json:"subject"`
	From    string            `json:"from"`
	To      string            `json:"to,omitempty"`
	Date    string            `json:"date,omitempty"`
	Body    string            `json:"-"`
	HTML    string            `json:"-"`
	SizeMB  float64           `json:"size_mb"`
	Headers map[string]string `json:"headers"`
	Labels  []string          `json:"labels"`
}

// Header looks up a header by its lower-cased name.
func (m *MessageDetails) Header(name string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers[name]
}

// HealthReport is the mail API's liveness answer.
type HealthReport struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	GmailConnected bool   `json:"gmail_connected"`
}

// ActionOutcome is the backend's answer to a single delete or unsubscribe.
type ActionOutcome struct {
	EmailID string  `json:"email_id"`
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
	URL     *string `json:"url,omitempty"`
}

// BulkOutcome aggregates per-email outcomes of a bulk request.
type BulkOutcome struct {
	Success        bool            `json:"success"`
	TotalProcessed int             `json:"total_processed"`
	Successful     int             `json:"-"`
	Results        []ActionOutcome `json:"results"`
}

// ActionableEmail is a newsletter annotated with what can be done about it.
type ActionableEmail struct {
	ID      string  `json:"id"`
	Subject string  `json:"subject"`
	From    string  `json:"from"`
	SizeMB  float64 `json:"size_mb"`
	Action  string  `json:"action"`
}

type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// NewsletterAnalysis recommends cleanup actions for a set of newsletters.
type NewsletterAnalysis struct {
	TotalNewsletters int               `json:"total_newsletters"`
	TotalSizeMB      float64           `json:"total_size_mb"`
	Recommendations  []Recommendation  `json:"recommendations"`
	ActionableEmails []ActionableEmail `json:"actionable_emails"`
}
