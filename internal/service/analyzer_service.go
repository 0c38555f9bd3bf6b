package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/model"
)

var (
	senderPatterns = []string{
		"newsletter", "unsubscribe", "list-unsubscribe", "marketing", "promotional",
		"noreply", "no-reply", "digest", "weekly", "daily", "update",
	}
	subjectPatterns = []string{"newsletter", "weekly", "daily", "digest", "update"}
	bodyIndicators  = []string{"unsubscribe", "abmelden", "newsletter abbestellen"}
)

// AnalyzerOptions bounds an inbox scan.
type AnalyzerOptions struct {
	MaxResults   int64
	LargeEmailMB float64
	Pace         time.Duration
	Now          func() time.Time
}

type analyzerService struct {
	client MailboxClient
	opts   AnalyzerOptions
	logger *logger.Logger
}

func NewAnalyzerService(client MailboxClient, opts AnalyzerOptions, logger *logger.Logger) AnalyzerService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 500
	}
	if opts.LargeEmailMB <= 0 {
		opts.LargeEmailMB = 5
	}
	return &analyzerService{client: client, opts: opts, logger: logger}
}

// AnalyzeInbox scans the last daysBack days and builds a report the dashboard can load.
func (s *analyzerService) AnalyzeInbox(ctx context.Context, daysBack int) (*model.EmailReport, error) {
	if daysBack <= 0 {
		return nil, fmt.Errorf("days back must be positive, got %d", daysBack)
	}

	query := fmt.Sprintf("newer_than:%dd", daysBack)
	ids, err := s.client.ListMessageIDs(ctx, query, s.opts.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	s.logger.Infof("Analyzing %d emails matching %q", len(ids), query)

	report := model.NewEmailReport()
	report.TotalEmails = len(ids)
	limiter := newPacer(s.opts.Pace)

	for i, id := range ids {
		if i%50 == 0 {
			s.logger.Debugf("Progress: %d/%d", i, len(ids))
		}
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		details, err := s.client.GetMessage(ctx, id)
		if err != nil {
			s.logger.Warn("Skipping email:", id, err)
			continue
		}
		report.TotalSizeMB += details.SizeMB

		if IsNewsletter(details) {
			report.Newsletters = append(report.Newsletters, model.NewsletterEntry{
				ID:              details.ID,
				From:            details.From,
				Subject:         details.Subject,
				SizeMB:          details.SizeMB,
				Date:            details.Date,
				UnsubscribeLink: FindUnsubscribeLink(details),
			})
		}
		if details.SizeMB > s.opts.LargeEmailMB {
			report.LargeEmails = append(report.LargeEmails, model.EmailEntry{
				ID:      details.ID,
				From:    details.From,
				Subject: details.Subject,
				SizeMB:  details.SizeMB,
				Date:    details.Date,
			})
		}
	}

	report.AnalysisDate = s.opts.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	s.logger.Infof("Analysis done: %d newsletters, %d large emails, %.2f MB",
		len(report.Newsletters), len(report.LargeEmails), report.TotalSizeMB)
	return report, nil
}

// IsNewsletter needs at least two signals among the List-Unsubscribe header,
// the sender, the subject and an unsubscribe hint in the body.
func IsNewsletter(details *model.MessageDetails) bool {
	signals := 0
	if details.Header("list-unsubscribe") != "" {
		signals++
	}
	if containsAny(strings.ToLower(details.From), senderPatterns) {
		signals++
	}
	if containsAny(strings.ToLower(details.Subject), subjectPatterns) {
		signals++
	}

	body := details.Body
	if body == "" && details.HTML != "" {
		body = PlainText(details.HTML)
	}
	if containsAny(strings.ToLower(body), bodyIndicators) {
		signals++
	}
	return signals >= 2
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
