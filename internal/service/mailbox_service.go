package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/model"

	"golang.org/x/time/rate"
)

// MailboxOptions tunes pacing and the unsubscribe request.
type MailboxOptions struct {
	CleanupLabel        string
	DeleteInterval      time.Duration
	UnsubscribeInterval time.Duration
	UnsubscribeTimeout  time.Duration
	Now                 func() time.Time
}

type mailboxService struct {
	client     MailboxClient
	opts       MailboxOptions
	httpClient *http.Client
	logger     *logger.Logger
}

func NewMailboxService(client MailboxClient, opts MailboxOptions, logger *logger.Logger) MailboxService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UnsubscribeTimeout <= 0 {
		opts.UnsubscribeTimeout = 10 * time.Second
	}
	return &mailboxService{
		client: client,
		opts:   opts,
		httpClient: &http.Client{
			Timeout: opts.UnsubscribeTimeout,
		},
		logger: logger,
	}
}

func (s *mailboxService) Health(ctx context.Context) *model.HealthReport {
	connected := s.client.Ping(ctx) == nil
	return &model.HealthReport{
		Status:         "healthy",
		Timestamp:      s.opts.Now().Format("2006-01-02T15:04:05.000000"),
		GmailConnected: connected,
	}
}

func (s *mailboxService) DeleteEmail(ctx context.Context, emailID string) model.ActionOutcome {
	if err := s.client.TrashMessage(ctx, emailID); err != nil {
		s.logger.Error("Failed to delete email:", emailID, err)
		return model.ActionOutcome{EmailID: emailID, Success: false, Message: "Fehler beim Löschen"}
	}
	s.logger.Info("Deleted email:", emailID)
	return model.ActionOutcome{EmailID: emailID, Success: true, Message: "Email gelöscht"}
}

func (s *mailboxService) UnsubscribeEmail(ctx context.Context, emailID string) model.ActionOutcome {
	details, err := s.client.GetMessage(ctx, emailID)
	if err != nil {
		s.logger.Error("Failed to load email for unsubscribe:", emailID, err)
		if errors.Is(err, ErrMessageNotFound) {
			return model.ActionOutcome{EmailID: emailID, Success: false, Error: "Email nicht gefunden"}
		}
		return model.ActionOutcome{EmailID: emailID, Success: false, Error: err.Error()}
	}

	link := HeaderUnsubscribeURL(details.Header("list-unsubscribe"))
	if link == "" {
		if err := s.client.TrashMessage(ctx, emailID); err != nil {
			s.logger.Error("Failed to delete email without unsubscribe link:", emailID, err)
			return model.ActionOutcome{EmailID: emailID, Success: false, Message: "Fehler beim Löschen"}
		}
		return model.ActionOutcome{EmailID: emailID, Success: true, Message: "Kein Unsubscribe-Link gefunden, Email gelöscht"}
	}

	status, err := s.followUnsubscribeLink(ctx, link)
	if err != nil {
		s.logger.Warn("Unsubscribe request failed:", link, err)
		return model.ActionOutcome{EmailID: emailID, Success: false, Error: fmt.Sprintf("HTTP-Fehler: %v", err), URL: &link}
	}
	if status != http.StatusOK {
		return model.ActionOutcome{
			EmailID: emailID,
			Success: false,
			Error:   fmt.Sprintf("Unsubscribe fehlgeschlagen (Status %d)", status),
			URL:     &link,
		}
	}

	if err := s.client.TrashMessage(ctx, emailID); err != nil {
		s.logger.Warn("Unsubscribed but failed to delete email:", emailID, err)
	}
	s.logger.Info("Unsubscribed using URL:", link)
	return model.ActionOutcome{EmailID: emailID, Success: true, Message: "Erfolgreich abgemeldet", URL: &link}
}

func (s *mailboxService) followUnsubscribeLink(ctx context.Context, link string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; inbox-dashboard)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (s *mailboxService) BulkDelete(ctx context.Context, emailIDs []string) (*model.BulkOutcome, error) {
	limiter := newPacer(s.opts.DeleteInterval)
	outcome := &model.BulkOutcome{Success: true, TotalProcessed: len(emailIDs), Results: []model.ActionOutcome{}}

	for _, emailID := range emailIDs {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		result := s.DeleteEmail(ctx, emailID)
		outcome.Results = append(outcome.Results, model.ActionOutcome{EmailID: emailID, Success: result.Success})
		if result.Success {
			outcome.Successful++
		}
	}

	s.logger.Infof("Bulk delete finished: %d/%d", outcome.Successful, outcome.TotalProcessed)
	return outcome, nil
}

func (s *mailboxService) BulkUnsubscribe(ctx context.Context, emailIDs []string) (*model.BulkOutcome, error) {
	labelID := ""
	if s.opts.CleanupLabel != "" {
		id, err := s.client.EnsureLabel(ctx, s.opts.CleanupLabel)
		if err != nil {
			s.logger.Warn("Cleanup label unavailable:", err)
		} else {
			labelID = id
		}
	}

	limiter := newPacer(s.opts.UnsubscribeInterval)
	outcome := &model.BulkOutcome{Success: true, TotalProcessed: len(emailIDs), Results: []model.ActionOutcome{}}

	for _, emailID := range emailIDs {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		result := s.UnsubscribeEmail(ctx, emailID)
		if result.Success && labelID != "" {
			if err := s.client.AddLabel(ctx, emailID, labelID); err != nil {
				s.logger.Warn("Failed to label email:", emailID, err)
			}
		}
		outcome.Results = append(outcome.Results, result)
		if result.Success {
			outcome.Successful++
		}
	}

	s.logger.Infof("Bulk unsubscribe finished: %d/%d", outcome.Successful, outcome.TotalProcessed)
	return outcome, nil
}

func (s *mailboxService) GetDetails(ctx context.Context, emailID string) (*model.MessageDetails, error) {
	details, err := s.client.GetMessage(ctx, emailID)
	if err != nil {
		return nil, fmt.Errorf("failed to get email details: %w", err)
	}
	return details, nil
}

func (s *mailboxService) AnalyzeNewsletters(newsletters []model.NewsletterEntry) *model.NewsletterAnalysis {
	analysis := &model.NewsletterAnalysis{
		TotalNewsletters: len(newsletters),
		Recommendations:  []model.Recommendation{},
		ActionableEmails: []model.ActionableEmail{},
	}

	for _, n := range newsletters {
		analysis.TotalSizeMB += n.SizeMB
		action := "delete_only"
		if n.HasUnsubscribeLink() {
			action = "unsubscribe_available"
		}
		analysis.ActionableEmails = append(analysis.ActionableEmails, model.ActionableEmail{
			ID:      n.ID,
			Subject: n.Subject,
			From:    n.From,
			SizeMB:  n.SizeMB,
			Action:  action,
		})
	}

	if len(newsletters) > 10 {
		analysis.Recommendations = append(analysis.Recommendations, model.Recommendation{
			Type:     "bulk_cleanup",
			Priority: "high",
			Message:  fmt.Sprintf("%d Newsletter gefunden - Bulk-Cleanup empfohlen", len(newsletters)),
		})
	}
	return analysis
}

// newPacer spaces out provider calls; a zero interval disables pacing.
func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
