package service

import (
	"context"
	"errors"

	"inbox-dashboard/internal/model"
)

var ErrMessageNotFound = errors.New("message not found")

// MailboxClient interface for interacting with the mailbox provider
type MailboxClient interface {
	Ping(ctx context.Context) error
	GetMessage(ctx context.Context, messageID string) (*model.MessageDetails, error)
	TrashMessage(ctx context.Context, messageID string) error
	EnsureLabel(ctx context.Context, name string) (string, error)
	AddLabel(ctx context.Context, messageID, labelID string) error
	ListMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error)
}

type MailboxService interface {
	Health(ctx context.Context) *model.HealthReport
	DeleteEmail(ctx context.Context, emailID string) model.ActionOutcome
	UnsubscribeEmail(ctx context.Context, emailID string) model.ActionOutcome
	BulkDelete(ctx context.Context, emailIDs []string) (*model.BulkOutcome, error)
	BulkUnsubscribe(ctx context.Context, emailIDs []string) (*model.BulkOutcome, error)
	GetDetails(ctx context.Context, emailID string) (*model.MessageDetails, error)
	AnalyzeNewsletters(newsletters []model.NewsletterEntry) *model.NewsletterAnalysis
}

type AnalyzerService interface {
	AnalyzeInbox(ctx context.Context, daysBack int) (*model.EmailReport, error)
}
