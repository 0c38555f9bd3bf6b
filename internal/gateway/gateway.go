package gateway

import (
	"context"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/logger"
)

// ActionGateway is the live-action capability of the dashboard.
type ActionGateway interface {
	Enabled() bool
	DeleteEmail(ctx context.Context, emailID string) (*ActionResult, error)
	UnsubscribeEmail(ctx context.Context, emailID string) (*ActionResult, error)
	BulkDelete(ctx context.Context, emailIDs []string) (*BulkResult, error)
	BulkUnsubscribe(ctx context.Context, emailIDs []string) (*BulkResult, error)
}

// Disabled is the analysis-only mode.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) DeleteEmail(context.Context, string) (*ActionResult, error) {
	return nil, apperrors.ErrActionsDisabled
}

func (Disabled) UnsubscribeEmail(context.Context, string) (*ActionResult, error) {
	return nil, apperrors.ErrActionsDisabled
}

func (Disabled) BulkDelete(context.Context, []string) (*BulkResult, error) {
	return nil, apperrors.ErrActionsDisabled
}

func (Disabled) BulkUnsubscribe(context.Context, []string) (*BulkResult, error) {
	return nil, apperrors.ErrActionsDisabled
}

// Connected forwards every action to the mail API.
type Connected struct {
	*Client
}

func (Connected) Enabled() bool { return true }

// Select runs the health check once and picks the gateway variant.
func Select(ctx context.Context, client *Client, logger *logger.Logger) ActionGateway {
	if client.CheckHealth(ctx) {
		logger.Info("Mail API connected, live actions enabled")
		return Connected{Client: client}
	}
	logger.Warn("Mail API unavailable, running in analysis-only mode")
	return Disabled{}
}
