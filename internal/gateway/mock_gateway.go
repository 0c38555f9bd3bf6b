package gateway

import (
	"context"
)

// MockGateway is a connected gateway whose answers are set per test.
type MockGateway struct {
	DeleteEmailFunc      func(ctx context.Context, emailID string) (*ActionResult, error)
	UnsubscribeEmailFunc func(ctx context.Context, emailID string) (*ActionResult, error)
	BulkDeleteFunc       func(ctx context.Context, emailIDs []string) (*BulkResult, error)
	BulkUnsubscribeFunc  func(ctx context.Context, emailIDs []string) (*BulkResult, error)
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Enabled() bool { return true }

func (m *MockGateway) DeleteEmail(ctx context.Context, emailID string) (*ActionResult, error) {
	if m.DeleteEmailFunc != nil {
		return m.DeleteEmailFunc(ctx, emailID)
	}
	return &ActionResult{Success: true, EmailID: emailID, Message: "Email gelöscht"}, nil
}

func (m *MockGateway) UnsubscribeEmail(ctx context.Context, emailID string) (*ActionResult, error) {
	if m.UnsubscribeEmailFunc != nil {
		return m.UnsubscribeEmailFunc(ctx, emailID)
	}
	return &ActionResult{Success: true, EmailID: emailID, Message: "Erfolgreich abgemeldet"}, nil
}

func (m *MockGateway) BulkDelete(ctx context.Context, emailIDs []string) (*BulkResult, error) {
	if m.BulkDeleteFunc != nil {
		return m.BulkDeleteFunc(ctx, emailIDs)
	}
	return &BulkResult{Successful: len(emailIDs), TotalProcessed: len(emailIDs)}, nil
}

func (m *MockGateway) BulkUnsubscribe(ctx context.Context, emailIDs []string) (*BulkResult, error) {
	if m.BulkUnsubscribeFunc != nil {
		return m.BulkUnsubscribeFunc(ctx, emailIDs)
	}
	return &BulkResult{Successful: len(emailIDs), TotalProcessed: len(emailIDs)}, nil
}
