package gmail

import (
	"context"

	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/service"
)

// MockClient is a mock implementation of service.MailboxClient for testing
type MockClient struct {
	PingFunc           func(ctx context.Context) error
	GetMessageFunc     func(ctx context.Context, messageID string) (*model.MessageDetails, error)
	TrashMessageFunc   func(ctx context.Context, messageID string) error
	EnsureLabelFunc    func(ctx context.Context, name string) (string, error)
	AddLabelFunc       func(ctx context.Context, messageID, labelID string) error
	ListMessageIDsFunc func(ctx context.Context, query string, maxResults int64) ([]string, error)
}

var _ service.MailboxClient = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockClient) GetMessage(ctx context.Context, messageID string) (*model.MessageDetails, error) {
	if m.GetMessageFunc != nil {
		return m.GetMessageFunc(ctx, messageID)
	}

	// Default mock behavior: an unremarkable message
	return &model.MessageDetails{
		ID:      messageID,
		Subject: "Kein Betreff",
		From:    "Unbekannt",
		Headers: map[string]string{},
		Labels:  []string{},
	}, nil
}

func (m *MockClient) TrashMessage(ctx context.Context, messageID string) error {
	if m.TrashMessageFunc != nil {
		return m.TrashMessageFunc(ctx, messageID)
	}
	return nil
}

func (m *MockClient) EnsureLabel(ctx context.Context, name string) (string, error) {
	if m.EnsureLabelFunc != nil {
		return m.EnsureLabelFunc(ctx, name)
	}
	return "Label_1", nil
}

func (m *MockClient) AddLabel(ctx context.Context, messageID, labelID string) error {
	if m.AddLabelFunc != nil {
		return m.AddLabelFunc(ctx, messageID, labelID)
	}
	return nil
}

func (m *MockClient) ListMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error) {
	if m.ListMessageIDsFunc != nil {
		return m.ListMessageIDsFunc(ctx, query, maxResults)
	}

	// Default mock behavior: an empty mailbox
	return []string{}, nil
}
