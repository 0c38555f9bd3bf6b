package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"

	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/service"
)

const user = "me"

type gmailClient struct {
	client *gmail.Service
	logger *logger.Logger
}

func NewGmailClient(svc *gmail.Service, logger *logger.Logger) service.MailboxClient {
	return &gmailClient{
		client: svc,
		logger: logger,
	}
}

func (g *gmailClient) Ping(ctx context.Context) error {
	if g.client == nil {
		return errors.New("gmail service not initialized")
	}
	_, err := g.client.Users.GetProfile(user).Context(ctx).Do()
	return err
}

func (g *gmailClient) GetMessage(ctx context.Context, messageID string) (*model.MessageDetails, error) {
	message, err := g.client.Users.Messages.Get(user, messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, wrapNotFound(err, "failed to get message "+messageID)
	}

	headers := make(map[string]string)
	if message.Payload != nil {
		for _, header := range message.Payload.Headers {
			headers[strings.ToLower(header.Name)] = header.Value
		}
	}

	details := &model.MessageDetails{
		ID:      messageID,
		Subject: headerOr(headers, "subject", "Kein Betreff"),
		From:    headerOr(headers, "from", "Unbekannt"),
		To:      headers["to"],
		Date:    headers["date"],
		SizeMB:  float64(message.SizeEstimate) / (1024 * 1024),
		Headers: headers,
		Labels:  message.LabelIds,
	}
	if details.Labels == nil {
		details.Labels = []string{}
	}
	if message.Payload != nil {
		details.Body, details.HTML = g.extractBody(message.Payload)
	}
	return details, nil
}

func headerOr(headers map[string]string, name, fallback string) string {
	if v, ok := headers[name]; ok && v != "" {
		return v
	}
	return fallback
}

// extractBody returns the first text/plain and text/html parts found.
func (g *gmailClient) extractBody(payload *gmail.MessagePart) (text, html string) {
	if len(payload.Parts) == 0 {
		decoded := g.decode(payload)
		if payload.MimeType == "text/html" {
			return "", decoded
		}
		return decoded, ""
	}

	for _, part := range payload.Parts {
		switch {
		case part.MimeType == "text/plain" && text == "":
			text = g.decode(part)
		case part.MimeType == "text/html" && html == "":
			html = g.decode(part)
		case len(part.Parts) > 0:
			nestedText, nestedHTML := g.extractBody(part)
			if text == "" {
				text = nestedText
			}
			if html == "" {
				html = nestedHTML
			}
		}
	}
	return text, html
}

func (g *gmailClient) decode(part *gmail.MessagePart) string {
	if part.Body == nil || part.Body.Data == "" {
		return ""
	}
	decoded, err := base64.URLEncoding.DecodeString(part.Body.Data)
	if err != nil {
		// Gmail sometimes omits padding.
		decoded, err = base64.RawURLEncoding.DecodeString(part.Body.Data)
	}
	if err != nil {
		g.logger.Error("Failed to decode email body:", err)
		return ""
	}
	return string(decoded)
}

func (g *gmailClient) TrashMessage(ctx context.Context, messageID string) error {
	if _, err := g.client.Users.Messages.Trash(user, messageID).Context(ctx).Do(); err != nil {
		return wrapNotFound(err, "failed to trash message "+messageID)
	}
	g.logger.Info("Trashed email:", messageID)
	return nil
}

// EnsureLabel returns the id of the named label, creating it when missing.
func (g *gmailClient) EnsureLabel(ctx context.Context, name string) (string, error) {
	labels, err := g.client.Users.Labels.List(user).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}
	for _, label := range labels.Labels {
		if label.Name == name {
			return label.Id, nil
		}
	}

	label, err := g.client.Users.Labels.Create(user, &gmail.Label{
		Name:                  name,
		MessageListVisibility: "show",
		LabelListVisibility:   "labelShow",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create label %q: %w", name, err)
	}
	g.logger.Info("Created label:", name)
	return label.Id, nil
}

func (g *gmailClient) AddLabel(ctx context.Context, messageID, labelID string) error {
	modifyRequest := &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}
	if _, err := g.client.Users.Messages.Modify(user, messageID, modifyRequest).Context(ctx).Do(); err != nil {
		return wrapNotFound(err, "failed to label message "+messageID)
	}
	return nil
}

// ListMessageIDs pages through the query until maxResults ids are collected.
func (g *gmailClient) ListMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		call := g.client.Users.Messages.List(user).Q(query).MaxResults(min(maxResults-int64(len(ids)), 500)).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		for _, msg := range list.Messages {
			ids = append(ids, msg.Id)
		}
		if list.NextPageToken == "" || int64(len(ids)) >= maxResults {
			break
		}
		pageToken = list.NextPageToken
	}

	g.logger.Info("Found", len(ids), "emails for query", query)
	return ids, nil
}

func wrapNotFound(err error, msg string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%s: %w", msg, service.ErrMessageNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
