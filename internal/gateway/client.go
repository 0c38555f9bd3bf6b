package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/logger"
)

// Client talks to the mail API. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type HealthStatus struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	GmailConnected bool   `json:"gmail_connected"`
}

// ActionResult is the answer to a single delete or unsubscribe.
type ActionResult struct {
	Success bool    `json:"success"`
	EmailID string  `json:"email_id,omitempty"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
	URL     *string `json:"url,omitempty"`
}

// BulkResult is the aggregate of a bulk request.
type BulkResult struct {
	Successful     int
	TotalProcessed int
}

// Partial reports a bulk action that completed with some failures.
func (r *BulkResult) Partial() bool {
	return r.Successful < r.TotalProcessed
}

type bulkRequest struct {
	EmailIDs []string `json:"email_ids"`
}

type bulkResponse struct {
	Success                *bool  `json:"success"`
	TotalProcessed         int    `json:"total_processed"`
	SuccessfulDeletions    int    `json:"successful_deletions"`
	SuccessfulUnsubscribes int    `json:"successful_unsubscribes"`
	Error                  string `json:"error"`
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CheckHealth treats any failure as disconnected.
func (c *Client) CheckHealth(ctx context.Context) bool {
	status, err := c.Health(ctx)
	if err != nil {
		c.logger.Warnf("Mail API health check failed: %v", err)
		return false
	}
	return status.GmailConnected
}

func (c *Client) DeleteEmail(ctx context.Context, emailID string) (*ActionResult, error) {
	result, err := c.single(ctx, "/email/"+url.PathEscape(emailID)+"/delete")
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return result, backendFailure("Fehler beim Löschen", result.Message, result.Error)
	}
	return result, nil
}

func (c *Client) UnsubscribeEmail(ctx context.Context, emailID string) (*ActionResult, error) {
	result, err := c.single(ctx, "/email/"+url.PathEscape(emailID)+"/unsubscribe")
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return result, backendFailure("Abmeldung fehlgeschlagen", result.Error, result.Message)
	}
	return result, nil
}

// backendFailure uses the first non-empty backend text and falls back to
// fallback when the API sent none.
func backendFailure(fallback string, texts ...string) error {
	for _, text := range texts {
		if text != "" {
			return apperrors.NewBackend(text)
		}
	}
	return apperrors.NewBackend(fallback)
}

func (c *Client) BulkDelete(ctx context.Context, emailIDs []string) (*BulkResult, error) {
	resp, err := c.bulk(ctx, "/bulk-delete", emailIDs)
	if err != nil {
		return nil, err
	}
	return &BulkResult{Successful: resp.SuccessfulDeletions, TotalProcessed: resp.TotalProcessed}, nil
}

func (c *Client) BulkUnsubscribe(ctx context.Context, emailIDs []string) (*BulkResult, error) {
	resp, err := c.bulk(ctx, "/bulk-unsubscribe", emailIDs)
	if err != nil {
		return nil, err
	}
	return &BulkResult{Successful: resp.SuccessfulUnsubscribes, TotalProcessed: resp.TotalProcessed}, nil
}

func (c *Client) single(ctx context.Context, path string) (*ActionResult, error) {
	var result ActionResult
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) bulk(ctx context.Context, path string, emailIDs []string) (*bulkResponse, error) {
	var resp bulkResponse
	if err := c.do(ctx, http.MethodPost, path, bulkRequest{EmailIDs: emailIDs}, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, apperrors.NewBackend(resp.Error)
	}
	return &resp, nil
}

// do sends one JSON request. Transport failures and non-2xx answers are
// network errors.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debugf("Mail API %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewNetwork("Mail-API nicht erreichbar", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewNetwork(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewNetwork("Ungültige Antwort der Mail-API", err)
	}
	return nil
}
