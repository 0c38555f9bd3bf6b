package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/gateway"
)

func loadUpload(t *testing.T, env *testEnv) {
	t.Helper()
	c, rec := env.context(uploadRequest(t, "inbox.json", uploadWithIDs))
	require.NoError(t, env.dashboard.Upload(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestExportWithoutReport(t *testing.T) {
	env := newTestEnv(t, nil)

	c, rec := env.context(httptest.NewRequest(http.MethodGet, "/export/report", nil))
	require.NoError(t, env.exports.Report(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no data loaded", decodeBody(t, rec)["error"])

	c, rec = env.context(httptest.NewRequest(http.MethodGet, "/export/csv", nil))
	require.NoError(t, env.exports.CSV(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportReportDownload(t *testing.T) {
	// Setup
	env := newTestEnv(t, nil)
	loadUpload(t, env)
	c, rec := env.context(httptest.NewRequest(http.MethodGet, "/export/report", nil))

	// Execute
	require.NoError(t, env.exports.Report(c))

	// Verify
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="email_cleaner_report_2025-07-21.json"`, rec.Header().Get("Content-Disposition"))
	body := decodeBody(t, rec)
	assert.Contains(t, body, "summary")
	assert.Contains(t, body, "metadata")
}

func TestExportCSVDownload(t *testing.T) {
	env := newTestEnv(t, nil)
	loadUpload(t, env)
	c, rec := env.context(httptest.NewRequest(http.MethodGet, "/export/csv", nil))

	require.NoError(t, env.exports.CSV(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="newsletter_export_2025-07-21.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Betreff,Absender,Größe (MB),Unsubscribe Link,Datum", lines[0])
}

func TestActionsDisabledWithoutGateway(t *testing.T) {
	env := newTestEnv(t, nil)
	loadUpload(t, env)

	c, rec := env.context(httptest.NewRequest(http.MethodPost, "/actions/bulk-delete", nil))
	require.NoError(t, env.actions.BulkDelete(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteEmailThroughGateway(t *testing.T) {
	// Setup
	mock := gateway.NewMockGateway()
	var deleted string
	mock.DeleteEmailFunc = func(ctx context.Context, emailID string) (*gateway.ActionResult, error) {
		deleted = emailID
		return &gateway.ActionResult{Success: true, EmailID: emailID}, nil
	}
	env := newTestEnv(t, mock)
	loadUpload(t, env)

	c, rec := env.context(httptest.NewRequest(http.MethodPost, "/actions/email/n1/delete", nil))
	c.SetParamNames("id")
	c.SetParamValues("n1")

	// Execute
	require.NoError(t, env.actions.DeleteEmail(c))

	// Verify
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "n1", deleted)
	assert.Equal(t, "Email erfolgreich gelöscht!", decodeBody(t, rec)["message"])
}

func TestBulkUnsubscribeReportsCounts(t *testing.T) {
	mock := gateway.NewMockGateway()
	var sent []string
	mock.BulkUnsubscribeFunc = func(ctx context.Context, emailIDs []string) (*gateway.BulkResult, error) {
		sent = emailIDs
		return &gateway.BulkResult{Successful: len(emailIDs), TotalProcessed: len(emailIDs)}, nil
	}
	env := newTestEnv(t, mock)
	loadUpload(t, env)

	c, rec := env.context(httptest.NewRequest(http.MethodPost, "/actions/bulk-unsubscribe", nil))
	require.NoError(t, env.actions.BulkUnsubscribe(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	// Only n1 carries an unsubscribe link.
	assert.Equal(t, []string{"n1"}, sent)
	assert.Equal(t, "Abmeldung abgeschlossen! Erfolgreich: 1/1", decodeBody(t, rec)["message"])
}

func TestBulkDeleteBackendError(t *testing.T) {
	mock := gateway.NewMockGateway()
	mock.BulkDeleteFunc = func(ctx context.Context, emailIDs []string) (*gateway.BulkResult, error) {
		return nil, apperrors.NewBackend("Gmail quota exceeded")
	}
	env := newTestEnv(t, mock)
	loadUpload(t, env)

	c, rec := env.context(httptest.NewRequest(http.MethodPost, "/actions/bulk-delete", nil))
	require.NoError(t, env.actions.BulkDelete(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Gmail quota exceeded", body["error"])
	assert.NotNil(t, body["action"])
}

func TestBulkDeleteOnDemoHasNoIDs(t *testing.T) {
	env := newTestEnv(t, gateway.NewMockGateway())
	require.NoError(t, env.ctrl.LoadDemo(context.Background()))

	c, rec := env.context(httptest.NewRequest(http.MethodPost, "/actions/bulk-delete", nil))
	require.NoError(t, env.actions.BulkDelete(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "Keine Email-IDs gefunden")
}

func TestNetworkFailureMapsToBadGateway(t *testing.T) {
	mock := gateway.NewMockGateway()
	mock.UnsubscribeEmailFunc = func(ctx context.Context, emailID string) (*gateway.ActionResult, error) {
		return nil, apperrors.NewNetwork("Mail API nicht erreichbar", errors.New("connection refused"))
	}
	env := newTestEnv(t, mock)
	loadUpload(t, env)

	c, rec := env.context(httptest.NewRequest(http.MethodPost, "/actions/email/n1/unsubscribe", nil))
	c.SetParamNames("id")
	c.SetParamValues("n1")
	require.NoError(t, env.actions.UnsubscribeEmail(c))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, strings.HasPrefix(decodeBody(t, rec)["error"].(string), "Fehler: "))
}
