package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-dashboard/internal/config"
	"inbox-dashboard/internal/gmail"
	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/service"
)

func setupCLI(t *testing.T) {
	t.Helper()
	cfg = &config.Config{
		CORSOrigins:    []string{"http://localhost:8080"},
		CleanupLabel:   "Cleanup",
		GmailConfigDir: t.TempDir(),
	}
	appLogger = logger.NewWithWriter(io.Discard)
}

func TestMailAPIServerRoutes(t *testing.T) {
	// Setup
	setupCLI(t)
	svc := service.NewMailboxService(gmail.NewMockClient(), service.MailboxOptions{}, appLogger)
	e := newMailAPIServer(svc)

	// Execute
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	// Verify
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	var health model.HealthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.GmailConnected)
}

func TestMailAPIServerCORS(t *testing.T) {
	setupCLI(t)
	e := newMailAPIServer(service.NewMailboxService(gmail.NewMockClient(), service.MailboxOptions{}, appLogger))

	req := httptest.NewRequest(http.MethodOptions, "/api/bulk-delete", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWriteReportFile(t *testing.T) {
	report := model.NewEmailReport()
	report.TotalEmails = 12
	report.Newsletters = append(report.Newsletters, model.NewsletterEntry{
		ID: "a", Subject: "News & <more>", From: "x@y.de", SizeMB: 0.5,
	})
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, writeReportFile(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "News & <more>")

	var decoded model.EmailReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 12, decoded.TotalEmails)
	assert.Len(t, decoded.Newsletters, 1)
}

func TestPrintSummary(t *testing.T) {
	report := model.NewEmailReport()
	report.TotalEmails = 3
	report.TotalSizeMB = 1.5

	var buf bytes.Buffer
	printSummary(&buf, report)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "📊 ANALYSIS REPORT:"))
	assert.Contains(t, out, "Emails insgesamt: 3")
	assert.Contains(t, out, "Gesamtgröße: 1.50 MB")
	assert.NotContains(t, out, "Analysiert")
}

func TestAnalyzeWithoutTokenFails(t *testing.T) {
	setupCLI(t)
	analyzeCmd.SetContext(context.Background())

	err := analyzeCmd.RunE(analyzeCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open Gmail")
}
