package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/dashboard"
	"inbox-dashboard/internal/gateway"
	"inbox-dashboard/internal/ingest"
	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/middleware"
	"inbox-dashboard/internal/sse"
	"inbox-dashboard/internal/web"
)

const uploadWithIDs = `{
	"total_emails": 1247,
	"total_size_mb": 523.7,
	"newsletters": [
		{"id": "n1", "subject": "Weekly <b>Tech</b>", "from": "tech@newsletter.com", "size_mb": 2.3, "unsubscribe_link": "https://example.com/u", "date": "2025-07-20"},
		{"id": "n2", "subject": "Deals", "from": "deals@shop.com", "size_mb": 1.1, "date": "2025-07-19"}
	],
	"large_emails": []
}`

type testEnv struct {
	e         *echo.Echo
	ctrl      *dashboard.Controller
	dashboard *DashboardHandler
	exports   *ExportHandler
	actions   *ActionHandler
}

func newTestEnv(t *testing.T, gw gateway.ActionGateway) *testEnv {
	t.Helper()
	log := logger.NewWithWriter(io.Discard)

	e := echo.New()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer

	sseManager := sse.NewSSEManager(log)
	t.Cleanup(sseManager.Close)

	ctrl := dashboard.NewController(dashboard.Options{
		SessionID: "session-1",
		Gateway:   gw,
		Events:    sseManager,
		Logger:    log,
	})
	now := func() time.Time { return time.Date(2025, 7, 21, 9, 30, 0, 0, time.UTC) }

	return &testEnv{
		e:         e,
		ctrl:      ctrl,
		dashboard: NewDashboardHandler(ingest.NewLoader(1<<20, log), gw, sseManager, "2.0.0", e.Logger),
		exports:   NewExportHandler("2.0.0", now, e.Logger),
		actions:   NewActionHandler(e.Logger),
	}
}

func (env *testEnv) context(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	middleware.WithController(c, "session-1", env.ctrl)
	return c, rec
}

func uploadRequest(t *testing.T, name, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUploadRendersReport(t *testing.T) {
	// Setup
	env := newTestEnv(t, nil)
	c, rec := env.context(uploadRequest(t, "inbox.json", uploadWithIDs))

	// Execute
	err := env.dashboard.Upload(c)

	// Verify
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["loaded"])
	assert.Equal(t, "1.247", body["stats"].(map[string]interface{})["total_emails"])
	assert.Len(t, body["charts"], 4)

	items := body["newsletters"].(map[string]interface{})["items"].([]interface{})
	assert.Equal(t, "Weekly &lt;b&gt;Tech&lt;/b&gt;", items[0].(map[string]interface{})["subject"])
}

func TestUploadRejectsNonJSONFile(t *testing.T) {
	env := newTestEnv(t, nil)
	c, rec := env.context(uploadRequest(t, "inbox.csv", uploadWithIDs))

	require.NoError(t, env.dashboard.Upload(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bitte eine JSON-Datei auswählen!", decodeBody(t, rec)["error"])
}

func TestUploadWithoutFile(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	c, rec := env.context(req)

	require.NoError(t, env.dashboard.Upload(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedUploadKeepsPreviousReport(t *testing.T) {
	// Setup
	env := newTestEnv(t, nil)
	require.NoError(t, env.ctrl.LoadDemo(context.Background()))
	c, rec := env.context(uploadRequest(t, "broken.json", `{"total_emails": 5,`))

	// Execute
	require.NoError(t, env.dashboard.Upload(c))

	// Verify
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(decodeBody(t, rec)["error"].(string), "Fehler beim Laden der JSON-Datei"))

	report, err := env.ctrl.Report()
	require.NoError(t, err)
	assert.Equal(t, 1247, report.TotalEmails)
}

func TestDemoAndReset(t *testing.T) {
	env := newTestEnv(t, nil)

	c, rec := env.context(httptest.NewRequest(http.MethodPost, "/demo", nil))
	require.NoError(t, env.dashboard.Demo(c))
	assert.Equal(t, true, decodeBody(t, rec)["loaded"])

	c, rec = env.context(httptest.NewRequest(http.MethodPost, "/reset", nil))
	require.NoError(t, env.dashboard.Reset(c))
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["loaded"])
	assert.Empty(t, body["charts"])
}

func TestUnloadDestroysDashboard(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.ctrl.LoadDemo(context.Background()))

	c, rec := env.context(httptest.NewRequest(http.MethodPost, "/unload", nil))
	require.NoError(t, env.dashboard.Unload(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err := env.ctrl.Report()
	assert.ErrorIs(t, err, apperrors.ErrNoReport)
}

func TestIndexAndStatusShowAnalysisOnlyMode(t *testing.T) {
	env := newTestEnv(t, nil)

	c, rec := env.context(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, env.dashboard.Index(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nur Analyse-Modus")

	c, rec = env.context(httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.NoError(t, env.dashboard.Status(c))
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["live_actions"])
	assert.Equal(t, dashboard.StatusAnalysisOnly, body["status"])
}

func TestStatusWithLiveGateway(t *testing.T) {
	env := newTestEnv(t, gateway.NewMockGateway())

	c, rec := env.context(httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.NoError(t, env.dashboard.Status(c))

	assert.Equal(t, dashboard.StatusLive, decodeBody(t, rec)["status"])
}

func TestEventsStreamsUntilClientLeaves(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	c, rec := env.context(req)

	done := make(chan error, 1)
	go func() { done <- env.dashboard.Events(c) }()

	// Give the handler time to register before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("events handler did not return")
	}
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"type":"connection"`)
}

func TestDashboardHandlerWithoutGatewayIsAnalysisOnly(t *testing.T) {
	e := echo.New()
	h := NewDashboardHandler(nil, nil, nil, "2.0.0", e.Logger)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/status", nil), rec)
	require.NoError(t, h.Status(c))

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["live_actions"])
	assert.Equal(t, dashboard.StatusAnalysisOnly, body["status"])
}
