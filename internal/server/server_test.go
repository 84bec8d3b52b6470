package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/report"
	"github.com/ogulcanaydogan/aws-cost-reporter/internal/server"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCosts struct{ err error }

func (s stubCosts) TotalCost(context.Context, model.TagFilter, model.DateRange) (float64, error) {
	return 99.999, s.err
}

type stubNotifier struct{ sent []string }

func (s *stubNotifier) Name() string { return "stub" }

func (s *stubNotifier) Send(_ context.Context, text string) error {
	s.sent = append(s.sent, text)
	return nil
}

type recordingHandler struct{ got events.APIGatewayProxyRequest }

func (h *recordingHandler) HandleRequest(_ context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.got = req
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "{}"}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) *storage.SQLite {
	t.Helper()
	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func setupServer(t *testing.T, costs stubCosts, store storage.Storage) (*server.Server, *stubNotifier) {
	t.Helper()
	n := &stubNotifier{}
	opts := []report.Option{report.WithClock(func() time.Time {
		return time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	})}
	if store != nil {
		opts = append(opts, report.WithHistory(store))
	}
	h := report.NewHandler(model.TagFilter{Key: "env", Value: "dev"}, costs, n, testLogger(), opts...)
	return server.NewServer(h, store, testLogger()), n
}

func TestServer_Health(t *testing.T) {
	srv, _ := setupServer(t, stubCosts{}, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestServer_Report(t *testing.T) {
	srv, n := setupServer(t, stubCosts{}, nil)

	req := httptest.NewRequest("POST", "/report", strings.NewReader(`{"tag_value":"prod"}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Cost report sent to Slack!","tag_key":"env","tag_value":"prod"}`, w.Body.String())
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "$100.00")
}

func TestServer_Report_NoBody(t *testing.T) {
	srv, _ := setupServer(t, stubCosts{}, nil)

	req := httptest.NewRequest("POST", "/report", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tag_value":"dev"`)
}

func TestServer_Report_InvalidBody(t *testing.T) {
	srv, n := setupServer(t, stubCosts{}, nil)

	req := httptest.NewRequest("POST", "/report", strings.NewReader("{invalid"))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, w.Body.String())
	assert.Empty(t, n.sent)
}

func TestServer_Report_HandlerError(t *testing.T) {
	srv, _ := setupServer(t, stubCosts{err: errors.New("ThrottlingException")}, nil)

	req := httptest.NewRequest("POST", "/report", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp["error"], "ThrottlingException")
}

func TestServer_Report_MethodNotAllowed(t *testing.T) {
	srv, _ := setupServer(t, stubCosts{}, nil)

	req := httptest.NewRequest("GET", "/report", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_Report_ProxyRequest(t *testing.T) {
	h := &recordingHandler{}
	srv := server.NewServer(h, nil, testLogger())

	req := httptest.NewRequest("POST", "/report", strings.NewReader(`{"tag_key":"team"}`))
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "POST", h.got.HTTPMethod)
	assert.Equal(t, "/report", h.got.Path)
	assert.Equal(t, `{"tag_key":"team"}`, h.got.Body)
	assert.Equal(t, "abc", h.got.Headers["X-Request-Id"])
}

func TestServer_History(t *testing.T) {
	store := newStore(t)
	srv, _ := setupServer(t, stubCosts{}, store)

	for _, body := range []string{`{"tag_value":"prod"}`, `{"tag_value":"staging"}`} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("POST", "/report", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/reports?tag_value=prod", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var reports []model.CostReport
	require.NoError(t, json.NewDecoder(w.Body).Decode(&reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "prod", reports[0].Tag.Value)
	assert.Equal(t, "stub", reports[0].Notifier)
}

func TestServer_History_InvalidLimit(t *testing.T) {
	srv, _ := setupServer(t, stubCosts{}, newStore(t))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/reports?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_History_Disabled(t *testing.T) {
	srv, _ := setupServer(t, stubCosts{}, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/reports", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
