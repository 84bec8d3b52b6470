package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/storage"
)

// maxBodySize bounds the report request body.
const maxBodySize = 1 << 20

// ReportHandler is the API Gateway style entry point served on /report.
type ReportHandler interface {
	HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

// Server exposes the report handler and report history over HTTP.
type Server struct {
	reports ReportHandler
	history storage.Storage
	mux     *http.ServeMux
	logger  *slog.Logger
}

// NewServer creates an API server. history may be nil, in which case the
// history endpoint is not registered.
func NewServer(reports ReportHandler, history storage.Storage, logger *slog.Logger) *Server {
	s := &Server{
		reports: reports,
		history: history,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /report", s.handleReport)
	if s.history != nil {
		s.mux.HandleFunc("GET /api/v1/reports", s.handleHistory)
	}
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body"})
		return
	}

	resp, err := s.reports.HandleRequest(r.Context(), toProxyRequest(r, body))
	if err != nil {
		s.logger.Error("report failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	io.WriteString(w, resp.Body)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := model.HistoryFilter{
		TagKey:   r.URL.Query().Get("tag_key"),
		TagValue: r.URL.Query().Get("tag_value"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = n
	}

	reports, err := s.history.ListReports(ctx, filter)
	if err != nil {
		s.logger.Error("list reports", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []model.CostReport{}
	}

	writeJSON(w, http.StatusOK, reports)
}

func toProxyRequest(r *http.Request, body []byte) events.APIGatewayProxyRequest {
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}
	return events.APIGatewayProxyRequest{
		Resource:   r.URL.Path,
		Path:       r.URL.Path,
		HTTPMethod: r.Method,
		Headers:    headers,
		Body:       string(body),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
