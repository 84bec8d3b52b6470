package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/billing"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/notify"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/storage"
)

// ErrInvalidBody is returned by Resolve when the request body cannot be decoded.
var ErrInvalidBody = errors.New("invalid JSON body")

// Request is the optional JSON body of an invocation.
// A field that is present overrides the configured default, even when empty.
type Request struct {
	TagKey   *string `json:"tag_key"`
	TagValue *string `json:"tag_value"`
}

// Response is the JSON body returned on success.
type Response struct {
	Message  string `json:"message"`
	TagKey   string `json:"tag_key"`
	TagValue string `json:"tag_value"`
}

// Handler builds cost reports for a tag and delivers them to a notifier.
type Handler struct {
	defaults   model.TagFilter
	windowDays int
	costs      billing.CostQuerier
	notifier   notify.Notifier
	history    storage.Storage
	now        func() time.Time
	logger     *slog.Logger
}

// Option customizes a Handler.
type Option func(*Handler)

// WithHistory records every delivered report in the given store.
func WithHistory(store storage.Storage) Option {
	return func(h *Handler) { h.history = store }
}

// WithClock overrides the time source used to compute the report window.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithWindowDays sets the length of the trailing report window.
func WithWindowDays(days int) Option {
	return func(h *Handler) {
		if days > 0 {
			h.windowDays = days
		}
	}
}

// NewHandler creates a report handler. defaults is used when an invocation
// does not override the tag.
func NewHandler(defaults model.TagFilter, costs billing.CostQuerier, notifier notify.Notifier, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		defaults:   defaults,
		windowDays: model.DefaultWindowDays,
		costs:      costs,
		notifier:   notifier,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Resolve applies the overrides in body to the configured default tag.
// An empty body and a JSON null both mean "no overrides".
func (h *Handler) Resolve(body string) (model.TagFilter, error) {
	tag := h.defaults
	if body == "" {
		return tag, nil
	}

	var req Request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return model.TagFilter{}, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if req.TagKey != nil {
		tag.Key = *req.TagKey
	}
	if req.TagValue != nil {
		tag.Value = *req.TagValue
	}
	return tag, nil
}

// Build queries the total cost for tag over the trailing window and renders
// the report message without delivering it.
func (h *Handler) Build(ctx context.Context, tag model.TagFilter) (*model.CostReport, error) {
	period := model.TrailingWindow(h.now(), h.windowDays)

	h.logger.Debug("querying cost",
		"tag", tag.String(),
		"start", period.StartDate(),
		"end", period.EndDate(),
	)

	total, err := h.costs.TotalCost(ctx, tag, period)
	if err != nil {
		return nil, fmt.Errorf("query cost for %s: %w", tag, err)
	}

	return &model.CostReport{
		Tag:       tag,
		Range:     period,
		TotalCost: total,
		Currency:  "USD",
		Message:   FormatMessage(tag, period, total),
	}, nil
}

// Send builds the report for tag and delivers it to the notifier.
func (h *Handler) Send(ctx context.Context, tag model.TagFilter) (*model.CostReport, error) {
	report, err := h.Build(ctx, tag)
	if err != nil {
		return nil, err
	}

	if err := h.notifier.Send(ctx, report.Message); err != nil {
		return nil, fmt.Errorf("send report via %s: %w", h.notifier.Name(), err)
	}
	report.Notifier = h.notifier.Name()
	report.SentAt = h.now().UTC()

	h.logger.Info("cost report sent",
		"tag", tag.String(),
		"total_cost", report.TotalCost,
		"notifier", report.Notifier,
	)

	if h.history != nil {
		if err := h.history.RecordReport(ctx, report); err != nil {
			h.logger.Warn("record report history", "error", err)
		}
	}

	return report, nil
}

// HandleRequest is the API Gateway entry point. Only an undecodable body is
// answered with a structured error; billing and delivery failures are returned
// as errors for the runtime to report.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tag, err := h.Resolve(req.Body)
	if err != nil {
		h.logger.Warn("rejecting request", "error", err)
		return jsonResponse(http.StatusBadRequest, map[string]string{"error": InvalidBodyMessage})
	}

	if _, err := h.Send(ctx, tag); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return jsonResponse(http.StatusOK, Response{
		Message:  SuccessMessage,
		TagKey:   tag.Key,
		TagValue: tag.Value,
	})
}

func jsonResponse(status int, body any) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("encode response: %w", err)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}
