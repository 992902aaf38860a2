// Package httpapi exposes record checks over HTTP.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"herdcheck/internal/core"
	"herdcheck/pkg/domain"
)

const tracerName = "herdcheck/internal/httpapi"

// Handler wires record endpoints to the lookup service.
type Handler struct {
	service *core.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewHandler constructs a handler. A nil logger discards output.
func NewHandler(service *core.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		service: service,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Register mounts record endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/records", h.HandleList)
	r.Get("/v1/records/{id}/check", h.HandleCheck)
}

// NewRouter builds the full route table. /metrics is served from gatherer
// when it is non-nil.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	h.Register(r)
	return r
}

type listResponse struct {
	Records []domain.RecordView `json:"records"`
	Count   int                 `json:"count"`
}

// HandleList handles GET /v1/records.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	records := h.service.Registry().Records()
	writeJSON(w, http.StatusOK, listResponse{Records: records, Count: len(records)})
}

// HandleCheck handles GET /v1/records/{id}/check. The body is always a
// core.Result; the status reflects whether the id was usable.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "records.check", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	start := time.Now()

	id := chi.URLParam(r, "id")
	res := h.service.Lookup(id)
	span.SetAttributes(
		attribute.String("herdcheck.record_id", id),
		attribute.String("herdcheck.outcome", string(res.Outcome)),
	)
	if res.Transition != nil {
		span.SetAttributes(attribute.String("herdcheck.transition", string(res.Transition.Kind)))
	}

	h.logger.InfoContext(ctx, "record checked",
		"request_id", middleware.GetReqID(ctx),
		"id", id,
		"outcome", res.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, statusFor(res.Outcome), res)
}

func statusFor(o core.Outcome) int {
	switch o {
	case core.OutcomeInvalidID:
		return http.StatusBadRequest
	case core.OutcomeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
