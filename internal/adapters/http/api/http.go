// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/marquee/internal/adapters/chart"
	service "github.com/okian/marquee/internal/app"
	"github.com/okian/marquee/internal/domain/dashboard"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
)

// DatasetMissingMessage is shown on every dashboard route when the dataset
// could not be loaded.
const DatasetMissingMessage = "Dataset not found. Place `BollywoodActorRanking.csv` in `projects/bollywood-dashboard/`"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit applies an input event and returns the re-rendered view.
	Submit(ctx context.Context, e model.Event) (dashboard.ViewModel, error)

	// View returns the current view of a session without changing it.
	View(ctx context.Context, sessionID string) (dashboard.ViewModel, error)
}

// ChartRenderer draws the scatter plot.
type ChartRenderer interface {
	Render(ctx context.Context, w io.Writer, p chart.Plot, f chart.Format) error
}

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	eventsHandler    *EventsHandler
	chartHandler     *ChartHandler
	exportHandler    *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, renderer ChartRenderer) *Server {
	log := logger.Get().Named("api")
	return &Server{
		healthHandler:    NewHealthHandler(availabilityOf(statsProvider)),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps, log),
		eventsHandler:    NewEventsHandler(deps),
		chartHandler:     NewChartHandler(deps, renderer, log),
		exportHandler:    NewExportHandler(deps, log),
	}
}

// availabilityOf returns p as an Availability when it reports one.
func availabilityOf(p StatsProvider) Availability {
	if a, ok := p.(Availability); ok {
		return a
	}
	return nil
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/view", MetricsMiddleware(s.eventsHandler.HandleGetView, "api_view"))
	mux.HandleFunc("/api/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "api_events"))
	mux.HandleFunc("/events", MetricsMiddleware(s.dashboardHandler.HandlePostForm, "events"))
	mux.HandleFunc("/chart/", MetricsMiddleware(s.chartHandler.HandleScatter, "chart"))
	mux.HandleFunc("/export/", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
	mux.HandleFunc("/", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps service errors to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, "dataset_not_found"
	case errors.Is(err, service.ErrInvalidEvent), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusServiceUnavailable, "backpressure"
	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_started"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeServiceError answers a JSON route with the classified error.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if code == "dataset_not_found" {
		writeError(w, status, code, errors.New(DatasetMissingMessage))
		return
	}
	writeError(w, status, code, err)
}

// writeUnavailablePage answers an HTML route when the dataset is missing.
func writeUnavailablePage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = unavailableTmpl.Execute(w, struct{ Title, Message string }{dashboard.Title, DatasetMissingMessage})
}
