package api

import (
	"net/http"
	"strings"

	"github.com/okian/marquee/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Availability reports whether the dashboard can render, nil meaning yes.
type Availability interface {
	Available() error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	availability Availability
	metrics      http.Handler
}

// NewHealthHandler creates a new health handler. A nil availability is
// always healthy.
func NewHealthHandler(availability Availability) *HealthHandler {
	return &HealthHandler{
		availability: availability,
		metrics:      promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// HandleHealth handles GET /healthz requests.
// Clients accepting application/json get a status document, 503 while the
// dataset is unavailable. Everything else gets the Prometheus exposition.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Accept"), "application/json") {
		h.metrics.ServeHTTP(w, r)
		return
	}
	if h.availability != nil {
		if err := h.availability.Available(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Reason: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
