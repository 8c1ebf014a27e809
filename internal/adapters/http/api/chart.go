package api

import (
	"net/http"
	"strings"

	"github.com/okian/marquee/internal/adapters/chart"
	"github.com/okian/marquee/pkg/logger"
)

// ChartHandler serves the scatter image of the caller's filtered view.
type ChartHandler struct {
	deps     Dependencies
	renderer ChartRenderer
	logger   logger.Logger
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies, renderer ChartRenderer, log logger.Logger) *ChartHandler {
	return &ChartHandler{deps: deps, renderer: renderer, logger: log}
}

// HandleScatter handles GET /chart/scatter.svg and GET /chart/scatter.png.
func (h *ChartHandler) HandleScatter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/chart/")
	var format chart.Format
	switch name {
	case "scatter.svg":
		format = chart.FormatSVG
	case "scatter.png":
		format = chart.FormatPNG
	default:
		http.NotFound(w, r)
		return
	}

	vm, err := h.deps.View(r.Context(), sessionID(w, r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.Render(r.Context(), w, chart.BuildScatter(vm.Rows(), vm.Focus), format); err != nil {
		h.logger.Error(r.Context(), "scatter render failed", logger.Error(err))
	}
}
