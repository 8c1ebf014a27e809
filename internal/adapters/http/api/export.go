package api

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/okian/marquee/internal/adapters/export"
	"github.com/okian/marquee/internal/domain/dashboard"
	"github.com/okian/marquee/pkg/logger"
)

// ExportHandler serves the caller's filtered rows as a download.
type ExportHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies, log logger.Logger) *ExportHandler {
	return &ExportHandler{deps: deps, logger: log}
}

// HandleExport handles GET /export/bollywood_filtered.csv and
// GET /export/bollywood_filtered.xlsx.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/export/")
	var format export.Format
	switch name {
	case export.FormatCSV.Filename(dashboard.ExportFilename):
		format = export.FormatCSV
	case export.FormatXLSX.Filename(dashboard.ExportFilename):
		format = export.FormatXLSX
	default:
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", ErrUnsupported, name))
		return
	}

	vm, err := h.deps.View(r.Context(), sessionID(w, r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, vm.Rows(), format); err != nil {
		h.logger.Error(r.Context(), "export failed", logger.String("format", string(format)), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "export_failed", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
