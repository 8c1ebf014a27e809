package api

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/marquee/internal/domain/dashboard"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
)

// DashboardHandler serves the HTML dashboard and its form posts.
type DashboardHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{deps: deps, logger: log}
}

type page struct {
	VM      dashboard.ViewModel
	Version string
}

// HandleDashboard handles GET / requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	vm, err := h.deps.View(r.Context(), sessionID(w, r))
	if err != nil {
		h.writeHTMLError(w, r, err)
		return
	}

	// Render to a buffer so template errors never produce half a page.
	var buf bytes.Buffer
	p := page{VM: vm, Version: version(vm)}
	if err := dashboardTmpl.Execute(&buf, p); err != nil {
		h.logger.Error(r.Context(), "dashboard template failed", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// HandlePostForm handles POST /events from the dashboard widgets and
// redirects back to the dashboard.
func (h *DashboardHandler) HandlePostForm(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_form"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("%s: %v", op, err), http.StatusBadRequest)
		return
	}

	e, err := eventFromForm(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("%s: %v", op, err), http.StatusBadRequest)
		return
	}
	e.SessionID = sessionID(w, r)

	if _, err := h.deps.Submit(r.Context(), e); err != nil {
		h.writeHTMLError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) writeHTMLError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if code == "dataset_not_found" {
		writeUnavailablePage(w)
		return
	}
	h.logger.Warn(r.Context(), "dashboard request failed", logger.String("code", code), logger.Error(err))
	http.Error(w, err.Error(), status)
}

// eventFromForm decodes a widget form post.
func eventFromForm(r *http.Request) (model.Event, error) {
	e := model.Event{Action: model.Action(strings.TrimSpace(r.PostForm.Get("action")))}
	if !e.Action.Valid() {
		return e, fmt.Errorf("%w: unknown action %q", ErrBadRequest, e.Action)
	}

	switch e.Action {
	case model.ActionSetFilter:
		var err error
		if e.MinMovieCount, err = strconv.Atoi(r.PostForm.Get("min_movie_count")); err != nil {
			return e, fmt.Errorf("%w: min_movie_count: %v", ErrBadRequest, err)
		}
		if e.RatingLow, err = parseRating(r.PostForm.Get("rating_low")); err != nil {
			return e, fmt.Errorf("%w: rating_low: %v", ErrBadRequest, err)
		}
		if e.RatingHigh, err = parseRating(r.PostForm.Get("rating_high")); err != nil {
			return e, fmt.Errorf("%w: rating_high: %v", ErrBadRequest, err)
		}
	case model.ActionSetFocus:
		e.Focus = r.PostForm.Get("focus")
	case model.ActionToggleStory:
		e.StoryEnabled = checked(r.PostForm.Get("story_enabled"))
	case model.ActionSetCompare:
		e.Compare = r.PostForm["compare"]
	}
	return e, nil
}

func parseRating(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, errors.New("not a number")
	}
	return v, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// version keys the chart URL on everything that changes the picture so
// browsers refetch it only when needed.
func version(vm dashboard.ViewModel) string {
	return fmt.Sprintf("%d-%g-%g-%d-%s",
		vm.Criteria.MinMovieCount, vm.Criteria.RatingLow, vm.Criteria.RatingHigh, vm.Filtered, vm.Focus)
}
