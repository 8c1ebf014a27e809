package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/marquee/internal/domain/model"
)

// EventsHandler serves the JSON view and event endpoints.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the OpenAPI schema for POST /api/events.
type eventRequest struct {
	EventID       string   `json:"event_id"`
	Action        string   `json:"action"`
	MinMovieCount *int     `json:"min_movie_count"`
	RatingLow     *float64 `json:"rating_low"`
	RatingHigh    *float64 `json:"rating_high"`
	Focus         string   `json:"focus"`
	StoryEnabled  bool     `json:"story_enabled"`
	Compare       []string `json:"compare"`
}

func (e eventRequest) validate() error {
	action := model.Action(strings.TrimSpace(e.Action))
	switch {
	case action == "":
		return errors.New("missing action")
	case !action.Valid():
		return fmt.Errorf("unknown action %q", e.Action)
	}
	if action == model.ActionSetFilter {
		switch {
		case e.MinMovieCount == nil:
			return errors.New("missing min_movie_count")
		case e.RatingLow == nil:
			return errors.New("missing rating_low")
		case e.RatingHigh == nil:
			return errors.New("missing rating_high")
		}
	}
	return nil
}

func (e eventRequest) toEvent(sessionID string) model.Event {
	out := model.Event{
		EventID:      strings.TrimSpace(e.EventID),
		SessionID:    sessionID,
		Action:       model.Action(strings.TrimSpace(e.Action)),
		Focus:        e.Focus,
		StoryEnabled: e.StoryEnabled,
		Compare:      e.Compare,
	}
	if e.MinMovieCount != nil {
		out.MinMovieCount = *e.MinMovieCount
	}
	if e.RatingLow != nil {
		out.RatingLow = *e.RatingLow
	}
	if e.RatingHigh != nil {
		out.RatingHigh = *e.RatingHigh
	}
	return out
}

// HandleGetView handles GET /api/view requests.
func (h *EventsHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	vm, err := h.deps.View(r.Context(), sessionID(w, r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

// HandlePostEvent handles POST /api/events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %v", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %v", op, ErrBadRequest, err))
		return
	}

	vm, err := h.deps.Submit(r.Context(), req.toEvent(sessionID(w, r)))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vm)
}
