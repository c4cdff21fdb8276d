package calendarhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/calendar"
	"intranet/internal/domain/staff"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service *calendar.Service
}

func NewHandler(service *calendar.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.Use(middleware.RequireActor)
		r.Get("/events", h.handleList)
		r.Get("/feed", h.handleFeed)
		r.With(middleware.RequireCapability(staff.CapManageCalendar)).Post("/events", h.handleCreate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "calendar_list_failed", "failed to list events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

// handleFeed returns entries in the shape the frontend calendar widget
// consumes, without the response envelope.
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.Feed(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "calendar_feed_failed", "failed to build feed", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		return
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title     string `json:"title"`
		EventType string `json:"eventType"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	start, err := shared.ParseDate(payload.StartDate)
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "startDate must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}
	var end *time.Time
	if payload.EndDate != "" {
		parsed, err := shared.ParseDate(payload.EndDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		end = &parsed
	}

	event, err := h.Service.Create(r.Context(), payload.Title, payload.EventType, start, end)
	if errors.Is(err, calendar.ErrInvalidEvent) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "title and start date are required", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "calendar_create_failed", "failed to create event", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, event, middleware.GetRequestID(r.Context()))
}
