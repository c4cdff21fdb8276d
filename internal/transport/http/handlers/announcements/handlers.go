package announcementshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/announcements"
	"intranet/internal/domain/staff"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service *announcements.Service
}

func NewHandler(service *announcements.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/announcements", func(r chi.Router) {
		r.Use(middleware.RequireActor)
		r.Get("/", h.handleLatest)
		r.With(middleware.RequireCapability(staff.CapManageAnnouncements)).Post("/", h.handleCreate)
		r.With(middleware.RequireCapability(staff.CapManageAnnouncements)).Put("/{announcementID}", h.handleUpdate)
		r.With(middleware.RequireCapability(staff.CapManageAnnouncements)).Delete("/{announcementID}", h.handleDelete)
	})
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 3, 50)
	latest, err := h.Service.Latest(r.Context(), page.Limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "announcements_failed", "failed to list announcements", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, latest, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var payload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	created, err := h.Service.Create(r.Context(), actor.ID, payload.Title, payload.Body)
	if errors.Is(err, announcements.ErrEmpty) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "title and body are required", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "announcement_create_failed", "failed to create announcement", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var payload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Service.Update(r.Context(), actor.ID, chi.URLParam(r, "announcementID"), payload.Title, payload.Body)
	switch {
	case errors.Is(err, announcements.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "announcement not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, announcements.ErrEmpty):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "title and body are required", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "announcement_update_failed", "failed to update announcement", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, updated, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	err := h.Service.Delete(r.Context(), actor.ID, chi.URLParam(r, "announcementID"))
	if errors.Is(err, announcements.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "announcement not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "announcement_delete_failed", "failed to delete announcement", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}
