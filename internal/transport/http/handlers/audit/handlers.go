package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/staff"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireActor)
		r.With(middleware.RequireCapability(staff.CapReadAudit)).Get("/logs", h.handleList)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := audit.Filter{
		Accion:  r.URL.Query().Get("accion"),
		ActorID: r.URL.Query().Get("actorId"),
	}

	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit entries", middleware.GetRequestID(r.Context()))
		return
	}
	entries, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit entries", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{"total": total, "entries": entries}, middleware.GetRequestID(r.Context()))
}
