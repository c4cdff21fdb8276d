package reportshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/reports"
	"intranet/internal/domain/staff"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireActor)
		r.Use(middleware.RequireCapability(staff.CapViewReports))
		r.Get("/pending", h.handlePending)
		r.Get("/pending/pdf", h.handlePendingPDF)
		r.Get("/balances", h.handleBalances)
		r.Get("/balances/pdf", h.handleBalancesPDF)
	})
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.PendingRequests(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.BalancesOverview(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePendingPDF(w http.ResponseWriter, r *http.Request) {
	servePDF(w, r, "solicitudes_pendientes.pdf", h.Service.PendingRequestsPDF)
}

func (h *Handler) handleBalancesPDF(w http.ResponseWriter, r *http.Request) {
	servePDF(w, r, "saldos.pdf", h.Service.BalancesPDF)
}

func servePDF(w http.ResponseWriter, r *http.Request, filename string, build func(ctx context.Context) ([]byte, error)) {
	data, err := build(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_pdf_failed", "failed to render report", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write(data); err != nil {
		return
	}
}
