package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/leave"
	"intranet/internal/domain/staff"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireActor)
		r.Get("/requests", h.handleListRequests)
		r.Post("/requests", h.handleSubmit)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Post("/requests/{requestID}/pre-approve", h.handlePreApprove)
		r.Post("/requests/{requestID}/approve", h.handleApprove)
		r.Post("/requests/{requestID}/reject", h.handleReject)
		r.Get("/balances/me", h.handleOwnBalance)
		r.With(middleware.RequireCapability(staff.CapAdjustBalances)).Get("/balances/{employeeID}", h.handleGetBalance)
		r.With(middleware.RequireCapability(staff.CapAdjustBalances)).Post("/balances/adjust", h.handleAdjustBalance)
		r.With(middleware.RequireCapability(staff.CapRecordMedicalLeave)).Post("/medical-leaves", h.handleRecordMedicalLeave)
		r.Get("/medical-leaves", h.handleListMedicalLeaves)
	})
}

// failError maps workflow errors onto transport codes. Validation failures
// carry their kind and field so forms can highlight the offending input.
func failError(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMsg string) {
	requestID := middleware.GetRequestID(r.Context())

	var verr *leave.ValidationError
	switch {
	case errors.As(err, &verr):
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", verr.Message,
			map[string]string{"kind": string(verr.Kind), "field": verr.Field}, requestID)
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrUnauthorized):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to act on this request", requestID)
	case errors.Is(err, leave.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "request is no longer in a state that accepts this action", requestID)
	case errors.Is(err, leave.ErrConcurrencyConflict):
		api.Fail(w, http.StatusConflict, "balance_conflict", "balance changed concurrently, retry", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMsg, requestID)
	}
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	requests, err := h.Service.VisibleRequests(r.Context(), actor)
	if err != nil {
		failError(w, r, err, "leave_list_failed", "failed to list leave requests")
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var payload struct {
		Type          string `json:"type"`
		StartDate     string `json:"startDate"`
		EndDate       string `json:"endDate"`
		Hours         int    `json:"hours"`
		AttachmentRef string `json:"attachmentRef"`
		Note          string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Submit(r.Context(), actor, leave.Submission{
		Type:          leave.RequestType(payload.Type),
		StartDate:     payload.StartDate,
		EndDate:       payload.EndDate,
		Hours:         payload.Hours,
		AttachmentRef: payload.AttachmentRef,
		Note:          payload.Note,
	})
	if err != nil {
		failError(w, r, err, "leave_submit_failed", "failed to submit leave request")
		return
	}
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	req, err := h.Service.Request(r.Context(), actor, chi.URLParam(r, "requestID"))
	if err != nil {
		failError(w, r, err, "leave_get_failed", "failed to load leave request")
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePreApprove(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	req, err := h.Service.PreApprove(r.Context(), actor, chi.URLParam(r, "requestID"))
	if err != nil {
		failError(w, r, err, "leave_pre_approve_failed", "failed to pre-approve leave request")
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	req, err := h.Service.Approve(r.Context(), actor, chi.URLParam(r, "requestID"))
	if err != nil {
		failError(w, r, err, "leave_approve_failed", "failed to approve leave request")
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var payload struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Reject(r.Context(), actor, chi.URLParam(r, "requestID"), payload.Comment)
	if err != nil {
		failError(w, r, err, "leave_reject_failed", "failed to reject leave request")
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOwnBalance(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	balance, err := h.Service.Balance(r.Context(), actor.ID)
	if err != nil {
		failError(w, r, err, "balance_get_failed", "failed to load balance")
		return
	}
	api.Success(w, balance, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.Service.Balance(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		failError(w, r, err, "balance_get_failed", "failed to load balance")
		return
	}
	api.Success(w, balance, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAdjustBalance(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var payload struct {
		EmployeeID string `json:"employeeId"`
		Field      string `json:"field"`
		Value      int    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	balance, err := h.Service.AdjustBalance(r.Context(), actor, payload.EmployeeID, leave.BalanceField(payload.Field), payload.Value)
	if err != nil {
		failError(w, r, err, "balance_adjust_failed", "failed to adjust balance")
		return
	}
	api.Success(w, balance, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecordMedicalLeave(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var payload struct {
		EmployeeID  string `json:"employeeId"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		DocumentRef string `json:"documentRef"`
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
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil || end.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.RecordMedicalLeave(r.Context(), actor, payload.EmployeeID, start, end, payload.DocumentRef)
	if err != nil {
		failError(w, r, err, "medical_leave_failed", "failed to record medical leave")
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListMedicalLeaves(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	employeeID := r.URL.Query().Get("employeeId")
	if !actor.Can(staff.CapRecordMedicalLeave) {
		// Regular staff only see their own records.
		employeeID = actor.ID
	}

	records, err := h.Service.MedicalLeaves(r.Context(), employeeID)
	if err != nil {
		failError(w, r, err, "medical_leave_list_failed", "failed to list medical leaves")
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}
