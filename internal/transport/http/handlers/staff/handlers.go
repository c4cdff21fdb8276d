package staffhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/staff"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
)

type Handler struct {
	Service *staff.Service
}

func NewHandler(service *staff.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Use(middleware.RequireActor)
		r.With(middleware.RequireCapability(staff.CapSeeAllRequests)).Get("/", h.handleList)
		r.With(middleware.RequireCapability(staff.CapManageRoles)).Post("/", h.handleCreate)
		r.With(middleware.RequireCapability(staff.CapManageRoles)).Put("/{employeeID}/role", h.handleChangeRole)
		r.Get("/{employeeID}", h.handleGet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	id := chi.URLParam(r, "employeeID")
	if id != actor.ID && !actor.Can(staff.CapSeeAllRequests) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}

	employee, err := h.Service.Get(r.Context(), id)
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}

	// Whether the employee's own requests go through a unit-head pre-approval.
	hasHead, err := h.Service.UnitHasHead(r.Context(), employee.Unit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"employee": employee, "unitHasHead": hasHead}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Level     int    `json:"level"`
		Unit      string `json:"unit"`
		UnitHead  bool   `json:"unitHead"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Username == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "username and password are required", middleware.GetRequestID(r.Context()))
		return
	}
	level := staff.HierarchyLevel(payload.Level)
	if !level.Valid() {
		api.Fail(w, http.StatusBadRequest, "invalid_level", "unknown hierarchy level", middleware.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	employee, err := h.Service.Create(r.Context(), staff.Employee{
		Username:  payload.Username,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Level:     level,
		Unit:      payload.Unit,
		UnitHead:  payload.UnitHead,
		Active:    true,
	}, hash)
	if errors.Is(err, staff.ErrUsernameTaken) {
		api.Fail(w, http.StatusConflict, "username_taken", "username already in use", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var payload struct {
		Level    int    `json:"level"`
		Unit     string `json:"unit"`
		UnitHead bool   `json:"unitHead"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	level := staff.HierarchyLevel(payload.Level)
	if !level.Valid() {
		api.Fail(w, http.StatusBadRequest, "invalid_level", "unknown hierarchy level", middleware.GetRequestID(r.Context()))
		return
	}

	employee, err := h.Service.ChangeRole(r.Context(), actor, chi.URLParam(r, "employeeID"), level, payload.Unit, payload.UnitHead)
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "role_change_failed", "failed to change role", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}
