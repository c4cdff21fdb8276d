package documentshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/documents"
	"intranet/internal/domain/staff"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
)

type Handler struct {
	Service *documents.Service
}

func NewHandler(service *documents.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Use(middleware.RequireActor)
		r.Get("/", h.handleList)
		r.With(middleware.RequireCapability(staff.CapManageDocuments)).Post("/", h.handleCreate)
		r.Delete("/{documentID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	docs, err := h.Service.List(r.Context(), actor, r.URL.Query().Get("search"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "documents_list_failed", "failed to list documents", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, docs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var payload struct {
		Title        string `json:"title"`
		Category     string `json:"category"`
		PathRef      string `json:"pathRef"`
		Public       bool   `json:"public"`
		SharedLevels []int  `json:"sharedLevels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	doc, err := h.Service.Create(r.Context(), actor, documents.Document{
		Title:        payload.Title,
		Category:     payload.Category,
		PathRef:      payload.PathRef,
		Public:       payload.Public,
		SharedLevels: payload.SharedLevels,
	})
	if errors.Is(err, documents.ErrInvalid) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "title and pathRef are required", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_create_failed", "failed to create document", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, doc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "documentID"))
	switch {
	case errors.Is(err, documents.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, documents.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "only the uploader or the director may delete", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "document_delete_failed", "failed to delete document", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
	}
}
